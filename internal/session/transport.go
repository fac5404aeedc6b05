package session

import (
	"net/http"

	"codeberg.org/devconnector/server/internal/logger"
)

// http.RoundTripper attaching the session credential to every request.
// A 401 on an authenticated request means the session is no longer valid.
type Transport struct {
	Session *Session
	Base    http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	t.Session.Attach(out)

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if sent := out.Header.Get("Authorization"); resp.StatusCode == http.StatusUnauthorized && sent != "" {
		cleared, err := t.Session.ClearIf(req.Context(), sent)
		if err != nil {
			logger.ErrorErr(err, "failed to clear rejected credential")
		}

		if cleared {
			logger.Info("credential rejected by server, session cleared")
		}
	}

	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}

	return http.DefaultTransport
}

// returns an http.Client whose requests carry the session credential
func (s *Session) Client(base *http.Client) *http.Client {
	c := &http.Client{}
	if base != nil {
		*c = *base
	}

	c.Transport = &Transport{Session: s, Base: c.Transport}

	return c
}
