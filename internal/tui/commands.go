package tui

import (
	"context"

	"codeberg.org/devconnector/server/internal/apiclient"
	tea "github.com/charmbracelet/bubbletea"
)

// logs in against the API and stores the returned credential in the session
func (m *Model) loginCmd(email, password string) tea.Cmd {
	api, sess := m.api, m.session

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		token, err := api.Login(ctx, email, password)
		if err != nil {
			return loginFailedMsg{err: err}
		}

		if err := sess.Login(ctx, token); err != nil {
			return loginFailedMsg{err: err}
		}

		return loginSucceededMsg{}
	}
}

func (m *Model) registerCmd(req apiclient.RegisterRequest) tea.Cmd {
	api := m.api

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		account, err := api.Register(ctx, req)
		if err != nil {
			return registerFailedMsg{err: err}
		}

		return registeredMsg{account: account}
	}
}

// fetches the current user for the dashboard
func (m *Model) loadCurrentCmd() tea.Cmd {
	api := m.api

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		user, err := api.Current(ctx)
		if err != nil {
			return currentUserFailedMsg{err: err}
		}

		return currentUserMsg{user: user}
	}
}

func navigate(to View) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{to: to}
	}
}
