package users

import (
	"crypto/md5" //nolint:gosec // gravatar addresses avatars by md5 of the email
	"encoding/hex"
	"net/url"
)

// builds the gravatar URL for an email (200px, pg rating, mystery-man fallback)
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(NormalizeEmail(email))) //nolint:gosec // not used for security

	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")

	return "//www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
