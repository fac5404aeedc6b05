package auth

import (
	"context"
	"errors"

	apierrors "codeberg.org/devconnector/server/internal/errors"
	"codeberg.org/devconnector/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// validates the bearer credential and adds the claims to the request context
func (v *Verifier) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := v.verifyHeader(c.GetHeader("Authorization"))
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug("credential rejected",
				"path", c.Request.URL.Path,
				"reason", rejectionReason(err),
			)

			// every verifier failure looks the same to the caller
			apierrors.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(contextKeyClaims, claims)
		c.Set(contextKeyUserID, claims.UserID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), claimsContextKey{}, claims))

		c.Next()
	}
}

func (v *Verifier) verifyHeader(header string) (*Claims, error) {
	token, err := CredentialFromHeader(header)
	if err != nil {
		return nil, err
	}

	return v.Verify(token)
}

// extracts user_id from context after the middleware ran
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(contextKeyUserID)

	if !exists {
		return "", false
	}

	id, ok := userID.(string)

	return id, ok
}

// extracts the verified claims from context after the middleware ran
func GetClaims(c *gin.Context) (*Claims, bool) {
	claims, exists := c.Get(contextKeyClaims)

	if !exists {
		return nil, false
	}

	typed, ok := claims.(*Claims)

	return typed, ok
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return "missing"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "error"
	}
}
