package users

import (
	"errors"
	"net/http"

	"codeberg.org/devconnector/server/devconnector/users"
	"codeberg.org/devconnector/server/internal/auth"
	apierrors "codeberg.org/devconnector/server/internal/errors"
	"codeberg.org/devconnector/server/internal/logger"
	"codeberg.org/devconnector/server/internal/validation"
	"github.com/gin-gonic/gin"
)

// TestHandler godoc
// @Summary Test users route
// @Tags users
// @Produce json
// @Success 200 {object} TestResponse
// @Router /api/users/test [get]
func TestHandler(c *gin.Context) {
	c.JSON(http.StatusOK, TestResponse{Msg: "Users api test endpoint"})
}

// RegisterHandler godoc
// @Summary Register a user
// @Description Create an account with a gravatar avatar derived from the email
// @Tags users
// @Accept json
// @Produce json
// @Param request body validation.RegisterInput true "Registration form"
// @Success 200 {object} users.User
// @Failure 400 {object} map[string]string
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/users/register [post]
func RegisterHandler(store users.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.RegisterInput

		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.ValidationError(c, err)
			return
		}

		if fields := validation.ValidateRegister(&req); len(fields) > 0 {
			apierrors.Fields(c, http.StatusBadRequest, fields)
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			apierrors.InternalError(c, "failed to hash password", err)
			return
		}

		user, err := store.Create(c.Request.Context(), &users.User{
			Name:         req.Name,
			Email:        req.Email,
			AvatarURL:    users.GravatarURL(req.Email),
			PasswordHash: hash,
		})

		if err != nil {
			if errors.Is(err, users.ErrEmailTaken) {
				apierrors.Fields(c, http.StatusBadRequest, apierrors.FieldErrors{"email": msgEmailExists})
				return
			}

			apierrors.InternalError(c, "failed to create user", err)
			return
		}

		logger.FromContext(c.Request.Context()).Info("user registered", "user_id", user.ID)

		c.JSON(http.StatusOK, user)
	}
}

// LoginHandler godoc
// @Summary Login
// @Description Check email and password and return a credential valid for one hour
// @Tags users
// @Accept json
// @Produce json
// @Param request body validation.LoginInput true "Login form"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/users/login [post]
func LoginHandler(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.LoginInput

		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.ValidationError(c, err)
			return
		}

		if fields := validation.ValidateLogin(&req); len(fields) > 0 {
			apierrors.Fields(c, http.StatusBadRequest, fields)
			return
		}

		token, err := issuer.Issue(c.Request.Context(), req.Email, req.Password)

		switch {
		case errors.Is(err, auth.ErrAccountNotFound):
			apierrors.Fields(c, http.StatusNotFound, apierrors.FieldErrors{"email": msgUserNotFound})
			return

		case errors.Is(err, auth.ErrInvalidCredentials):
			apierrors.Fields(c, http.StatusBadRequest, apierrors.FieldErrors{"password": msgIncorrectPassword})
			return

		case err != nil:
			apierrors.InternalError(c, "failed to issue token", err)
			return
		}

		c.JSON(http.StatusOK, LoginResponse{
			Success: true,
			Token:   auth.BearerPrefix + token,
		})
	}
}

// CurrentUserHandler godoc
// @Summary Get current user
// @Description Get the authenticated user's id, name and email
// @Tags users
// @Produce json
// @Success 200 {object} CurrentUserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/users/current [get]
// @Security BearerAuth
func CurrentUserHandler(store users.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)

		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		user, err := store.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				apierrors.NotFound(c, "user")
				return
			}

			apierrors.InternalError(c, "failed to load user", err)
			return
		}

		c.JSON(http.StatusOK, CurrentUserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
	}
}
