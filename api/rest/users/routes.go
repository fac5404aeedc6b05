package users

import (
	"codeberg.org/devconnector/server/devconnector/users"
	"codeberg.org/devconnector/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// registers the account routes; throttle wraps the credential endpoints
func RegisterRoutes(rg *gin.RouterGroup, store users.Store, issuer *auth.Issuer, verifier *auth.Verifier, throttle gin.HandlerFunc) {
	group := rg.Group("/users")
	{
		group.GET("/test", TestHandler)
		group.POST("/register", throttle, RegisterHandler(store))
		group.POST("/login", throttle, LoginHandler(issuer))
		group.GET("/current", verifier.Middleware(), CurrentUserHandler(store))
	}
}
