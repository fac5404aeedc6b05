package main

import (
	"codeberg.org/devconnector/server/api/rest/health"
	"codeberg.org/devconnector/server/api/rest/users"
	"codeberg.org/devconnector/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())
	router.Use(CORSMiddleware(server.config.CORSOrigins))

	deps := map[string]health.Pinger{}
	if server.db != nil {
		deps["database"] = server.db
	}

	if server.config.RedisURL != "" {
		deps["redis"] = server.limiter
	}

	router.GET("/health", health.Handler(deps))

	api := router.Group("/api")

	{
		api.GET("/ping", health.PingHandler)

		users.RegisterRoutes(api, server.store, server.issuer, server.verifier, server.limiter.Middleware())
	}
}
