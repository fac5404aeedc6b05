package main

import (
	"codeberg.org/devconnector/server/devconnector/users"
	"codeberg.org/devconnector/server/internal/auth"
	"codeberg.org/devconnector/server/internal/config"
	"codeberg.org/devconnector/server/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// holds all dependencies and state for the API server
type Server struct {
	db       *pgxpool.Pool // nil when accounts are kept in memory
	config   *config.Config
	store    users.Store
	issuer   *auth.Issuer
	verifier *auth.Verifier
	limiter  *ratelimit.Limiter
	router   *gin.Engine
}
