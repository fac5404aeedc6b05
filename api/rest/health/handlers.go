package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// returns a health handler checking each named dependency; nil pingers are skipped
func Handler(deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp := Response{
			Status:  statusHealthy,
			Service: serviceName,
			Version: serviceVersion,
		}

		status := http.StatusOK

		for name, dep := range deps {
			if dep == nil {
				continue
			}

			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(deps))
			}

			if err := dep.Ping(ctx); err != nil {
				resp.Checks[name] = "unreachable"
				resp.Status = statusDegraded
				status = http.StatusServiceUnavailable

				continue
			}

			resp.Checks[name] = "ok"
		}

		c.JSON(status, resp)
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}
