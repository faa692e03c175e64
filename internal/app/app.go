package app

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/bootstrap"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/middleware"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/rbac"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/shared/connection"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Run connects the backing services, builds the router, and blocks serving
// HTTP until a shutdown signal arrives.
func Run() error {
	db, err := connection.ConnectGORMWithRetry(
		envOr("DB_HOST", "localhost"),
		envOr("DB_USER", "postgres"),
		envOr("DB_PASSWORD", "postgres"),
		envOr("DB_NAME", "hr_leaveflow"),
		envOr("DB_PORT", "5432"),
		envOr("DB_SSLMODE", "disable"),
		5,
	)
	if err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(envOr("REDIS_ADDR", "localhost:6379"), 5)
	if err != nil {
		return err
	}

	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	registerModules(api, db, rdb, enforcer)

	bootstrap.StartHTTPServer(router, bootstrap.ServerConfig{
		Port:         envOr("PORT", "3000"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, bootstrap.NewStdoutAuditLogger())

	return nil
}
