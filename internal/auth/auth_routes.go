package auth

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		// Credential endpoints get a tight per-IP limit to slow brute force.
		authGroup.POST("/login", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Login)
		authGroup.POST("/register", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Register)
		authGroup.POST("/refresh", middleware.RateLimitByIP(rate.Limit(2), 10), handler.Refresh)

		authGroup.GET("/me", middleware.AuthMiddleware(), handler.GetMe)
	}
}
