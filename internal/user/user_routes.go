package user

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/middleware"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer *casbin.Enforcer,
) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	users.Use(middleware.Authorize(enforcer, "user", "manage"))
	{
		users.GET("", handler.GetAll)
		users.GET("/:id", handler.GetById)
		users.POST("", handler.Create)
		users.PATCH("/:id", handler.Update)
		users.PATCH("/:id/role", handler.UpdateRole)
		users.DELETE("/:id", handler.Deactivate)
	}
}
