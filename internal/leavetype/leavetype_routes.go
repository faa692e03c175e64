package leavetype

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
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", middleware.Authorize(enforcer, "leave_type", "read"), handler.GetAll)
		types.GET("/options", middleware.Authorize(enforcer, "leave_type", "read"), handler.GetOptions)
		types.GET("/:id", middleware.Authorize(enforcer, "leave_type", "read"), handler.GetById)
		types.POST("", middleware.Authorize(enforcer, "leave_type", "manage"), handler.Create)
		types.PATCH("/:id", middleware.Authorize(enforcer, "leave_type", "manage"), handler.Update)
		types.DELETE("/:id", middleware.Authorize(enforcer, "leave_type", "manage"), handler.Delete)
	}
}
