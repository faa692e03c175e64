package department

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
	departments := r.Group("/departments")
	departments.Use(middleware.AuthMiddleware())
	{
		departments.GET("", middleware.Authorize(enforcer, "department", "read"), handler.GetAll)
		departments.GET("/:id", middleware.Authorize(enforcer, "department", "read"), handler.GetById)
		departments.POST("", middleware.Authorize(enforcer, "department", "manage"), handler.Create)
		departments.PATCH("/:id", middleware.Authorize(enforcer, "department", "manage"), handler.Update)
		departments.DELETE("/:id", middleware.Authorize(enforcer, "department", "manage"), handler.Delete)
	}
}
