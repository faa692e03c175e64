package balance

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
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/my", middleware.Authorize(enforcer, "balance", "read_own"), handler.GetMy)
	}
}
