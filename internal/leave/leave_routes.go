package leave

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/middleware"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer *casbin.Enforcer,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("",
			middleware.Authorize(enforcer, "leave", "create"),
			middleware.RateLimitByUser(rate.Limit(1), 5),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		leaves.GET("/my", middleware.Authorize(enforcer, "leave", "read_own"), handler.GetMy)
		leaves.GET("/team", middleware.Authorize(enforcer, "leave", "read_team"), handler.GetTeam)
		leaves.GET("", middleware.Authorize(enforcer, "leave", "read_all"), handler.GetAll)
		leaves.GET("/:id", middleware.Authorize(enforcer, "leave", "read_own"), handler.GetById)
		leaves.PATCH("/:id/review", middleware.Authorize(enforcer, "leave", "review"), handler.Review)
		leaves.PATCH("/:id/cancel", middleware.Authorize(enforcer, "leave", "cancel"), handler.Cancel)
		leaves.DELETE("/:id", middleware.Authorize(enforcer, "leave", "delete"), handler.Delete)
	}
}
