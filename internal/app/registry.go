package app

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/auth"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/balance"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/department"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/leave"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/leavetype"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/messaging/kafka"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/user"
)

// registerModules wires every module bottom-up: repositories, services,
// handlers, routes. Cross-module dependencies only ever point at interfaces.
func registerModules(
	api *gin.RouterGroup,
	db *gorm.DB,
	rdb *redis.Client,
	enforcer *casbin.Enforcer,
) {
	departmentRepo := department.NewRepository(db)
	leaveTypeRepo := leavetype.NewRepository(db)
	balanceRepo := balance.NewRepository(db)
	userRepo := user.NewRepository(db)
	leaveRepo := leave.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	departmentService := department.NewService(departmentRepo)
	leaveTypeService := leavetype.NewService(leaveTypeRepo, rdb)
	balanceService := balance.NewService(balanceRepo)
	userService := user.NewService(db, userRepo, leaveTypeRepo, balanceRepo)
	authService := auth.NewService(userRepo, userService)
	leaveService := leave.NewService(db, leaveRepo, balanceRepo, leaveTypeRepo, outboxRepo)

	auth.RegisterRoutes(api, auth.NewHandler(authService))
	department.RegisterRoutes(api, department.NewHandler(departmentService), enforcer)
	leavetype.RegisterRoutes(api, leavetype.NewHandler(leaveTypeService), enforcer)
	balance.RegisterRoutes(api, balance.NewHandler(balanceService), enforcer)
	user.RegisterRoutes(api, user.NewHandler(userService), enforcer)
	leave.RegisterRoutes(api, leave.NewHandler(leaveService), enforcer, rdb)
}
