package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/balance"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/identity"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/leavetype"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/shared/contextutil"
	usererrors "github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/user/errors"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context, q ListUsersQuery) ([]UserResponse, int64, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	UpdateRole(ctx context.Context, id string, role string) (UserResponse, error)
	Deactivate(ctx context.Context, id string) (UserResponse, error)
}

type service struct {
	db         *gorm.DB
	repo       Repository
	leaveTypes leavetype.Repository
	balances   balance.Repository
	logger     *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	leaveTypes leavetype.Repository,
	balances balance.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		leaveTypes: leaveTypes,
		balances:   balances,
		logger:     l,
	}
}

// Create inserts the user and seeds one balance row per active leave type
// for the current year (allocated = the type's default, used = pending = 0).
// User and balance rows commit together or not at all.
func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create user requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	if !identity.ValidRole(req.Role) {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	var departmentID *uuid.UUID
	if req.DepartmentID != nil && *req.DepartmentID != "" {
		parsed, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return UserResponse{}, usererrors.ErrInvalidDepartmentID
		}
		departmentID = &parsed
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return UserResponse{}, usererrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return UserResponse{}, err
	}

	u := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashed),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		DepartmentID: departmentID,
		IsActive:     true,
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create user begin tx failed", zap.Error(tx.Error))
		return UserResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, u); err != nil {
		s.logger.Error("create user persist failed", zap.Error(err))
		return UserResponse{}, err
	}

	types, err := s.leaveTypes.WithTx(tx).FindAllActive(ctx)
	if err != nil {
		s.logger.Error("create user list leave types failed", zap.Error(err))
		return UserResponse{}, err
	}

	year := time.Now().UTC().Year()
	qbal := s.balances.WithTx(tx)
	for _, lt := range types {
		b := &balance.LeaveBalance{
			ID:          uuid.New(),
			UserID:      u.ID,
			LeaveTypeID: lt.ID,
			Year:        year,
			Allocated:   lt.DefaultDaysPerYear,
		}
		if err := qbal.Create(ctx, b); err != nil {
			s.logger.Error("create user seed balance failed",
				zap.String("leave_type_id", lt.ID.String()),
				zap.Error(err),
			)
			return UserResponse{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create user commit failed", zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("create user success",
		zap.String("request_id", rid),
		zap.String("user_id", u.ID.String()),
		zap.Int("balances_seeded", len(types)),
	)

	return mapToResponse(*u), nil
}

func (s *service) GetAll(ctx context.Context, q ListUsersQuery) ([]UserResponse, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}

	users, total, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			u.DepartmentID = nil
		} else {
			parsed, err := uuid.Parse(*req.DepartmentID)
			if err != nil {
				return UserResponse{}, usererrors.ErrInvalidDepartmentID
			}
			u.DepartmentID = &parsed
		}
		u.Department = nil
	}

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("update user persist failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	return mapToResponse(*u), nil
}

func (s *service) UpdateRole(ctx context.Context, id string, role string) (UserResponse, error) {
	if !identity.ValidRole(role) {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	u.Role = role
	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, err
	}

	s.logger.Info("update user role", zap.String("user_id", id), zap.String("role", role))
	return mapToResponse(*u), nil
}

// Deactivate disables login without deleting history. Users are never hard
// deleted: their leaves and balances stay referenced.
func (s *service) Deactivate(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	u.IsActive = false
	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, err
	}

	s.logger.Info("deactivate user", zap.String("user_id", id))
	return mapToResponse(*u), nil
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if u.DepartmentID != nil {
		v := u.DepartmentID.String()
		resp.DepartmentID = &v
	}
	if u.Department != nil {
		resp.DepartmentName = u.Department.Name
	}
	return resp
}
