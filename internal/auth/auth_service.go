package auth

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	autherrors "github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/auth/errors"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/identity"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/shared/contextutil"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/user"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (TokenPair, error)
	GetMe(ctx context.Context, actor identity.Actor) (user.UserResponse, error)
}

type service struct {
	users       user.Repository
	userService user.Service
	logger      *zap.Logger
}

func NewService(users user.Repository, userService user.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{users: users, userService: userService, logger: l}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Warn("login failed: unknown email", zap.String("email", req.Email))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}
	if !u.IsActive {
		return LoginResponse{}, autherrors.ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn("login failed: bad password", zap.String("user_id", u.ID.String()))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return LoginResponse{}, err
	}

	resp, err := s.userService.GetByID(ctx, u.ID.String())
	if err != nil {
		return LoginResponse{}, err
	}

	log.Info("user logged in", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))
	return LoginResponse{User: resp, Tokens: tokens}, nil
}

// Register creates a self-service account. The role is always employee;
// elevated roles are granted by an admin afterwards.
func (s *service) Register(ctx context.Context, req RegisterRequest) (LoginResponse, error) {
	created, err := s.userService.Create(ctx, user.CreateUserRequest{
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         identity.RoleEmployee,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return LoginResponse{}, err
	}

	u, err := s.users.FindByID(ctx, created.ID)
	if err != nil {
		return LoginResponse{}, err
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{User: created, Tokens: tokens}, nil
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (TokenPair, error) {
	token, err := jwt.Parse(req.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		if err != nil && errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPair{}, autherrors.ErrTokenExpired
		}
		return TokenPair{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["token_type"] != "refresh" {
		return TokenPair{}, autherrors.ErrInvalidRefreshToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return TokenPair{}, autherrors.ErrInvalidRefreshToken
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return TokenPair{}, autherrors.ErrInvalidRefreshToken
	}
	if !u.IsActive {
		return TokenPair{}, autherrors.ErrAccountDisabled
	}

	return s.issueTokens(u)
}

func (s *service) GetMe(ctx context.Context, actor identity.Actor) (user.UserResponse, error) {
	return s.userService.GetByID(ctx, actor.ID)
}

func (s *service) issueTokens(u *user.User) (TokenPair, error) {
	secret := []byte(os.Getenv("JWT_SECRET"))
	now := time.Now()

	var departmentID string
	if u.DepartmentID != nil {
		departmentID = u.DepartmentID.String()
	}

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":       u.ID.String(),
		"role":          u.Role,
		"department_id": departmentID,
		"token_type":    "access",
		"iat":           now.Unix(),
		"exp":           now.Add(accessTokenTTL).Unix(),
	})
	accessString, err := access.SignedString(secret)
	if err != nil {
		return TokenPair{}, autherrors.ErrTokenGenerationFailed
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    u.ID.String(),
		"token_type": "refresh",
		"iat":        now.Unix(),
		"exp":        now.Add(refreshTokenTTL).Unix(),
	})
	refreshString, err := refresh.SignedString(secret)
	if err != nil {
		return TokenPair{}, autherrors.ErrTokenGenerationFailed
	}

	return TokenPair{
		AccessToken:  accessString,
		RefreshToken: refreshString,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}
