package auth_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/auth"
	autherrors "github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/auth/errors"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/identity"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/user"
)

type fakeUserRepository struct {
	findByIDFn    func(ctx context.Context, id string) (*user.User, error)
	findByEmailFn func(ctx context.Context, email string) (*user.User, error)
}

func (f *fakeUserRepository) WithTx(tx *gorm.DB) user.Repository { return f }
func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	return nil
}
func (f *fakeUserRepository) FindAll(ctx context.Context, q user.ListUsersQuery) ([]user.User, int64, error) {
	return nil, 0, nil
}
func (f *fakeUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepository) Update(ctx context.Context, u *user.User) error {
	return nil
}

type fakeUserService struct {
	createFn  func(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error)
	getByIDFn func(ctx context.Context, id string) (user.UserResponse, error)
}

func (f *fakeUserService) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	return f.createFn(ctx, req)
}
func (f *fakeUserService) GetAll(ctx context.Context, q user.ListUsersQuery) ([]user.UserResponse, int64, error) {
	return nil, 0, nil
}
func (f *fakeUserService) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return user.UserResponse{ID: id}, nil
}
func (f *fakeUserService) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
	return user.UserResponse{}, nil
}
func (f *fakeUserService) UpdateRole(ctx context.Context, id string, role string) (user.UserResponse, error) {
	return user.UserResponse{}, nil
}
func (f *fakeUserService) Deactivate(ctx context.Context, id string) (user.UserResponse, error) {
	return user.UserResponse{}, nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.New()
	deptID := uuid.New()

	activeUser := func(t *testing.T) *user.User {
		return &user.User{
			ID:           userID,
			Email:        "jo@example.com",
			PasswordHash: hashOf(t, "secret-password"),
			Role:         identity.RoleManager,
			DepartmentID: &deptID,
			IsActive:     true,
		}
	}

	t.Run("success issues tokens carrying identity claims", func(t *testing.T) {
		repo := &fakeUserRepository{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				assert.Equal(t, "jo@example.com", email)
				return activeUser(t), nil
			},
		}
		svc := auth.NewService(repo, &fakeUserService{})

		resp, err := svc.Login(ctx, auth.LoginRequest{
			Email:    "jo@example.com",
			Password: "secret-password",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
		assert.NotEmpty(t, resp.Tokens.RefreshToken)

		token, err := jwt.Parse(resp.Tokens.AccessToken, func(t *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, userID.String(), claims["user_id"])
		assert.Equal(t, identity.RoleManager, claims["role"])
		assert.Equal(t, deptID.String(), claims["department_id"])
		assert.Equal(t, "access", claims["token_type"])
	})

	t.Run("negative wrong password", func(t *testing.T) {
		repo := &fakeUserRepository{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return activeUser(t), nil
			},
		}
		svc := auth.NewService(repo, &fakeUserService{})

		_, err := svc.Login(ctx, auth.LoginRequest{
			Email:    "jo@example.com",
			Password: "not-the-password",
		})

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepository{}, &fakeUserService{})

		_, err := svc.Login(ctx, auth.LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever",
		})

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative deactivated account", func(t *testing.T) {
		repo := &fakeUserRepository{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				u := activeUser(t)
				u.IsActive = false
				return u, nil
			},
		}
		svc := auth.NewService(repo, &fakeUserService{})

		_, err := svc.Login(ctx, auth.LoginRequest{
			Email:    "jo@example.com",
			Password: "secret-password",
		})

		assert.ErrorIs(t, err, autherrors.ErrAccountDisabled)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.New()

	t.Run("success rotates the pair", func(t *testing.T) {
		repo := &fakeUserRepository{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return &user.User{
					ID:           userID,
					Email:        email,
					PasswordHash: hashOf(t, "secret-password"),
					Role:         identity.RoleEmployee,
					IsActive:     true,
				}, nil
			},
			findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
				assert.Equal(t, userID.String(), id)
				return &user.User{ID: userID, Role: identity.RoleEmployee, IsActive: true}, nil
			},
		}
		svc := auth.NewService(repo, &fakeUserService{})

		login, err := svc.Login(ctx, auth.LoginRequest{Email: "jo@example.com", Password: "secret-password"})
		assert.NoError(t, err)

		pair, err := svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: login.Tokens.RefreshToken})
		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("negative access token is not accepted as refresh", func(t *testing.T) {
		repo := &fakeUserRepository{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return &user.User{
					ID:           userID,
					PasswordHash: hashOf(t, "secret-password"),
					Role:         identity.RoleEmployee,
					IsActive:     true,
				}, nil
			},
		}
		svc := auth.NewService(repo, &fakeUserService{})

		login, err := svc.Login(ctx, auth.LoginRequest{Email: "jo@example.com", Password: "secret-password"})
		assert.NoError(t, err)

		_, err = svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: login.Tokens.AccessToken})
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("negative garbage token", func(t *testing.T) {
		svc := auth.NewService(&fakeUserRepository{}, &fakeUserService{})

		_, err := svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: "not-a-token"})
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("success always registers as employee", func(t *testing.T) {
		userID := uuid.New()
		userSvc := &fakeUserService{
			createFn: func(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
				assert.Equal(t, identity.RoleEmployee, req.Role)
				return user.UserResponse{ID: userID.String(), Email: req.Email, Role: req.Role}, nil
			},
		}
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
				return &user.User{ID: userID, Role: identity.RoleEmployee, IsActive: true}, nil
			},
		}
		svc := auth.NewService(repo, userSvc)

		resp, err := svc.Register(ctx, auth.RegisterRequest{
			Email:     "new@example.com",
			Password:  "secret-password",
			FirstName: "New",
			LastName:  "Hire",
		})

		assert.NoError(t, err)
		assert.Equal(t, identity.RoleEmployee, resp.User.Role)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
	})
}
