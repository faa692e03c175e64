package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/identity"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/leave"
	leaveerrors "github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/leave/errors"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/shared/response"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool                     `json:"ok"`
	Data  json.RawMessage          `json:"data"`
	Meta  *response.PaginationMeta `json:"meta"`
	Error *apiError                `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn  func(ctx context.Context, actor identity.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	getMyFn   func(ctx context.Context, actor identity.Actor, f leave.ListFilter) ([]leave.LeaveResponse, response.PaginationMeta, error)
	getTeamFn func(ctx context.Context, actor identity.Actor, f leave.ListFilter) ([]leave.LeaveResponse, response.PaginationMeta, error)
	getAllFn  func(ctx context.Context, f leave.ListFilter) ([]leave.LeaveResponse, response.PaginationMeta, error)
	getByIDFn func(ctx context.Context, actor identity.Actor, id string) (leave.LeaveResponse, error)
	reviewFn  func(ctx context.Context, actor identity.Actor, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error)
	cancelFn  func(ctx context.Context, actor identity.Actor, id string) (leave.LeaveResponse, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (f *fakeLeaveService) Create(ctx context.Context, actor identity.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, actor, req)
}

func (f *fakeLeaveService) GetMyLeaves(ctx context.Context, actor identity.Actor, filter leave.ListFilter) ([]leave.LeaveResponse, response.PaginationMeta, error) {
	return f.getMyFn(ctx, actor, filter)
}

func (f *fakeLeaveService) GetTeamLeaves(ctx context.Context, actor identity.Actor, filter leave.ListFilter) ([]leave.LeaveResponse, response.PaginationMeta, error) {
	return f.getTeamFn(ctx, actor, filter)
}

func (f *fakeLeaveService) GetAllLeaves(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveResponse, response.PaginationMeta, error) {
	return f.getAllFn(ctx, filter)
}

func (f *fakeLeaveService) GetByID(ctx context.Context, actor identity.Actor, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, actor, id)
}

func (f *fakeLeaveService) Review(ctx context.Context, actor identity.Actor, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
	return f.reviewFn(ctx, actor, id, req)
}

func (f *fakeLeaveService) Cancel(ctx context.Context, actor identity.Actor, id string) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, actor, id)
}

func (f *fakeLeaveService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func setActor(userID, role, departmentID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Set("department_id", departmentID)
		c.Next()
	}
}

func newLeaveRouter(svc leave.Service, actor identity.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := leave.NewHandler(svc)

	group := router.Group("/leaves")
	group.Use(setActor(actor.ID, actor.Role, actor.DepartmentID))
	{
		group.POST("", handler.Create)
		group.GET("/my", handler.GetMy)
		group.GET("/:id", handler.GetById)
		group.PATCH("/:id/review", handler.Review)
	}
	return router
}

func TestLeaveHandler_Create(t *testing.T) {
	actor := identity.Actor{ID: uuid.NewString(), Role: identity.RoleEmployee}

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, a identity.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actor.ID, a.ID)
				assert.Equal(t, "2026-03-02", req.StartDate)
				return leave.LeaveResponse{
					ID:        uuid.NewString(),
					TotalDays: 5,
					Status:    leave.StatusPending,
				}, nil
			},
		}
		router := newLeaveRouter(svc, actor)

		body := `{"leave_type_id":"` + uuid.NewString() + `","start_date":"2026-03-02","end_date":"2026-03-06","reason":"family trip"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.Nil(t, env.Error)
	})

	t.Run("negative missing fields", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, a identity.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service must not be called on a binding failure")
				return leave.LeaveResponse{}, nil
			},
		}
		router := newLeaveRouter(svc, actor)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{"reason":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
	})

	t.Run("negative overlap maps to conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, a identity.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveOverlap
			},
		}
		router := newLeaveRouter(svc, actor)

		body := `{"leave_type_id":"` + uuid.NewString() + `","start_date":"2026-03-02","end_date":"2026-03-06","reason":"family trip"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})
}

func TestLeaveHandler_GetMy(t *testing.T) {
	actor := identity.Actor{ID: uuid.NewString(), Role: identity.RoleEmployee}

	t.Run("success passes filters and returns pagination meta", func(t *testing.T) {
		svc := &fakeLeaveService{
			getMyFn: func(ctx context.Context, a identity.Actor, f leave.ListFilter) ([]leave.LeaveResponse, response.PaginationMeta, error) {
				assert.Equal(t, actor.ID, a.ID)
				assert.Equal(t, leave.StatusPending, f.Status)
				assert.Equal(t, 2, f.Page)
				assert.Equal(t, 5, f.Limit)
				return []leave.LeaveResponse{{ID: uuid.NewString()}}, response.NewPaginationMeta(11, 2, 5), nil
			},
		}
		router := newLeaveRouter(svc, actor)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/leaves/my?status=pending&page=2&limit=5", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.NotNil(t, env.Meta)
		assert.Equal(t, int64(11), env.Meta.Total)
		assert.Equal(t, 3, env.Meta.TotalPages)
	})
}

func TestLeaveHandler_GetById(t *testing.T) {
	actor := identity.Actor{ID: uuid.NewString(), Role: identity.RoleEmployee}

	t.Run("negative forbidden for someone else's leave", func(t *testing.T) {
		svc := &fakeLeaveService{
			getByIDFn: func(ctx context.Context, a identity.Actor, id string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrNotYourLeave
			},
		}
		router := newLeaveRouter(svc, actor)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/leaves/"+uuid.NewString(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}

func TestLeaveHandler_Review(t *testing.T) {
	deptID := uuid.NewString()
	actor := identity.Actor{ID: uuid.NewString(), Role: identity.RoleManager, DepartmentID: deptID}

	t.Run("success forwards actor department", func(t *testing.T) {
		svc := &fakeLeaveService{
			reviewFn: func(ctx context.Context, a identity.Actor, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, deptID, a.DepartmentID)
				assert.Equal(t, leave.StatusApproved, req.Status)
				return leave.LeaveResponse{ID: id, Status: leave.StatusApproved}, nil
			},
		}
		router := newLeaveRouter(svc, actor)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/leaves/"+uuid.NewString()+"/review",
			strings.NewReader(`{"status":"approved","comment":"ok"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative status outside approved or rejected", func(t *testing.T) {
		svc := &fakeLeaveService{
			reviewFn: func(ctx context.Context, a identity.Actor, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service must not be called on a binding failure")
				return leave.LeaveResponse{}, nil
			},
		}
		router := newLeaveRouter(svc, actor)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/leaves/"+uuid.NewString()+"/review",
			strings.NewReader(`{"status":"cancelled"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
