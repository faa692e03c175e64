package identity

import "github.com/gin-gonic/gin"

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// Actor is the authenticated caller every service operation receives. It is
// resolved once by the auth middleware from JWT claims; services never look
// the caller up again.
type Actor struct {
	ID           string
	Role         string
	DepartmentID string // empty when the user has no department
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsManager() bool { return a.Role == RoleManager }

// FromGin rebuilds the Actor from the context values set by AuthMiddleware.
func FromGin(c *gin.Context) Actor {
	return Actor{
		ID:           c.GetString("user_id"),
		Role:         c.GetString("role"),
		DepartmentID: c.GetString("department_id"),
	}
}

func ValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}
