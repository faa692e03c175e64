package user

type CreateUserRequest struct {
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=8"`
	FirstName    string  `json:"first_name" binding:"required"`
	LastName     string  `json:"last_name" binding:"required"`
	Role         string  `json:"role" binding:"required,oneof=employee manager admin"`
	DepartmentID *string `json:"department_id"`
}

type UpdateUserRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	DepartmentID *string `json:"department_id"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=employee manager admin"`
}

type ListUsersQuery struct {
	DepartmentID string
	Role         string
	Search       string
	Page         int
	Limit        int
}

type UserResponse struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Role           string  `json:"role"`
	DepartmentID   *string `json:"department_id,omitempty"`
	DepartmentName string  `json:"department_name,omitempty"`
	IsActive       bool    `json:"is_active"`
	CreatedAt      string  `json:"created_at"`
}
