package model

// User roles
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a staff account allowed to sign in.
type User struct {
	Base
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	Name         string `json:"name" db:"name"`
	Role         string `json:"role" db:"role"`
}

// CreateUserRequest represents user creation parameters
type CreateUserRequest struct {
	Username string `form:"username" validate:"notblank,max=80"`
	Password string `form:"password" validate:"required,min=8"`
	Name     string `form:"name" validate:"max=120"`
	Role     string `form:"role" validate:"oneof=admin staff"`
}
