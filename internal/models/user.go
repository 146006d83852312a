package models

import "time"

// Roles a user can hold. Admins may edit and delete any recipe.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered author or reader.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(254)" validate:"required,email,max=254"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(150)" validate:"required,min=3,max=150"`
	FirstName string    `json:"first_name" gorm:"type:varchar(150)" validate:"required,max=150"`
	LastName  string    `json:"last_name" gorm:"type:varchar(150)" validate:"required,max=150"`
	Password  string    `json:"password,omitempty" gorm:"type:varchar(255)" validate:"required,min=6"` // cleared before responses
	Role      string    `json:"-" gorm:"type:varchar(20);default:user"`
	CreatedAt time.Time `json:"-"`
}

// IsAdmin reports whether the user holds the elevated role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
