package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles within a tenant.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User represents the user model stored in the database. A user belongs to
// exactly one tenant; the tenant association is immutable after creation.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	Role      string         `json:"role" gorm:"type:varchar(10);not null;default:'USER'"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Tenant Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

// IsAdmin reports whether the user holds the ADMIN role in their tenant.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
