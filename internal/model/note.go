package model

import (
	"time"

	"gorm.io/gorm"
)

// Note represents a short text note owned by exactly one tenant and authored
// by exactly one user within that tenant. Every query touching notes must be
// tenant-filtered; a note's TenantID always equals its author's TenantID.
type Note struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Title     string         `json:"title" gorm:"type:varchar(255);not null"`
	Content   string         `json:"content" gorm:"type:text"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	AuthorID  uint           `json:"author_id" gorm:"index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}
