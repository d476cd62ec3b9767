package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription plans. FREE tenants are capped at FreePlanNoteLimit notes.
const (
	PlanFree = "FREE"
	PlanPro  = "PRO"
)

// FreePlanNoteLimit is the maximum number of notes a FREE tenant may hold.
const FreePlanNoteLimit = 3

// Tenant represents an isolated organizational namespace owning its own
// users and notes. Tenants are provisioned out-of-band; the only mutation
// in this service is the FREE -> PRO plan upgrade.
type Tenant struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Slug      string         `json:"slug" gorm:"type:varchar(50);uniqueIndex;not null"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Plan      string         `json:"plan" gorm:"type:varchar(10);not null;default:'FREE'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Summary returns the denormalized tenant view embedded in login and
// upgrade responses.
func (t *Tenant) Summary() map[string]interface{} {
	return map[string]interface{}{
		"id":   t.ID,
		"slug": t.Slug,
		"name": t.Name,
		"plan": t.Plan,
	}
}
