// Package domain contains the audit trail model.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// AuditLog records one state-changing action against a business entity.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID      `gorm:"not null;index" json:"company_id"`
	EntityType string            `gorm:"type:text;not null;index" json:"entity_type"`
	EntityID   snowflake.ID      `gorm:"not null;index" json:"entity_id"`
	Action     string            `gorm:"type:text;not null" json:"action"`
	Changes    datatypes.JSONMap `gorm:"type:jsonb" json:"changes,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

// Entry is the caller-facing shape of a recorded action.
type Entry struct {
	EntityType string
	EntityID   snowflake.ID
	Action     string
	Changes    map[string]interface{}
}

// Recorder appends audit entries. Recording never fails the calling
// operation; implementations log and swallow write errors.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}
