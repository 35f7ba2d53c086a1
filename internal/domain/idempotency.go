package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Idempotency represents a recorded result of a previously processed request,
// keyed by (user_id, scope, key). Chat turns use scope "process-input" and the
// client's transactionId as key, so a retried upload replays the stored
// response instead of calling the provider and writing entries again.
type Idempotency struct {
	ID        string         `gorm:"type:varchar(36);not null;primaryKey"`
	UserID    string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_user_scope_key,priority:1"`
	Scope     string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_user_scope_key,priority:2"`
	Key       string         `gorm:"type:varchar(128);not null;uniqueIndex:ux_user_scope_key,priority:3"`
	Response  datatypes.JSON `gorm:"not null"`
	Status    int            `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime"`
	ExpiresAt time.Time      `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
