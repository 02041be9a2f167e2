package model

import "time"

// AuditModel carries the audit columns every table in the portal shares.
// Soft deletion is explicit (deleted_at + is_deleted) rather than GORM's
// DeletedAt wrapper: rows removed by one service stay visible to the DBA and
// are filtered with is_deleted = false in every repository query.
type AuditModel struct {
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	IsDeleted bool       `gorm:"not null;default:false" json:"is_deleted"`
}
