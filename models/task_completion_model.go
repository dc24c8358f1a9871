package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskCompletion records that a user has claimed the reward for a link.
// The composite unique index is the exactly-once guarantee: concurrent
// completions race on the insert, not on an application-level check.
type TaskCompletion struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_completion_user_link" json:"user_id"`
	LinkID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_completion_user_link" json:"link_id"`

	Link Link `gorm:"foreignKey:LinkID" json:"link,omitempty"`

	CompletedAt time.Time `gorm:"not null;autoCreateTime" json:"completed_at"`
}

func (t *TaskCompletion) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
