package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Link is a sponsored task: visit the destination URL, earn the reward once.
type Link struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null" json:"user_id"`
	OriginalURL  string          `gorm:"type:text;not null" json:"original_url"`
	Slug         string          `gorm:"size:32;not null;unique" json:"slug"`
	Views        int64           `gorm:"not null;default:0" json:"views"`
	RewardAmount decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0.05" json:"reward_amount"`

	CreatedAt time.Time `json:"created_at"`
}

func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
