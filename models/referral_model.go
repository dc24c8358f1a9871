package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ReferralStatusPending  = "pending"
	ReferralStatusApproved = "approved"
)

// Referral pays the referrer a one-time commission when the referred user
// completes their first task. ReferredUserID is unique: a user can be
// referred at most once, so at most one pending row can ever match them.
type Referral struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReferrerID     uuid.UUID       `gorm:"type:uuid;not null"`
	ReferredUserID uuid.UUID       `gorm:"type:uuid;not null;unique"`
	Status         string          `gorm:"size:20;not null;default:'pending'"`
	RewardAmount   decimal.Decimal `gorm:"type:numeric(20,4);not null"`

	Referrer     User `gorm:"foreignKey:ReferrerID"`
	ReferredUser User `gorm:"foreignKey:ReferredUserID"`

	CreatedAt time.Time
}

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
