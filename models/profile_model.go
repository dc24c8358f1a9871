package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile is the ledger row for a user. Balance is only ever mutated inside
// the service-layer transactions (task completion, withdrawal request,
// withdrawal rejection, referral credit).
type Profile struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Email    string          `gorm:"size:255" json:"email"`
	FullName *string         `gorm:"size:255" json:"full_name"`
	Balance  decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0;check:balance >= 0" json:"balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
