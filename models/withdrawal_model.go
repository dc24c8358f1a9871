package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

// Withdrawal is a payout request. The amount is debited from the profile at
// request time; an admin later approves it (attaching card serial/code for
// card payouts) or rejects it, which refunds the amount.
type Withdrawal struct {
	ID     uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID       `gorm:"type:uuid;not null" json:"user_id"`
	Amount decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"amount"`

	// Method is free text: "Thẻ cào", "Banking", "Thẻ Garena".
	// AccountNumber holds the bank account or the email receiving card codes;
	// AccountName holds the account holder or the carrier.
	Method        string `gorm:"size:100;not null" json:"method"`
	AccountNumber string `gorm:"size:255;not null" json:"account_number"`
	AccountName   string `gorm:"size:255;not null" json:"account_name"`

	CardSerial *string `gorm:"size:100" json:"card_serial,omitempty"`
	CardCode   *string `gorm:"size:100" json:"card_code,omitempty"`

	Status     string  `gorm:"size:20;not null;default:'pending'" json:"status"`
	AdminNotes *string `gorm:"type:text" json:"admin_notes,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func (w *Withdrawal) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
