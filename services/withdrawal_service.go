package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	config "github.com/moneylink/moneylink_job/configs"
	"github.com/moneylink/moneylink_job/database"
	"github.com/moneylink/moneylink_job/logging"
	"github.com/moneylink/moneylink_job/models"
	"github.com/moneylink/moneylink_job/monitoring"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func minWithdrawalAmount() decimal.Decimal {
	raw := config.Config("MIN_WITHDRAWAL_AMOUNT")
	if raw == "" {
		return decimal.NewFromInt(1)
	}
	min, err := decimal.NewFromString(raw)
	if err != nil {
		logging.Logger.Warn("invalid MIN_WITHDRAWAL_AMOUNT, using default", zap.String("value", raw))
		return decimal.NewFromInt(1)
	}
	return min
}

// RequestWithdrawal debits the caller's balance and records a pending
// withdrawal in one transaction. The profile row stays locked from the
// balance check through the debit, so concurrent requests cannot both pass
// the check and overdraw the account.
func RequestWithdrawal(userID uuid.UUID, amount decimal.Decimal, method, accountNumber, accountName string) (*models.Withdrawal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if amount.LessThan(minWithdrawalAmount()) {
		return nil, ErrBelowMinimum
	}

	var withdrawal models.Withdrawal
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		profile, err := EnsureProfile(tx, userID)
		if err != nil {
			return err
		}
		if profile.Balance.LessThan(amount) {
			return ErrInsufficientBalance
		}

		profile.Balance = profile.Balance.Sub(amount)
		if err := tx.Save(profile).Error; err != nil {
			return err
		}

		withdrawal = models.Withdrawal{
			UserID:        userID,
			Amount:        amount,
			Method:        method,
			AccountNumber: accountNumber,
			AccountName:   accountName,
			Status:        models.WithdrawalStatusPending,
		}
		return tx.Create(&withdrawal).Error
	})
	if err != nil {
		return nil, err
	}

	monitoring.WithdrawalsRequestedTotal.Inc()
	logging.Logger.Info("withdrawal requested",
		zap.String("user_id", userID.String()),
		zap.String("withdrawal_id", withdrawal.ID.String()),
		zap.String("amount", amount.String()),
		zap.String("method", method))
	return &withdrawal, nil
}

// ApproveWithdrawal marks a pending withdrawal approved, optionally attaching
// the card serial/code for card payouts. The balance is untouched: it was
// debited when the request was made.
func ApproveWithdrawal(withdrawalID uuid.UUID, cardSerial, cardCode *string, adminNotes string) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := findPendingWithdrawal(tx, withdrawalID, &withdrawal); err != nil {
			return err
		}

		now := time.Now()
		withdrawal.Status = models.WithdrawalStatusApproved
		withdrawal.CardSerial = cardSerial
		withdrawal.CardCode = cardCode
		withdrawal.ProcessedAt = &now
		if adminNotes != "" {
			withdrawal.AdminNotes = &adminNotes
		}
		return tx.Save(&withdrawal).Error
	})
	if err != nil {
		return nil, err
	}

	monitoring.WithdrawalsProcessedTotal.WithLabelValues("approved").Inc()
	logging.Logger.Info("withdrawal approved",
		zap.String("withdrawal_id", withdrawal.ID.String()),
		zap.String("user_id", withdrawal.UserID.String()))
	return &withdrawal, nil
}

// RejectWithdrawal marks a pending withdrawal rejected and refunds the exact
// requested amount in the same transaction. A withdrawal that is no longer
// pending cannot be rejected again, so the refund cannot be duplicated.
func RejectWithdrawal(withdrawalID uuid.UUID, adminNotes string) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := findPendingWithdrawal(tx, withdrawalID, &withdrawal); err != nil {
			return err
		}

		now := time.Now()
		withdrawal.Status = models.WithdrawalStatusRejected
		withdrawal.ProcessedAt = &now
		if adminNotes != "" {
			withdrawal.AdminNotes = &adminNotes
		}
		if err := tx.Save(&withdrawal).Error; err != nil {
			return err
		}

		profile, err := EnsureProfile(tx, withdrawal.UserID)
		if err != nil {
			return err
		}
		profile.Balance = profile.Balance.Add(withdrawal.Amount)
		return tx.Save(profile).Error
	})
	if err != nil {
		return nil, err
	}

	monitoring.WithdrawalsProcessedTotal.WithLabelValues("rejected").Inc()
	logging.Logger.Info("withdrawal rejected and refunded",
		zap.String("withdrawal_id", withdrawal.ID.String()),
		zap.String("user_id", withdrawal.UserID.String()),
		zap.String("amount", withdrawal.Amount.String()))
	return &withdrawal, nil
}

func findPendingWithdrawal(tx *gorm.DB, withdrawalID uuid.UUID, out *models.Withdrawal) error {
	err := lockForUpdate(tx).First(out, "id = ?", withdrawalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWithdrawalNotFound
		}
		return err
	}
	if out.Status != models.WithdrawalStatusPending {
		return ErrWithdrawalNotPending
	}
	return nil
}
