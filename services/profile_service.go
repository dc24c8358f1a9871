package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/moneylink/moneylink_job/database"
	"github.com/moneylink/moneylink_job/logging"
	"github.com/moneylink/moneylink_job/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnsureProfile returns the caller's locked profile row, creating it with a
// zero balance if the registration bootstrap never ran. Missing profiles are
// a tolerated degraded state, not a dead end: every read or balance mutation
// goes through here.
func EnsureProfile(tx *gorm.DB, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := lockForUpdate(tx).First(&profile, "id = ?", userID).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	profile = models.Profile{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
	}
	if err := tx.Create(&profile).Error; err != nil {
		// Lost a create race; the row exists now.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := lockForUpdate(tx).First(&profile, "id = ?", userID).Error; err != nil {
				return nil, err
			}
			return &profile, nil
		}
		return nil, err
	}

	logging.Logger.Info("materialized missing profile",
		zap.String("user_id", userID.String()))
	return &profile, nil
}

// BootstrapNewUser provisions the profile and, when a valid referrer was
// supplied, the pending referral for a freshly registered user. Errors are
// logged and swallowed: registration must never fail because of ledger
// bookkeeping. A skipped bootstrap is repaired lazily by EnsureProfile and
// periodically by the profile repair job.
func BootstrapNewUser(user models.User, referrerID *uuid.UUID) {
	profile := models.Profile{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
	}
	if err := database.DB.Create(&profile).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		logging.Logger.Error("profile bootstrap failed",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	if referrerID == nil {
		return
	}
	if err := RecordReferral(*referrerID, user.ID); err != nil {
		logging.Logger.Warn("referral bootstrap skipped",
			zap.String("user_id", user.ID.String()),
			zap.String("referrer_id", referrerID.String()),
			zap.Error(err))
	}
}
