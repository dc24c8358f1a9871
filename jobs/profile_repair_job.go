package jobs

import (
	"github.com/moneylink/moneylink_job/database"
	"github.com/moneylink/moneylink_job/logging"
	"github.com/moneylink/moneylink_job/models"
	"go.uber.org/zap"
)

// BackfillMissingProfiles repairs users whose registration bootstrap failed:
// registration never blocks on profile creation, so a fault there leaves a
// user without a ledger row until this job (or a lazy read) fixes it.
func BackfillMissingProfiles() {
	var orphans []models.User
	err := database.DB.
		Joins("LEFT JOIN profiles ON profiles.id = users.id").
		Where("profiles.id IS NULL").
		Find(&orphans).Error
	if err != nil {
		logging.Logger.Error("profile backfill query failed", zap.Error(err))
		return
	}

	if len(orphans) == 0 {
		return
	}

	repaired := 0
	for _, user := range orphans {
		profile := models.Profile{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
		}
		if err := database.DB.Create(&profile).Error; err != nil {
			logging.Logger.Error("profile backfill failed",
				zap.String("user_id", user.ID.String()), zap.Error(err))
			continue
		}
		repaired++
	}

	logging.Logger.Info("backfilled missing profiles", zap.Int("count", repaired))
}
