package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moneylink/moneylink_job/database"
	"github.com/moneylink/moneylink_job/models"
	"github.com/shopspring/decimal"
)

type ReferralStats struct {
	Referrals     []models.Referral `json:"referrals"`
	TotalEarned   decimal.Decimal   `json:"total_earned"`
	PendingCount  int               `json:"pending_count"`
	ApprovedCount int               `json:"approved_count"`
}

func ListMyReferrals(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
	}

	var referrals []models.Referral
	if err := database.DB.Preload("ReferredUser").
		Where("referrer_id = ?", userID).
		Order("created_at desc").
		Find(&referrals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	stats := ReferralStats{Referrals: referrals, TotalEarned: decimal.Zero}
	for _, r := range referrals {
		switch r.Status {
		case models.ReferralStatusApproved:
			stats.ApprovedCount++
			stats.TotalEarned = stats.TotalEarned.Add(r.RewardAmount)
		case models.ReferralStatusPending:
			stats.PendingCount++
		}
	}

	return c.JSON(stats)
}
