package handlers

import (
	"errors"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/moneylink/moneylink_job/database"
	"github.com/moneylink/moneylink_job/models"
	"github.com/moneylink/moneylink_job/services"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
	}

	var profile *models.Profile
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		profile, err = services.EnsureProfile(tx, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load profile"})
	}

	return c.JSON(profile)
}

type HistoryItem struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"` // income | withdraw
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CardSerial  *string         `json:"card_serial,omitempty"`
	CardCode    *string         `json:"card_code,omitempty"`
	Date        time.Time       `json:"date"`
}

// GetHistory merges task income and withdrawals into one feed, newest first.
func GetHistory(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
	}

	var completions []models.TaskCompletion
	if err := database.DB.Preload("Link").
		Where("user_id = ?", userID).
		Order("completed_at desc").
		Find(&completions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var withdrawals []models.Withdrawal
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&withdrawals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	items := make([]HistoryItem, 0, len(completions)+len(withdrawals))
	for _, tc := range completions {
		items = append(items, HistoryItem{
			ID:          tc.ID.String(),
			Type:        "income",
			Amount:      tc.Link.RewardAmount,
			Description: "Task completed: " + tc.Link.Slug,
			Status:      "approved",
			Date:        tc.CompletedAt,
		})
	}
	for _, w := range withdrawals {
		items = append(items, HistoryItem{
			ID:          w.ID.String(),
			Type:        "withdraw",
			Amount:      w.Amount,
			Description: "Withdrawal via " + w.Method,
			Status:      w.Status,
			CardSerial:  w.CardSerial,
			CardCode:    w.CardCode,
			Date:        w.CreatedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })

	return c.JSON(items)
}
