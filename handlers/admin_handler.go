package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/moneylink/moneylink_job/database"
	"github.com/moneylink/moneylink_job/models"
	"github.com/moneylink/moneylink_job/notifications"
	"github.com/moneylink/moneylink_job/services"
	"github.com/moneylink/moneylink_job/utils"
	"github.com/shopspring/decimal"
)

// ListWithdrawals returns withdrawal requests for review, pending ones by
// default, with the requesting user attached.
func ListWithdrawals(c *fiber.Ctx) error {
	status := c.Query("status", models.WithdrawalStatusPending)

	query := database.DB.Preload("User").Order("created_at desc")
	if status != "all" {
		query = query.Where("status = ?", status)
	}

	var withdrawals []models.Withdrawal
	if err := query.Find(&withdrawals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(withdrawals)
}

type ApproveWithdrawalRequest struct {
	CardSerial *string `json:"card_serial,omitempty"`
	CardCode   *string `json:"card_code,omitempty"`

	// GenerateCard fills serial/code automatically for card payouts.
	GenerateCard bool   `json:"generate_card,omitempty"`
	AdminNotes   string `json:"admin_notes,omitempty"`
}

func ApproveWithdrawal(c *fiber.Ctx) error {
	withdrawalID, err := uuid.Parse(c.Params("withdrawalId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid withdrawal id"})
	}

	var req ApproveWithdrawalRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.GenerateCard && req.CardSerial == nil && req.CardCode == nil {
		serial, code, err := utils.GenerateCardCode()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate card code"})
		}
		req.CardSerial = &serial
		req.CardCode = &code
	}

	withdrawal, err := services.ApproveWithdrawal(withdrawalID, req.CardSerial, req.CardCode, req.AdminNotes)
	if err != nil {
		return processWithdrawalError(c, err)
	}

	notifyWithdrawalProcessed(withdrawal)
	return c.JSON(fiber.Map{"message": "Withdrawal approved", "withdrawal": withdrawal})
}

type RejectWithdrawalRequest struct {
	AdminNotes string `json:"admin_notes,omitempty"`
}

func RejectWithdrawal(c *fiber.Ctx) error {
	withdrawalID, err := uuid.Parse(c.Params("withdrawalId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid withdrawal id"})
	}

	var req RejectWithdrawalRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	withdrawal, err := services.RejectWithdrawal(withdrawalID, req.AdminNotes)
	if err != nil {
		return processWithdrawalError(c, err)
	}

	notifyWithdrawalProcessed(withdrawal)
	return c.JSON(fiber.Map{"message": "Withdrawal rejected and refunded", "withdrawal": withdrawal})
}

func processWithdrawalError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrWithdrawalNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Withdrawal not found"})
	case errors.Is(err, services.ErrWithdrawalNotPending):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Withdrawal has already been processed"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process withdrawal"})
	}
}

func notifyWithdrawalProcessed(withdrawal *models.Withdrawal) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", withdrawal.UserID).Error; err != nil {
		return
	}

	name := ""
	if user.FullName != nil {
		name = *user.FullName
	}

	if withdrawal.Status == models.WithdrawalStatusApproved {
		body := fmt.Sprintf("<h1>Payout Processed</h1><p>Your withdrawal of $%s via %s has been approved.</p>", withdrawal.Amount.StringFixed(4), withdrawal.Method)
		if withdrawal.CardCode != nil {
			serial := ""
			if withdrawal.CardSerial != nil {
				serial = *withdrawal.CardSerial
			}
			body += fmt.Sprintf("<p>Card serial: %s<br>Card code: %s</p>", serial, *withdrawal.CardCode)
		}
		go notifications.SendEmail(name, user.Email, "Your Withdrawal Has Been Processed", body)
		return
	}

	go notifications.SendEmail(name, user.Email, "Update on Your Withdrawal Request",
		fmt.Sprintf("<h1>Withdrawal Update</h1><p>Your withdrawal of $%s was rejected. The funds have been returned to your balance.</p>", withdrawal.Amount.StringFixed(4)))
}

// ListUsers backs the admin user table.
func ListUsers(c *fiber.Ctx) error {
	var profiles []models.Profile
	if err := database.DB.Order("created_at desc").Find(&profiles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(profiles)
}

type AdminStats struct {
	TotalUsers         int64           `json:"total_users"`
	PendingWithdrawals int64           `json:"pending_withdrawals"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
}

func GetAdminStats(c *fiber.Ctx) error {
	var stats AdminStats
	stats.TotalPaid = decimal.Zero

	if err := database.DB.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if err := database.DB.Model(&models.Withdrawal{}).
		Where("status = ?", models.WithdrawalStatusPending).
		Count(&stats.PendingWithdrawals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var approved []models.Withdrawal
	if err := database.DB.Where("status = ?", models.WithdrawalStatusApproved).Find(&approved).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	for _, w := range approved {
		stats.TotalPaid = stats.TotalPaid.Add(w.Amount)
	}

	return c.JSON(stats)
}
