package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/moneylink/moneylink_job/database"
	"github.com/moneylink/moneylink_job/models"
	"github.com/moneylink/moneylink_job/services"
	"github.com/shopspring/decimal"
)

type WithdrawalRequest struct {
	Amount decimal.Decimal `json:"amount"`

	// Method matches the payout choices of the web client: "Thẻ cào",
	// "Banking" or "Thẻ Garena". AccountNumber carries the bank account or
	// the email receiving card codes; AccountName the holder or the carrier.
	Method        string `json:"method" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	AccountName   string `json:"account_name" validate:"required"`
}

func RequestWithdrawal(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
	}

	var req WithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	withdrawal, err := services.RequestWithdrawal(userID, req.Amount, req.Method, req.AccountNumber, req.AccountName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInsufficientBalance):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Insufficient balance"})
		case errors.Is(err, services.ErrInvalidAmount), errors.Is(err, services.ErrBelowMinimum):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "The minimum withdrawal amount is $1.00"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to request withdrawal, please retry"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(withdrawal)
}

func ListMyWithdrawals(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
	}

	var withdrawals []models.Withdrawal
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&withdrawals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(withdrawals)
}
