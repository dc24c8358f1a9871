package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/moneylink/moneylink_job/database"
	"github.com/moneylink/moneylink_job/models"
	"github.com/moneylink/moneylink_job/services"
	"github.com/moneylink/moneylink_job/utils"
	"github.com/shopspring/decimal"
)

type TaskResponse struct {
	models.Link
	Completed bool `json:"completed"`
}

// ListTasks returns every link with a per-caller completed flag so the
// dashboard can split available tasks from finished ones.
func ListTasks(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
	}

	var links []models.Link
	if err := database.DB.Order("created_at desc").Find(&links).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var completions []models.TaskCompletion
	if err := database.DB.Where("user_id = ?", userID).Find(&completions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	done := make(map[uuid.UUID]bool, len(completions))
	for _, tc := range completions {
		done[tc.LinkID] = true
	}

	tasks := make([]TaskResponse, 0, len(links))
	for _, link := range links {
		tasks = append(tasks, TaskResponse{Link: link, Completed: done[link.ID]})
	}

	return c.JSON(tasks)
}

// GetTaskBySlug backs the redirect page: it resolves the slug before the
// visitor is sent to the destination URL.
func GetTaskBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var link models.Link
	if err := database.DB.Where("slug = ?", slug).First(&link).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	return c.JSON(link)
}

type CreateTaskRequest struct {
	OriginalURL  string           `json:"original_url" validate:"required,url"`
	RewardAmount *decimal.Decimal `json:"reward_amount,omitempty"`
}

func CreateTask(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	reward := decimal.RequireFromString("0.05")
	if req.RewardAmount != nil {
		if !req.RewardAmount.IsPositive() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Reward amount must be positive"})
		}
		reward = *req.RewardAmount
	}

	slug, err := utils.GenerateUniqueSlug(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate slug"})
	}

	link := models.Link{
		UserID:       userID,
		OriginalURL:  req.OriginalURL,
		Slug:         slug,
		RewardAmount: reward,
	}
	if err := database.DB.Create(&link).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create task"})
	}

	return c.Status(fiber.StatusCreated).JSON(link)
}

func CompleteTask(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired JWT"})
	}

	linkID, err := uuid.Parse(c.Params("linkId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task id"})
	}

	if err := services.CompleteTask(userID, linkID); err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyCompleted):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already completed this task"})
		case errors.Is(err, services.ErrTaskNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete task, please retry"})
		}
	}

	return c.JSON(fiber.Map{"message": "Task completed, reward credited"})
}
