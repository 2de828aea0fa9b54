package Controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"TaskHive/Models"
)

type WorkLogController struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewWorkLogController(db *gorm.DB) *WorkLogController {
	return &WorkLogController{DB: db, Now: time.Now}
}

// ClockIn starts the caller's work log for today.
func (w *WorkLogController) ClockIn(c *fiber.Ctx) error {
	me := c.Locals("user").(Models.User)
	log, err := Models.StartWorkLog(w.DB, me.ID, w.Now())
	if errors.Is(err, Models.ErrAlreadyClockedIn) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already clocked in"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to clock in"})
	}
	return c.JSON(log)
}

// ClockOut settles the open interval and deactivates today's log.
func (w *WorkLogController) ClockOut(c *fiber.Ctx) error {
	me := c.Locals("user").(Models.User)
	log, err := Models.StopWorkLog(w.DB, me.ID, w.Now())
	if errors.Is(err, Models.ErrNotClockedIn) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Not clocked in"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to clock out"})
	}
	return c.JSON(log)
}

// Today returns the caller's log for the current date, zeroed if absent.
func (w *WorkLogController) Today(c *fiber.Ctx) error {
	me := c.Locals("user").(Models.User)
	date := Models.WorkDate(w.Now())

	var log Models.DailyWorkLog
	err := w.DB.Where("user_id = ? AND date = ?", me.ID, date).First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(Models.DailyWorkLog{UserID: me.ID, Date: date})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve work log"})
	}
	return c.JSON(log)
}

// Report lists work logs for a date (default today) across all users.
// Admin only.
func (w *WorkLogController) Report(c *fiber.Ctx) error {
	date := Models.WorkDate(w.Now())
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, w.Now().Location())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, want YYYY-MM-DD"})
		}
		date = parsed
	}

	var logs []Models.DailyWorkLog
	if err := w.DB.Where("date = ?", date).Order("user_id").Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve work logs"})
	}
	return c.JSON(logs)
}
