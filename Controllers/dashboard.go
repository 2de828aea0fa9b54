package Controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"TaskHive/Models"
)

// DashboardController handles analytics-related API endpoints
type DashboardController struct {
	DB  *gorm.DB
	Now func() time.Time
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db, Now: time.Now}
}

type taskSummary struct {
	TotalTasks     int64 `json:"totalTasks"`
	Pending        int64 `json:"pending"`
	InProgress     int64 `json:"inProgress"`
	Completed      int64 `json:"completed"`
	CompletedToday int64 `json:"completedToday"`
	Employees      int64 `json:"employees"`
}

// Summary returns the overall task counters shown on the admin dashboard.
func (c *DashboardController) Summary(ctx *fiber.Ctx) error {
	var summary taskSummary

	c.DB.Model(&Models.Task{}).Count(&summary.TotalTasks)
	c.DB.Model(&Models.Task{}).Where("status = ?", Models.StatusPending).Count(&summary.Pending)
	c.DB.Model(&Models.Task{}).Where("status = ?", Models.StatusInProgress).Count(&summary.InProgress)
	c.DB.Model(&Models.Task{}).Where("status = ?", Models.StatusCompleted).Count(&summary.Completed)
	c.DB.Model(&Models.Task{}).
		Where("status = ? AND completed_time >= ?", Models.StatusCompleted, Models.WorkDate(c.Now())).
		Count(&summary.CompletedToday)
	c.DB.Model(&Models.User{}).Where("role = ?", Models.RoleEmployee).Count(&summary.Employees)

	return ctx.JSON(summary)
}

// PriorityBreakdown returns open task counts per priority.
func (c *DashboardController) PriorityBreakdown(ctx *fiber.Ctx) error {
	type priorityRow struct {
		Priority Models.TaskPriority `json:"priority"`
		Count    int64               `json:"count"`
	}

	var rows []priorityRow
	err := c.DB.Model(&Models.Task{}).
		Select("priority, COUNT(*) as count").
		Where("status <> ?", Models.StatusCompleted).
		Group("priority").
		Scan(&rows).Error
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to retrieve priority breakdown"})
	}
	return ctx.JSON(rows)
}

// EmployeeStats returns per-employee completed counts and cumulative time
// spent, the authoritative reporting figure.
func (c *DashboardController) EmployeeStats(ctx *fiber.Ctx) error {
	type employeeRow struct {
		UserID         uint   `json:"userId"`
		Name           string `json:"name"`
		TotalTasks     int64  `json:"totalTasks"`
		Completed      int64  `json:"completed"`
		TotalTimeSpent int64  `json:"totalTimeSpent"`
	}

	var rows []employeeRow
	err := c.DB.Model(&Models.Task{}).
		Select("users.id as user_id, users.name as name, COUNT(tasks.id) as total_tasks, "+
			"SUM(CASE WHEN tasks.status = ? THEN 1 ELSE 0 END) as completed, "+
			"COALESCE(SUM(tasks.total_time_spent), 0) as total_time_spent", Models.StatusCompleted).
		Joins("JOIN users ON users.id = tasks.assigned_to_id").
		Group("users.id, users.name").
		Order("users.name").
		Scan(&rows).Error
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to retrieve employee stats"})
	}
	return ctx.JSON(rows)
}
