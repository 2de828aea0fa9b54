package Controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"TaskHive/Models"
	"TaskHive/Notifications"
)

// TaskController handles the task lifecycle. Now is injectable so tests
// can drive transitions across shift boundaries.
type TaskController struct {
	DB       *gorm.DB
	Notifier *Notifications.Notifier
	Now      func() time.Time
}

func NewTaskController(db *gorm.DB, notifier *Notifications.Notifier) *TaskController {
	return &TaskController{DB: db, Notifier: notifier, Now: time.Now}
}

type CreateTaskRequest struct {
	Title        string     `json:"title" validate:"required"`
	Description  string     `json:"description"`
	Priority     string     `json:"priority"`
	AssignedToID uint       `json:"assignedToId" validate:"required"`
	Deadline     *time.Time `json:"deadline"`
	IsDaily      bool       `json:"isDaily"`
}

func (t *TaskController) CreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	priority := Models.PriorityMedium
	if req.Priority != "" {
		parsed, err := Models.ParseTaskPriority(req.Priority)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		priority = parsed
	}

	var assignee Models.User
	if err := t.DB.First(&assignee, req.AssignedToID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Assignee not found"})
	}

	creator := c.Locals("user").(Models.User)
	task := Models.Task{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     priority,
		Status:       Models.StatusPending,
		AssignedToID: req.AssignedToID,
		CreatedByID:  creator.ID,
		Deadline:     req.Deadline,
		IsDaily:      req.IsDaily,
	}
	if err := t.DB.Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create task"})
	}

	t.Notifier.TaskCreated(&task)
	return c.Status(fiber.StatusCreated).JSON(task)
}

// GetTasks returns all tasks for admins, own tasks for employees.
func (t *TaskController) GetTasks(c *fiber.Ctx) error {
	user := c.Locals("user").(Models.User)
	query := t.DB.Preload("AssignedTo").Order("created_at DESC")
	if !user.IsAdmin() {
		query = query.Where("assigned_to_id = ?", user.ID)
	}

	var tasks []Models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve tasks"})
	}
	return c.JSON(tasks)
}

func (t *TaskController) GetTask(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.Task
	if err := t.DB.Preload("AssignedTo").First(&task, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	return c.JSON(task)
}

type UpdateTaskRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Priority     *string    `json:"priority"`
	Status       *string    `json:"status"`
	Remark       *string    `json:"remark"`
	AssignedToID *uint      `json:"assignedToId"`
	Deadline     *time.Time `json:"deadline"`
	IsDaily      *bool      `json:"isDaily"`
}

// UpdateTask applies a partial edit. Admins may edit any field; the
// assignee may only change status and remark. No concurrency token:
// concurrent editors race last-write-wins on overlapping fields.
func (t *TaskController) UpdateTask(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.Task
	if err := t.DB.First(&task, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	user := c.Locals("user").(Models.User)
	if !user.IsAdmin() && task.AssignedToID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not your task"})
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	previousAssignee := task.AssignedToID

	if user.IsAdmin() {
		if req.Title != nil {
			task.Title = *req.Title
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.Priority != nil {
			priority, err := Models.ParseTaskPriority(*req.Priority)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			task.Priority = priority
		}
		if req.AssignedToID != nil {
			var assignee Models.User
			if err := t.DB.First(&assignee, *req.AssignedToID).Error; err != nil {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Assignee not found"})
			}
			task.AssignedToID = *req.AssignedToID
		}
		if req.Deadline != nil {
			task.Deadline = req.Deadline
		}
		if req.IsDaily != nil {
			task.IsDaily = *req.IsDaily
		}
	}

	if req.Remark != nil {
		task.Remark = *req.Remark
	}

	statusChanged := false
	if req.Status != nil {
		status, err := Models.ParseTaskStatus(*req.Status)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if status != task.Status {
			task.SetStatus(status, t.Now())
			statusChanged = true
		}
	}

	if err := t.DB.Save(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update task"})
	}

	t.Notifier.TaskUpdated(&task, previousAssignee, statusChanged)
	return c.JSON(task)
}

// DeleteTask removes a task. Admin only.
func (t *TaskController) DeleteTask(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.Task
	if err := t.DB.First(&task, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	if err := t.DB.Delete(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete task"})
	}

	t.Notifier.TaskDeleted(&task)
	return c.JSON(fiber.Map{"message": "Task deleted successfully"})
}

// GetTaskTimer reports live shift and total seconds. The accrual is
// persisted so stored counters never fall a full shift behind.
func (t *TaskController) GetTaskTimer(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.Task
	if err := t.DB.First(&task, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	task.AccrueTime(t.Now())
	if err := t.DB.Save(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update task timers"})
	}

	return c.JSON(fiber.Map{
		"taskId":         task.ID,
		"status":         task.Status,
		"shiftTimeSpent": task.ShiftTimeSpent,
		"totalTimeSpent": task.TotalTimeSpent,
		"startTime":      task.StartTime,
	})
}
