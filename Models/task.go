package Models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ParseTaskStatus normalizes an API status value to the internal
// representation. Clients historically send "in-progress" with a hyphen;
// that form must never reach the database.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "in_progress", "in-progress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

func ParseTaskPriority(s string) (TaskPriority, error) {
	switch s {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("unknown task priority %q", s)
}

type Task struct {
	gorm.Model
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority" gorm:"default:medium"`
	Status      TaskStatus   `json:"status" gorm:"default:pending"`

	AssignedToID uint  `json:"assignedToId"`
	AssignedTo   *User `json:"assignedTo,omitempty" gorm:"foreignKey:AssignedToID"`
	CreatedByID  uint  `json:"createdById"`

	Deadline *time.Time `json:"deadline,omitempty"`
	Remark   string     `json:"remark"`
	IsDaily  bool       `json:"isDaily"`

	// Time accounting. TotalTimeSpent is the authoritative cumulative
	// figure in seconds; ShiftTimeSpent covers only the 12-hour bucket
	// identified by LastResetTime. StartTime is set while in_progress.
	StartTime      *time.Time `json:"startTime,omitempty"`
	TotalTimeSpent int64      `json:"totalTimeSpent"`
	ShiftTimeSpent int64      `json:"shiftTimeSpent"`
	LastResetTime  *time.Time `json:"lastResetTime,omitempty"`
	CompletedTime  *time.Time `json:"completedTime,omitempty"`
}

// ShiftStart returns the start of the 12-hour accounting bucket containing t:
// the most recent 00:00 or 12:00 at or before t, in t's location.
func ShiftStart(t time.Time) time.Time {
	year, month, day := t.Date()
	if t.Hour() < 12 {
		return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	}
	return time.Date(year, month, day, 12, 0, 0, 0, t.Location())
}

// rollShift advances the shift bucket to the one containing now.
// ShiftTimeSpent counts seconds already reflected in TotalTimeSpent, so
// leaving a bucket only zeroes the counter; nothing is re-added.
func (t *Task) rollShift(now time.Time) {
	bucket := ShiftStart(now)
	if t.LastResetTime == nil {
		t.LastResetTime = &bucket
		return
	}
	if bucket.After(*t.LastResetTime) {
		t.ShiftTimeSpent = 0
		t.LastResetTime = &bucket
	}
}

// AccrueTime folds the elapsed in-progress interval into the counters and
// advances StartTime to now, so repeated calls never double-count. The
// interval is split at the current bucket boundary: seconds worked before
// it count only toward the total, seconds after it toward both the total
// and the current shift. Lossless across any number of boundaries.
func (t *Task) AccrueTime(now time.Time) {
	t.rollShift(now)
	if t.Status != StatusInProgress || t.StartTime == nil {
		return
	}
	start := *t.StartTime
	if !now.After(start) {
		return
	}
	bucket := *t.LastResetTime
	if start.Before(bucket) {
		t.TotalTimeSpent += int64(bucket.Sub(start) / time.Second)
		start = bucket
	}
	elapsed := int64(now.Sub(start) / time.Second)
	t.TotalTimeSpent += elapsed
	t.ShiftTimeSpent += elapsed
	t.StartTime = &now
}

// SetStatus applies a status transition and its side effects at the given
// instant. Any transition out of in_progress settles the open interval
// first; entering in_progress restarts the clock; entering completed
// stamps CompletedTime. Re-entering the current status is a no-op.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	if status == t.Status {
		return
	}
	if t.Status == StatusInProgress {
		t.AccrueTime(now)
		t.StartTime = nil
	}
	t.Status = status
	switch status {
	case StatusInProgress:
		t.rollShift(now)
		start := now
		t.StartTime = &start
		t.CompletedTime = nil
	case StatusPending:
		t.CompletedTime = nil
	case StatusCompleted:
		done := now
		t.CompletedTime = &done
	}
}

// CurrentShiftSeconds reports the running shift total including the live
// in-progress delta, without mutating the stored counters.
func (t *Task) CurrentShiftSeconds(now time.Time) int64 {
	snapshot := *t
	snapshot.AccrueTime(now)
	return snapshot.ShiftTimeSpent
}

// CurrentTotalSeconds reports the running cumulative total including the
// live in-progress delta.
func (t *Task) CurrentTotalSeconds(now time.Time) int64 {
	snapshot := *t
	snapshot.AccrueTime(now)
	return snapshot.TotalTimeSpent
}
