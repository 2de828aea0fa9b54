package Models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAlreadyClockedIn = errors.New("work log already active for this date")
	ErrNotClockedIn     = errors.New("no active work log for this date")
)

// DailyWorkLog tracks clocked-in time per user per calendar date. One row
// per (UserID, Date) where Date is truncated to midnight; at most one
// active log per user per date.
type DailyWorkLog struct {
	gorm.Model
	UserID       uint       `json:"userId" gorm:"uniqueIndex:idx_worklog_user_date"`
	Date         time.Time  `json:"date" gorm:"uniqueIndex:idx_worklog_user_date"`
	IsActive     bool       `json:"isActive"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	TotalSeconds int64      `json:"totalSeconds"`
}

// WorkDate truncates t to midnight in its location, the composite-key form.
func WorkDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// StartWorkLog upserts the (user, date) row and marks it active. Fails if
// the user is already clocked in on that date.
func StartWorkLog(db *gorm.DB, userID uint, now time.Time) (*DailyWorkLog, error) {
	log := DailyWorkLog{UserID: userID, Date: WorkDate(now)}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&log).Error
	if err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ? AND date = ?", userID, WorkDate(now)).First(&log).Error; err != nil {
		return nil, err
	}
	if log.IsActive {
		return nil, ErrAlreadyClockedIn
	}
	log.IsActive = true
	start := now
	log.StartTime = &start
	if err := db.Save(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// StopWorkLog settles the open interval into TotalSeconds and deactivates
// the log. Requires an active log with a recorded start time.
func StopWorkLog(db *gorm.DB, userID uint, now time.Time) (*DailyWorkLog, error) {
	var log DailyWorkLog
	err := db.Where("user_id = ? AND date = ? AND is_active = ?", userID, WorkDate(now), true).First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotClockedIn
	}
	if err != nil {
		return nil, err
	}
	if log.StartTime == nil {
		return nil, ErrNotClockedIn
	}
	if now.After(*log.StartTime) {
		log.TotalSeconds += int64(now.Sub(*log.StartTime) / time.Second)
	}
	log.IsActive = false
	log.StartTime = nil
	if err := db.Save(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// CloseStaleWorkLogs deactivates logs left running past their date,
// crediting time up to that date's midnight boundary. Run by the nightly
// cron so a forgotten clock-in never bleeds into the next day.
func CloseStaleWorkLogs(db *gorm.DB, now time.Time) (int, error) {
	var logs []DailyWorkLog
	if err := db.Where("is_active = ? AND date < ?", true, WorkDate(now)).Find(&logs).Error; err != nil {
		return 0, err
	}
	closed := 0
	for i := range logs {
		log := &logs[i]
		cutoff := log.Date.AddDate(0, 0, 1)
		if log.StartTime != nil && cutoff.After(*log.StartTime) {
			log.TotalSeconds += int64(cutoff.Sub(*log.StartTime) / time.Second)
		}
		log.IsActive = false
		log.StartTime = nil
		if err := db.Save(log).Error; err != nil {
			return closed, err
		}
		closed++
	}
	return closed, nil
}
