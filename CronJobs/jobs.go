package CronJobs

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"TaskHive/Models"
)

// WorkLogCloser is the nightly job that deactivates work logs left
// running across the date boundary, capping each at its own midnight.
type WorkLogCloser struct {
	cronScheduler  *cron.Cron
	db             *gorm.DB
	runImmediately bool
	jobID          cron.EntryID
}

// NewWorkLogCloser creates the closer with the given configuration.
func NewWorkLogCloser(db *gorm.DB, runImmediately bool) *WorkLogCloser {
	return &WorkLogCloser{
		cronScheduler:  cron.New(cron.WithSeconds()),
		db:             db,
		runImmediately: runImmediately,
	}
}

// Start schedules the job shortly after midnight every day.
func (w *WorkLogCloser) Start() error {
	var err error
	w.jobID, err = w.cronScheduler.AddFunc("0 5 0 * * *", func() {
		log.Println("Running scheduled work log close")
		w.run()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	w.cronScheduler.Start()
	log.Println("Work log closer started - will run daily at 00:05")

	if w.runImmediately {
		w.run()
	}
	return nil
}

// Stop terminates the scheduler.
func (w *WorkLogCloser) Stop() {
	if w.cronScheduler != nil {
		w.cronScheduler.Stop()
		log.Println("Work log closer stopped")
	}
}

func (w *WorkLogCloser) run() {
	closed, err := Models.CloseStaleWorkLogs(w.db, time.Now())
	if err != nil {
		log.Printf("Error closing stale work logs: %v", err)
		return
	}
	if closed > 0 {
		log.Printf("Closed %d stale work logs", closed)
	}
}
