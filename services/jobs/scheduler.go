package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"claims_backoffice/config"
	"claims_backoffice/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartScheduler registers the background jobs in the configured timezone
// and starts the cron runner. The caller stops it on shutdown.
func StartScheduler(database *gorm.DB, cfg *config.Config) (*cron.Cron, error) {
	loc := cfg.Location()
	c := cron.New(cron.WithLocation(loc))

	_, err := c.AddFunc(cfg.SLAReminderCron, func() {
		log.Println("[CRON] Running SLA reminders...")
		summary := SendSLAReminders(context.Background(), database, cfg, time.Now().In(loc), services.SendEmail)
		log.Printf("[CRON] SLA reminders done: %s", summary)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid SLA_REMINDER_CRON %q: %w", cfg.SLAReminderCron, err)
	}

	c.Start()
	log.Printf("[CRON] Scheduler started (SLA reminders at %q, %s)", cfg.SLAReminderCron, loc)
	return c, nil
}
