package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"claims_backoffice/config"
	"claims_backoffice/models"
	"claims_backoffice/services"

	"gorm.io/gorm"
)

// EmailSender delivers a built email, services.SendEmail in production
type EmailSender func(cfg *config.Config, email *services.Email) error

// SLAReminderSummary counts what a reminder run did
type SLAReminderSummary struct {
	Candidates int
	Sent       int
	Skipped    int // assignee could not be resolved to an active user
	Failed     int
}

func (s SLAReminderSummary) String() string {
	return fmt.Sprintf("%d candidates, %d sent, %d skipped, %d failed", s.Candidates, s.Sent, s.Skipped, s.Failed)
}

// SendSLAReminders emails the assignee of every open activity that is at risk
// or overdue at now and has not been reminded yet today
func SendSLAReminders(ctx context.Context, database *gorm.DB, cfg *config.Config, now time.Time, send EmailSender) SLAReminderSummary {
	var summary SLAReminderSummary

	activities, err := services.ListActivitiesDueForReminder(ctx, database, now)
	if err != nil {
		log.Printf("[ERROR] Fetching activities for SLA reminders: %v", err)
		return summary
	}
	summary.Candidates = len(activities)

	for _, activity := range activities {
		user, err := services.FindActiveUserForAssignee(ctx, database, activity.Assignee)
		if err != nil {
			if !services.IsNotFound(err) {
				log.Printf("[ERROR] Resolving assignee %q of activity %s: %v", activity.Assignee, activity.ID, err)
				summary.Failed++
				continue
			}
			log.Printf("[WARNING] No active user for assignee %q of activity %s, reminder skipped", activity.Assignee, activity.ID)
			summary.Skipped++
			continue
		}

		state, days := activity.SLA(now)
		claimNumber := models.NotAvailable
		if activity.Claim != nil {
			claimNumber = activity.Claim.ClaimNumber
		}

		email, err := services.BuildSLAReminderEmail(user.Email, user.Language, services.SLAReminderData{
			RecipientName: user.Name,
			ActivityTitle: activity.Title,
			ClaimNumber:   claimNumber,
			DueDate:       services.FormatDate(activity.DueDate),
			State:         state,
			DaysRemaining: days,
			ActivityURL:   cfg.AppURL + "/activities/" + activity.ID,
		})
		if err == nil {
			err = send(cfg, email)
		}
		if err != nil {
			log.Printf("[ERROR] Sending SLA reminder for activity %s: %v", activity.ID, err)
			summary.Failed++
			continue
		}

		if err := services.MarkReminderSent(ctx, database, activity.ID, now); err != nil {
			log.Printf("[ERROR] Reminder for activity %s was emailed but not recorded, it will repeat next run: %v", activity.ID, err)
			summary.Failed++
			continue
		}
		summary.Sent++
	}

	return summary
}
