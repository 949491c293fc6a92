package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"claims_backoffice/config"
	"claims_backoffice/models"
	"claims_backoffice/services"
	"claims_backoffice/services/i18n"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var jobActor = services.AuditContext{UserName: "Scheduler Test"}

func setupJobsTestDB(t *testing.T) *gorm.DB {
	dbName := "jobs_" + uuid.New().String()
	db, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type capturedEmails struct {
	sent []*services.Email
}

func (c *capturedEmails) send(cfg *config.Config, email *services.Email) error {
	c.sent = append(c.sent, email)
	return nil
}

func seedReminderData(t *testing.T, db *gorm.DB) {
	ctx := context.Background()

	_, err := services.CreateUser(ctx, db, jobActor, services.UserInput{
		Name: "Ana Souza", Email: "ana@example.com", Password: "Adjuster2024x", Role: models.RoleClaimsAdjuster,
	})
	require.NoError(t, err)
	_, err = services.CreateUser(ctx, db, jobActor, services.UserInput{
		Name: "Bruno Lima", Email: "bruno@example.com", Password: "Surveyor2024x", Role: models.RoleClaimsAdjuster, Language: "pt",
	})
	require.NoError(t, err)

	claim, err := services.CreateClaim(ctx, db, jobActor, services.ClaimInput{
		ClaimNumber:  "CLM-2024-00042",
		Title:        "Warehouse fire",
		Currency:     models.CurrencyBRL,
		InsuredName:  "Acme Ltda",
		ReportedDate: "2024-06-01",
	})
	require.NoError(t, err)

	activities := []services.ActivityInput{
		{Title: "Inspect site", Assignee: "ana@example.com", Role: models.ActivityRoleSurveyor, DueDate: "2024-06-11"},
		{Title: "Collect invoices", Assignee: "bruno lima", Role: models.ActivityRoleAdjuster, DueDate: "2024-06-05"},
		{Title: "Final report", Assignee: "ana@example.com", Role: models.ActivityRoleAdjuster, DueDate: "2024-07-30"},
		{Title: "Legal opinion", Assignee: "Outside Counsel", Role: models.ActivityRoleLawyer, DueDate: "2024-06-11"},
		{Title: "Closed task", Assignee: "ana@example.com", Role: models.ActivityRoleManager, DueDate: "2024-06-01", Status: models.ActivityStatusCompleted},
	}
	for _, input := range activities {
		input.ClaimID = claim.ID
		_, err := services.CreateActivity(ctx, db, jobActor, input)
		require.NoError(t, err)
	}
}

func TestSendSLAReminders(t *testing.T) {
	db := setupJobsTestDB(t)
	seedReminderData(t, db)
	require.NoError(t, i18n.Load())

	cfg := &config.Config{AppURL: "http://claims.test", EmailTestMode: true}
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	mail := &capturedEmails{}

	summary := SendSLAReminders(context.Background(), db, cfg, now, mail.send)

	assert.Equal(t, 3, summary.Candidates)
	assert.Equal(t, 2, summary.Sent)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	require.Len(t, mail.sent, 2)

	byRecipient := map[string]*services.Email{}
	for _, e := range mail.sent {
		byRecipient[e.To[0]] = e
	}

	ana := byRecipient["ana@example.com"]
	require.NotNil(t, ana)
	assert.Equal(t, "Activity At Risk: Inspect site", ana.Subject)
	assert.Contains(t, ana.TextBody, "CLM-2024-00042")
	assert.Contains(t, ana.TextBody, "http://claims.test/activities/")

	bruno := byRecipient["bruno@example.com"]
	require.NotNil(t, bruno)
	assert.Equal(t, "Atividade Atrasada: Collect invoices", bruno.Subject)
	assert.Contains(t, bruno.TextBody, "atrasada há 5 dias")

	t.Run("same day run does not repeat reminders", func(t *testing.T) {
		again := &capturedEmails{}
		summary := SendSLAReminders(context.Background(), db, cfg, now.Add(3*time.Hour), again.send)
		assert.Equal(t, 1, summary.Candidates)
		assert.Equal(t, 0, summary.Sent)
		assert.Equal(t, 1, summary.Skipped)
		assert.Empty(t, again.sent)
	})

	t.Run("next day reminds again", func(t *testing.T) {
		again := &capturedEmails{}
		summary := SendSLAReminders(context.Background(), db, cfg, now.Add(24*time.Hour), again.send)
		assert.Equal(t, 2, summary.Sent)
	})
}

func TestSendSLARemindersCountsFailures(t *testing.T) {
	db := setupJobsTestDB(t)
	seedReminderData(t, db)
	require.NoError(t, i18n.Load())

	cfg := &config.Config{AppURL: "http://claims.test"}
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	failing := func(cfg *config.Config, email *services.Email) error {
		return errors.New("smtp down")
	}

	summary := SendSLAReminders(context.Background(), db, cfg, now, failing)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 0, summary.Sent)

	// Failed reminders are retried on the next run
	activities, err := services.ListActivitiesDueForReminder(context.Background(), db, now)
	require.NoError(t, err)
	assert.Len(t, activities, 3)
}

func TestSendSLARemindersCountsUnrecordedAsFailed(t *testing.T) {
	db := setupJobsTestDB(t)
	seedReminderData(t, db)
	require.NoError(t, i18n.Load())

	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_updates", func(tx *gorm.DB) {
		tx.AddError(errors.New("database is locked"))
	}))

	cfg := &config.Config{AppURL: "http://claims.test", EmailTestMode: true}
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	mail := &capturedEmails{}

	summary := SendSLAReminders(context.Background(), db, cfg, now, mail.send)
	assert.Len(t, mail.sent, 2)
	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
}

func TestStartSchedulerRejectsBadSpec(t *testing.T) {
	db := setupJobsTestDB(t)
	_, err := StartScheduler(db, &config.Config{Timezone: "UTC", SLAReminderCron: "not a cron"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "SLA_REMINDER_CRON"))
}

func TestStartScheduler(t *testing.T) {
	db := setupJobsTestDB(t)
	c, err := StartScheduler(db, &config.Config{Timezone: "America/Sao_Paulo", SLAReminderCron: "0 7 * * *"})
	require.NoError(t, err)
	defer c.Stop()
	assert.Len(t, c.Entries(), 1)
}
