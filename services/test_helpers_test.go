package services

import (
	"context"
	"testing"

	"claims_backoffice/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testActor = AuditContext{UserID: "99999999-9999-9999-9999-999999999999", UserName: "Tester", UserRole: models.RoleClaimsManager}

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, testDB.AutoMigrate(models.All()...))

	t.Cleanup(func() {
		if sqlDB, err := testDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return testDB
}

func createTestPolicy(t *testing.T, db *gorm.DB, number string) *models.Policy {
	policy, err := CreatePolicy(context.Background(), db, testActor, PolicyInput{
		PolicyNumber: number,
		PeriodStart:  "2024-01-01",
		PeriodEnd:    "2024-12-31",
		NamedInsured: "Acme Ltda",
		SumInsured:   decimal.NewFromInt(1000000),
	})
	require.NoError(t, err)
	return policy
}

func createTestClaim(t *testing.T, db *gorm.DB, policyID *string) *models.Claim {
	claim, err := CreateClaim(context.Background(), db, testActor, ClaimInput{
		Title:        "Burst pipe in warehouse",
		PolicyID:     policyID,
		Currency:     models.CurrencyBRL,
		InsuredName:  "Acme Ltda",
		ReportedDate: "2024-03-02",
	})
	require.NoError(t, err)
	return claim
}

func strPtr(s string) *string {
	return &s
}
