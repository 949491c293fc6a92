package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"claims_backoffice/config"
	"claims_backoffice/db"
	"claims_backoffice/middleware"
	"claims_backoffice/models"
	"claims_backoffice/services"
	"claims_backoffice/services/i18n"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testActor = services.AuditContext{UserName: "Tester", UserRole: models.RoleClaimsManager}

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(models.All()...))
	require.NoError(t, i18n.Load())

	services.Storage = services.NewLocalStorage(t.TempDir())

	// Set global DB
	db.DB = testDB

	t.Cleanup(func() {
		if sqlDB, err := testDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = services.Validator{}
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment: "test",
		Timezone:    "UTC",
	})
	c.Set(middleware.ContextKeyAuditContext, testActor)

	return e, c, rec
}

// setupForm builds a context for an HTML form submission
func setupForm(method, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	_, c, rec := setupEcho(method, path, nil)
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set(echo.HeaderAccept, "text/html,application/xhtml+xml")
	c.SetRequest(req)
	return c, rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func createTestPolicy(t *testing.T, database *gorm.DB, number string) *models.Policy {
	policy, err := services.CreatePolicy(context.Background(), database, testActor, services.PolicyInput{
		PolicyNumber: number,
		PeriodStart:  "2024-01-01",
		PeriodEnd:    "2024-12-31",
		NamedInsured: "Acme Ltda",
		SumInsured:   decimal.NewFromInt(1000000),
	})
	require.NoError(t, err)
	return policy
}

func createTestClaim(t *testing.T, database *gorm.DB, policyID *string) *models.Claim {
	claim, err := services.CreateClaim(context.Background(), database, testActor, services.ClaimInput{
		Title:        "Burst pipe in warehouse",
		PolicyID:     policyID,
		Currency:     models.CurrencyBRL,
		InsuredName:  "Acme Ltda",
		ReportedDate: "2024-03-02",
	})
	require.NoError(t, err)
	return claim
}

func createTestActivity(t *testing.T, database *gorm.DB, claimID string) *models.Activity {
	activity, err := services.CreateActivity(context.Background(), database, testActor, services.ActivityInput{
		ClaimID:  claimID,
		Title:    "Site inspection",
		Assignee: "ana@example.com",
		Role:     models.ActivityRoleSurveyor,
		DueDate:  "2024-03-10",
	})
	require.NoError(t, err)
	return activity
}
