package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"claims_backoffice/models"
	"claims_backoffice/services/i18n"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildImportWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(policyImportHeaders))
	for i, h := range policyImportHeaders {
		header[i] = h
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportPolicies(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	createTestPolicy(t, db, "POL-EXISTING")

	workbook := buildImportWorkbook(t, [][]interface{}{
		// row 2: text dates, every column
		{"POL-IMP-1", "2024-01-01", "2024-12-31", "Acme Ltda", 500000, models.PolicyCoverageAllRisksProperty, 5000, "BND-1"},
		// row 3: Excel serial dates, optional columns empty
		{"POL-IMP-2", 45292, 45657, "Globex Corp", "250000.50"},
		// row 4: blank
		{"  ", "", " "},
		// row 5: period ends before it starts
		{"POL-IMP-3", "2024-06-01", "2024-05-01", "Initech", 1000},
		// row 6: duplicate number
		{"POL-EXISTING", "2024-01-01", "2024-12-31", "Acme Ltda", 1000},
		// row 7: sum is not a number
		{"POL-IMP-4", "2024-01-01", "2024-12-31", "Umbrella", "lots"},
	})

	result, err := ImportPolicies(ctx, db, testActor, workbook)
	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalProcessed)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 3, result.FailedCount)
	require.Len(t, result.Errors, 3)

	assert.Equal(t, 5, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, "period_end")
	assert.Equal(t, 6, result.Errors[1].Row)
	assert.Equal(t, "policy_number already exists", result.Errors[1].Message)
	assert.Equal(t, 7, result.Errors[2].Row)
	assert.Equal(t, "sum_insured must be a number", result.Errors[2].Message)
	assert.Equal(t, "Row 7: sum_insured must be a number", result.Errors[2].String())

	first, err := GetPolicyByNumber(ctx, db, "POL-IMP-1")
	require.NoError(t, err)
	assert.True(t, first.SumInsured.Equal(decimal.NewFromInt(500000)))
	require.NotNil(t, first.Deductible)
	assert.True(t, first.Deductible.Equal(decimal.NewFromInt(5000)))
	require.NotNil(t, first.BinderRef)
	assert.Equal(t, "BND-1", *first.BinderRef)

	second, err := GetPolicyByNumber(ctx, db, "POL-IMP-2")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", time.Time(second.PeriodStart).Format(DateLayout))
	assert.Equal(t, "2024-12-31", time.Time(second.PeriodEnd).Format(DateLayout))
	assert.Equal(t, models.PolicyCoverageAllRisksProperty, second.CoverageType)
	assert.Nil(t, second.Deductible)
	assert.Nil(t, second.BinderRef)
}

func TestImportPoliciesRejectsInvalidFile(t *testing.T) {
	db := setupTestDB(t)

	_, err := ImportPolicies(context.Background(), db, testActor, bytes.NewBufferString("not a workbook"))
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "file")
}

func TestImportDate(t *testing.T) {
	assert.Equal(t, "", importDate(""))
	assert.Equal(t, "2024-03-15", importDate("2024-03-15"))
	assert.Equal(t, "2024-01-01", importDate("45292"))
	assert.Equal(t, "15/03/2024", importDate("15/03/2024"))
}

func TestBuildPolicyImportTemplate(t *testing.T) {
	require.NoError(t, i18n.Load())

	tests := []struct {
		lang         string
		instructions string
		policies     string
	}{
		{"en", "Instructions", "Policies"},
		{"pt", "Instrucoes", "Apolices"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			ctx := i18n.WithLocale(context.Background(), tt.lang)
			buf, err := BuildPolicyImportTemplate(ctx)
			require.NoError(t, err)

			f, err := excelize.OpenReader(buf)
			require.NoError(t, err)
			defer f.Close()

			assert.Equal(t, []string{tt.instructions, tt.policies}, f.GetSheetList())
			rows, err := f.GetRows(tt.policies)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, policyImportHeaders, rows[0])
			assert.Equal(t, "POL-2025-0001", rows[1][0])
		})
	}
}

func TestImportTemplateRoundTrip(t *testing.T) {
	require.NoError(t, i18n.Load())
	db := setupTestDB(t)
	ctx := i18n.WithLocale(context.Background(), "pt")

	buf, err := BuildPolicyImportTemplate(ctx)
	require.NoError(t, err)

	result, err := ImportPolicies(ctx, db, testActor, buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalProcessed)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Empty(t, result.Errors)
}
