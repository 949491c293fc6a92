package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"claims_backoffice/models"
	"claims_backoffice/services/i18n"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Columns of the policies sheet:
// 0: Policy Number*, 1: Period Start*, 2: Period End*, 3: Named Insured*,
// 4: Sum Insured*, 5: Coverage Type, 6: Deductible, 7: Binder Reference
var policyImportHeaders = []string{
	"Policy Number*", "Period Start*", "Period End*", "Named Insured*",
	"Sum Insured*", "Coverage Type", "Deductible", "Binder Reference",
}

// ImportResult summarises a bulk import
type ImportResult struct {
	TotalProcessed int           `json:"total_processed"`
	SuccessCount   int           `json:"success_count"`
	FailedCount    int           `json:"failed_count"`
	Errors         []ImportError `json:"errors"`
}

// ImportError is a rejected row. Row is the 1-based spreadsheet row.
type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e ImportError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

// BuildPolicyImportTemplate generates the xlsx template in the context's language
func BuildPolicyImportTemplate(ctx context.Context) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetInstructions := i18n.T(ctx, "policies.import.sheet_instructions")
	if err := f.SetSheetName("Sheet1", sheetInstructions); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	lines := []string{
		i18n.T(ctx, "policies.import.title"),
		"",
		"- " + i18n.T(ctx, "policies.import.line_1"),
		"- " + i18n.T(ctx, "policies.import.line_2"),
		"- " + i18n.T(ctx, "policies.import.line_3"),
		"- " + i18n.T(ctx, "policies.import.line_4"),
		"- " + i18n.T(ctx, "policies.import.line_5", map[string]interface{}{
			"values": strings.Join(models.PolicyCoverageTypes, ", "),
		}),
	}
	for i, line := range lines {
		f.SetCellValue(sheetInstructions, fmt.Sprintf("A%d", i+1), line)
	}
	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	f.SetCellStyle(sheetInstructions, "A1", "A1", titleStyle)
	f.SetColWidth(sheetInstructions, "A", "A", 90)

	sheetPolicies := i18n.T(ctx, "policies.import.sheet_policies")
	if _, err := f.NewSheet(sheetPolicies); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	for i, header := range policyImportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetPolicies, cell, header)
	}
	example := []interface{}{
		"POL-2025-0001", "2025-01-01", "2025-12-31", "Acme Ltda",
		1000000, models.PolicyCoverageAllRisksProperty, 10000, "BND-001",
	}
	for i, value := range example {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheetPolicies, cell, value)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheetPolicies, "A1", "H1", headerStyle)
	f.SetColWidth(sheetPolicies, "A", "H", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

// ImportPolicies creates one policy per data row of the workbook's policies
// sheet (the last sheet). Rows are independent: a rejected row is reported
// and the others are still created.
func ImportPolicies(ctx context.Context, db *gorm.DB, actx AuditContext, file io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"file": "is not a valid xlsx workbook"}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"file": "has no sheets"}}
	}
	rows, err := f.GetRows(sheets[len(sheets)-1], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read policies sheet: %w", err)
	}

	result := &ImportResult{Errors: []ImportError{}}
	for i, row := range rows {
		if i == 0 || isBlankRow(row) {
			continue
		}
		rowNumber := i + 1
		result.TotalProcessed++

		input, err := policyInputFromRow(row)
		if err == nil {
			_, err = CreatePolicy(ctx, db, actx, input)
		}
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, ImportError{Row: rowNumber, Message: importErrorMessage(err)})
			continue
		}
		result.SuccessCount++
	}

	return result, nil
}

func policyInputFromRow(row []string) (PolicyInput, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	ve := &ValidationError{}
	input := PolicyInput{
		PolicyNumber: cell(0),
		PeriodStart:  importDate(cell(1)),
		PeriodEnd:    importDate(cell(2)),
		NamedInsured: cell(3),
		CoverageType: cell(5),
	}

	if raw := cell(4); raw != "" {
		sum, err := decimal.NewFromString(raw)
		if err != nil {
			ve.Add("sum_insured", "must be a number")
		}
		input.SumInsured = sum
	} else {
		ve.Add("sum_insured", "is required")
	}
	if raw := cell(6); raw != "" {
		deductible, err := decimal.NewFromString(raw)
		if err != nil {
			ve.Add("deductible", "must be a number")
		} else {
			input.Deductible = &deductible
		}
	}
	if raw := cell(7); raw != "" {
		input.BinderRef = &raw
	}

	return input, ve.orNil()
}

// importDate accepts YYYY-MM-DD text or an Excel date serial
func importDate(raw string) string {
	if raw == "" {
		return ""
	}
	if _, err := time.Parse(DateLayout, raw); err == nil {
		return raw
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format(DateLayout)
		}
	}
	return raw
}

func importErrorMessage(err error) string {
	if ve, ok := AsValidationError(err); ok {
		keys := make([]string, 0, len(ve.Fields))
		for k := range ve.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+" "+ve.Fields[k])
		}
		return strings.Join(parts, "; ")
	}
	var se *StoreError
	if errors.As(err, &se) {
		return "could not be saved"
	}
	return err.Error()
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
