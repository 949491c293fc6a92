package services

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"claims_backoffice/models"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

var (
	validate  = newValidator()
	sanitizer = bluemonday.StrictPolicy()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Money is compared as a number by gte/gt/lte
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	enums := map[string]func(string) bool{
		"claim_status":    models.IsValidClaimStatus,
		"activity_status": models.IsValidActivityStatus,
		"activity_role":   models.IsValidActivityRole,
		"currency":        models.IsValidCurrency,
		"cause_of_loss":   models.IsValidCauseOfLoss,
		"coverage":        models.IsValidCoverage,
		"movement_type":   models.IsValidMovementType,
		"product_lob":     models.IsValidProductLOB,
		"policy_coverage": models.IsValidPolicyCoverageType,
		"document_type":   models.IsValidDocumentType,
		"user_role":       models.IsValidUserRole,
	}
	for tag, isValid := range enums {
		isValid := isValid
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return isValid(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("register validation %s: %v", tag, err))
		}
	}

	return v
}

// Validator adapts the shared validator to echo's Validator interface
type Validator struct{}

func (Validator) Validate(i interface{}) error {
	return validateStruct(i)
}

// validateStruct runs tag validation and converts failures to a ValidationError
func validateStruct(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	ve := &ValidationError{}
	for _, fe := range fieldErrs {
		ve.Add(fe.Field(), fieldMessage(fe))
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be a date (YYYY-MM-DD)"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is not a valid option"
	}
}

// sanitizeText strips markup from free text fields, keeping the plain text
func sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(s)))
}

func sanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := sanitizeText(*s)
	if clean == "" {
		return nil
	}
	return &clean
}

// optionalString turns blank input into nil
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
