package components

import (
	"fmt"
	"time"

	"claims_backoffice/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var currencySymbols = map[string]string{
	models.CurrencyBRL: "R$",
	models.CurrencyUSD: "US$",
	models.CurrencyGBP: "£",
}

// FormatMoney renders an amount with two decimals and the currency symbol
func FormatMoney(amount decimal.Decimal, currency string) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency
	}
	if symbol == "" {
		return amount.StringFixed(2)
	}
	return symbol + " " + amount.StringFixed(2)
}

// FormatDate renders a date-only column, N/A when zero
func FormatDate(d datatypes.Date) string {
	t := time.Time(d)
	return models.DateOrNA(&t)
}

// FormatOptionalDate renders an optional date-only column
func FormatOptionalDate(d *datatypes.Date) string {
	if d == nil {
		return models.NotAvailable
	}
	return FormatDate(*d)
}

// FormatTimestamp renders a server stamp in the reader's timezone
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return models.NotAvailable
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("2006-01-02 15:04")
}

// FormatPercent renders a ratio in [0,1] as a percentage
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// FormatFileSize renders a byte count for the documents table
func FormatFileSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
