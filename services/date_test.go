package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "Valid date",
			input:    "2026-01-27",
			expected: time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "Day first",
			input:   "27-01-2026",
			wantErr: true,
		},
		{
			name:    "Invalid day",
			input:   "2026-02-30",
			wantErr: true,
		},
		{
			name:    "Timestamp",
			input:   "2026-01-27T10:00:00Z",
			wantErr: true,
		},
		{
			name:    "Empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	d := datatypes.Date(time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-07-04", FormatDate(d))
	assert.Equal(t, "", FormatDate(datatypes.Date{}))
	assert.Equal(t, "2024-07-04", FormatOptionalDate(&d))
	assert.Equal(t, "", FormatOptionalDate(nil))
}
