package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "Valid complex password",
			password: "StrongPassword123",
			wantErr:  false,
		},
		{
			name:     "Non ASCII letters count",
			password: "Ação2024segura",
			wantErr:  false,
		},
		{
			name:     "Too short",
			password: "Short1a",
			wantErr:  true,
			errMsg:   "must contain at least 10 characters",
		},
		{
			name:     "Missing uppercase",
			password: "lowercase123",
			wantErr:  true,
			errMsg:   "must contain an uppercase letter",
		},
		{
			name:     "Missing lowercase",
			password: "UPPERCASE123",
			wantErr:  true,
			errMsg:   "must contain a lowercase letter",
		},
		{
			name:     "Missing number",
			password: "NoNumbersHere",
			wantErr:  true,
			errMsg:   "must contain a number",
		},
		{
			name:     "Every rule unmet",
			password: "",
			wantErr:  true,
			errMsg:   "must contain at least 10 characters, an uppercase letter, a lowercase letter, a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			ve, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.errMsg, ve.Fields["password"])
		})
	}
}
