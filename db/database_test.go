package db

import (
	"testing"

	"claims_backoffice/config"

	"github.com/stretchr/testify/assert"
)

func TestDialectorFor(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		dialect string
		wantErr bool
	}{
		{"sqlite", config.Config{DBDriver: "sqlite", DBPath: "test.db"}, "sqlite", false},
		{"empty driver defaults to sqlite", config.Config{DBPath: "test.db"}, "sqlite", false},
		{"libsql", config.Config{DBDriver: "libsql", TursoDatabaseURL: "libsql://claims.turso.io"}, "sqlite", false},
		{"libsql without url", config.Config{DBDriver: "libsql"}, "", true},
		{"postgres", config.Config{DBDriver: "postgres", DatabaseURL: "postgres://u:p@localhost:5432/claims"}, "postgres", false},
		{"postgres without url", config.Config{DBDriver: "postgres"}, "", true},
		{"unknown", config.Config{DBDriver: "oracle"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := dialectorFor(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.dialect, d.Name())
		})
	}
}

func TestTursoDSN(t *testing.T) {
	assert.Equal(t, "libsql://claims.turso.io", tursoDSN("libsql://claims.turso.io", ""))
	assert.Equal(t, "libsql://claims.turso.io?authToken=secret", tursoDSN("libsql://claims.turso.io", "secret"))
}

func TestAutoMigrateWithoutInit(t *testing.T) {
	DB = nil
	assert.Error(t, AutoMigrate())
	assert.NoError(t, Close())
}
