package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBServer:   "db.example.com",
		DBPort:     "3307",
		DBName:     "collections",
		DBUser:     "tailor",
		DBPassword: "secret",
	}

	dsn := cfg.DSN()
	assert.Equal(t, "tailor:secret@tcp(db.example.com:3307)/collections?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DBName: "collections", DBUser: "root"}
	assert.NoError(t, cfg.Validate())

	cfg = &Config{DBUser: "root"}
	assert.Error(t, cfg.Validate(), "missing database name should fail validation")

	cfg = &Config{DBName: "collections"}
	assert.Error(t, cfg.Validate(), "missing database user should fail validation")
}

func TestLoadUsesDefaults(t *testing.T) {
	// Clear the variables Load reads so the defaults apply
	for _, key := range []string{"PORT", "DB_SERVER", "DB_PORT", "DB_DATABASE", "DB_USER", "DB_PASSWORD", "CORS_ALLOWED_ORIGINS"} {
		original := os.Getenv(key)
		os.Unsetenv(key)
		defer func(k, v string) {
			if v != "" {
				os.Setenv(k, v)
			}
		}(key, original)
	}

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "5120", cfg.Port)
	assert.Equal(t, "localhost", cfg.DBServer)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestSplitOrigins(t *testing.T) {
	origins := splitOrigins("http://localhost:5173, https://collections.example.com ,")
	assert.Equal(t, []string{"http://localhost:5173", "https://collections.example.com"}, origins)
}

func TestGetAndSetDB(t *testing.T) {
	original := DB
	defer SetDB(original)

	SetDB(nil)
	assert.Nil(t, GetDB(), "GetDB should return nil when DB is not initialized")
}
