package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_PORT", "LOG_LEVEL", "AUTH_JWT_SECRET", "MONGODB_URI", "MONGODB_DB_NAME",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_REPORT_ID",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_OPERATOR_ID",
	"WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION",
	"REPORT_CRON_SCHEDULE", "TIMEZONE", "REPORT_LOOKBACK_DAYS", "REPORT_VAT_RATE",
	"REPORT_CHICK_EXPENSE_TYPE", "REPORT_VET_EXPENSE_TYPE",
}

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedKeys {
		t.Setenv(key, "")
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "farm", cfg.MongoDB.DBName)
	assert.Equal(t, "0 20 * * 5", cfg.Reporting.CronSchedule)
	assert.Equal(t, 120, cfg.Reporting.LookbackDays)
	assert.True(t, decimal.RequireFromString("0.08").Equal(cfg.Reporting.VATRate))
	assert.Equal(t, "chick purchase", cfg.Reporting.ChickExpenseType)
	assert.Equal(t, "veterinary service", cfg.Reporting.VetExpenseType)
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	for _, key := range managedKeys {
		require.NoError(t, os.Unsetenv(key))
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "AUTH_JWT_SECRET=file-secret\nREPORT_VAT_RATE=0.18\nREPORT_LOOKBACK_DAYS=30\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30, cfg.Reporting.LookbackDays)
	assert.True(t, decimal.RequireFromString("0.18").Equal(cfg.Reporting.VATRate))
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "AUTH_JWT_SECRET"},
		{"bad lookback", map[string]string{"AUTH_JWT_SECRET": "s", "REPORT_LOOKBACK_DAYS": "soon"}, "REPORT_LOOKBACK_DAYS"},
		{"zero lookback", map[string]string{"AUTH_JWT_SECRET": "s", "REPORT_LOOKBACK_DAYS": "0"}, "REPORT_LOOKBACK_DAYS"},
		{"vat too high", map[string]string{"AUTH_JWT_SECRET": "s", "REPORT_VAT_RATE": "1"}, "REPORT_VAT_RATE"},
		{"vat negative", map[string]string{"AUTH_JWT_SECRET": "s", "REPORT_VAT_RATE": "-0.1"}, "REPORT_VAT_RATE"},
		{"unknown timezone", map[string]string{"AUTH_JWT_SECRET": "s", "TIMEZONE": "Mars/Olympus"}, "TIMEZONE"},
		{"half sheets", map[string]string{"AUTH_JWT_SECRET": "s", "GOOGLE_SHEET_REPORT_ID": "abc"}, "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{"half whatsapp", map[string]string{"AUTH_JWT_SECRET": "s", "WHATSAPP_TOKEN": "tok"}, "WHATSAPP_TOKEN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load(missingEnvFile(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestEnabledBlocks(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "s")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/etc/creds.json")
	t.Setenv("GOOGLE_SHEET_REPORT_ID", "sheet")
	t.Setenv("WHATSAPP_TOKEN", "tok")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "123")
	t.Setenv("WHATSAPP_OPERATOR_ID", "224600000000")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	assert.True(t, cfg.Sheets.Enabled())
	assert.True(t, cfg.WhatsApp.Enabled())
}
