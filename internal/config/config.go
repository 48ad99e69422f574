package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// AuthConfig holds the bearer-token verification secret.
type AuthConfig struct {
	JWTSecret string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	OperatorID    string
}

// Enabled reports whether operator alerts can be delivered.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.OperatorID != ""
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether snapshots should be exported to Google Sheets.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// ReportingConfig holds scheduler and accounting settings.
type ReportingConfig struct {
	CronSchedule     string
	Timezone         string
	LookbackDays     int
	VATRate          decimal.Decimal
	ChickExpenseType string
	VetExpenseType   string
}

// Location resolves the configured scheduler timezone.
func (c ReportingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	lookback, err := strconv.Atoi(getenvWithDefault("REPORT_LOOKBACK_DAYS", "120"))
	if err != nil {
		return nil, fmt.Errorf("REPORT_LOOKBACK_DAYS: %w", err)
	}

	vatRate, err := decimal.NewFromString(getenvWithDefault("REPORT_VAT_RATE", "0.08"))
	if err != nil {
		return nil, fmt.Errorf("REPORT_VAT_RATE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			OperatorID:    os.Getenv("WHATSAPP_OPERATOR_ID"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_REPORT_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule:     getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * 5"),
			Timezone:         getenvWithDefault("TIMEZONE", "Africa/Conakry"),
			LookbackDays:     lookback,
			VATRate:          vatRate,
			ChickExpenseType: getenvWithDefault("REPORT_CHICK_EXPENSE_TYPE", "chick purchase"),
			VetExpenseType:   getenvWithDefault("REPORT_VET_EXPENSE_TYPE", "veterinary service"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "farm"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	whatsappSet := []string{c.WhatsApp.AccessToken, c.WhatsApp.PhoneNumberID, c.WhatsApp.OperatorID}
	if !c.WhatsApp.Enabled() && !allEmpty(whatsappSet) {
		return errors.New("WHATSAPP_TOKEN, WHATSAPP_PHONE_NUMBER_ID and WHATSAPP_OPERATOR_ID must be provided together")
	}

	if c.WhatsApp.Enabled() {
		if c.WhatsApp.BaseURL == "" {
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		}
		if c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if !c.Sheets.Enabled() && !allEmpty([]string{c.Sheets.CredentialsPath, c.Sheets.SpreadsheetID}) {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_REPORT_ID must be provided together")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if _, err := c.Reporting.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if c.Reporting.LookbackDays <= 0 {
		return errors.New("REPORT_LOOKBACK_DAYS must be positive")
	}

	if c.Reporting.VATRate.IsNegative() || c.Reporting.VATRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return errors.New("REPORT_VAT_RATE must be within [0, 1)")
	}

	return nil
}

func allEmpty(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
