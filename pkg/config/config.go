package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseDSN string

	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
	GmailSender       string

	TemplateBucket   string
	TemplateRegion   string
	InsuranceCompany string

	JobToken      string
	ReconcileSpec string
	CatchupSpec   string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", ""),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		GmailSender:       getEnv("GMAIL_SENDER", ""),

		TemplateBucket:   getEnv("TEMPLATE_BUCKET", "insurance-templates"),
		TemplateRegion:   getEnv("AWS_REGION", "eu-west-1"),
		InsuranceCompany: getEnv("INSURANCE_COMPANY", "AXA"),

		JobToken:      getEnv("JOB_TOKEN", ""),
		ReconcileSpec: getEnv("RECONCILE_CRON", "*/5 * * * *"),
		CatchupSpec:   getEnv("CATCHUP_CRON", "0 * * * *"),
	}
}

// Validate checks that every credential the jobs depend on is present.
// A partial Gmail credential set must fail here, before any job runs.
func (c *Config) Validate() error {
	var missing []string

	if c.DatabaseDSN == "" {
		missing = append(missing, "DATABASE_DSN")
	}
	if c.GmailClientID == "" {
		missing = append(missing, "GMAIL_CLIENT_ID")
	}
	if c.GmailClientSecret == "" {
		missing = append(missing, "GMAIL_CLIENT_SECRET")
	}
	if c.GmailRefreshToken == "" {
		missing = append(missing, "GMAIL_REFRESH_TOKEN")
	}
	if c.GmailSender == "" {
		missing = append(missing, "GMAIL_SENDER")
	}
	if c.JobToken == "" {
		missing = append(missing, "JOB_TOKEN")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
