package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration parsed from environment variables. It
// is built once at startup and passed by reference; nothing mutates it
// afterwards.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	AppEnv          string
	AllowedOrigins  []string

	// Club identity used on payment instructions and the HUB-3 payload.
	ClubName             string
	OIB                  string
	SupportContact       string
	IBAN                 string
	PaymentModel         string
	ReferencePrefix      string
	Currency             string
	DeliveryLeadTimeDays int

	// Back-office notification endpoints. Empty URL disables the call.
	NotificationEmails []string
	EmailWebhookURL    string
	SheetWebhookURL    string
	SheetSecret        string

	// Optional JSON catalog override; empty means the built-in catalog.
	CatalogPath string

	SessionTTL time.Duration
}

// FromEnv builds Config with defaults, overridden by environment variables.
// A .env file is honoured when present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		AppEnv:          envOrDefault("APP_ENV", "development"),
		AllowedOrigins:  envList("ALLOWED_ORIGINS", []string{"*"}),

		ClubName:             envOrDefault("CLUB_NAME", "KK Dinamo Zagreb"),
		OIB:                  envOrDefault("CLUB_OIB", "84603037305"),
		SupportContact:       envOrDefault("SUPPORT_CONTACT", "Trener Mario Štirjan, 095 321 2241"),
		IBAN:                 envOrDefault("CLUB_IBAN", "HR5823600001101579632"),
		PaymentModel:         envOrDefault("PAYMENT_MODEL", "HR00"),
		ReferencePrefix:      envOrDefault("REFERENCE_PREFIX", "DINAMO-OPREMA-"),
		Currency:             envOrDefault("CURRENCY", "EUR"),
		DeliveryLeadTimeDays: envInt("DELIVERY_LEAD_TIME_DAYS", 30),

		NotificationEmails: envList("NOTIFICATION_EMAILS", []string{"oprema@kkdinamo.hr"}),
		EmailWebhookURL:    envOrDefault("EMAIL_WEBHOOK_URL", ""),
		SheetWebhookURL:    envOrDefault("SHEET_WEBHOOK_URL", ""),
		SheetSecret:        envOrDefault("SHEET_SECRET", ""),

		CatalogPath: envOrDefault("CATALOG_PATH", ""),

		SessionTTL: envDuration("SESSION_TTL_SECONDS", 12*time.Hour),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
