package config

import (
	"fmt"
	"time"
)

// Config is the typed view over the environment used by the server and the CLI.
type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	LogLevel string
	LogFile  string

	DBType             string
	DatabaseDSN        string
	DatabaseReplicaDSN string
	SQLitePath         string

	AcceptedOrigins []string

	JWTSecret         string
	TokenTTL          time.Duration
	AdminUsername     string
	AdminPasswordHash string

	S3Bucket  string
	S3Region  string
	S3BaseURL string

	ResendAPIKey     string
	ResendFromEmail  string
	AdminNotifyEmail string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	AdminNotifyPhone string

	AnalyticsBackend   string
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string
}

// Load builds a Config from an env map produced by New (optionally overlaid with SSM values).
func Load(c map[string]string) (Config, error) {
	cfg := Config{
		Port:         GetString(c, "PORT", "8080"),
		ReadTimeout:  GetSeconds(c, "READ_TIMEOUT_SECONDS", 180),
		WriteTimeout: GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180),
		IdleTimeout:  GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180),

		LogLevel: GetString(c, "LOG_LEVEL", "info"),
		LogFile:  GetString(c, "LOG_FILE", ""),

		DBType:             GetString(c, "DB_TYPE", "postgres"),
		DatabaseReplicaDSN: GetString(c, "DATABASE_REPLICA_DSN", ""),
		SQLitePath:         GetString(c, "SQLITE_PATH", "portfolio.db"),

		AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS"),

		JWTSecret:         GetString(c, "JWT_SECRET", ""),
		TokenTTL:          time.Duration(GetInt(c, "TOKEN_TTL_HOURS", 12)) * time.Hour,
		AdminUsername:     GetString(c, "ADMIN_USERNAME", "admin"),
		AdminPasswordHash: GetString(c, "ADMIN_PASSWORD_HASH", ""),

		S3Bucket:  GetString(c, "S3_BUCKET", ""),
		S3Region:  GetString(c, "AWS_REGION", "us-east-1"),
		S3BaseURL: GetString(c, "S3_PUBLIC_BASE_URL", ""),

		ResendAPIKey:     GetString(c, "RESEND_API_KEY", ""),
		ResendFromEmail:  GetString(c, "RESEND_FROM_EMAIL", ""),
		AdminNotifyEmail: GetString(c, "ADMIN_NOTIFY_EMAIL", ""),

		TwilioAccountSID: GetString(c, "TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  GetString(c, "TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: GetString(c, "TWILIO_FROM_NUMBER", ""),
		AdminNotifyPhone: GetString(c, "ADMIN_NOTIFY_PHONE", ""),

		AnalyticsBackend:   GetString(c, "ANALYTICS_BACKEND", "database"),
		ClickHouseHost:     GetString(c, "CLICKHOUSE_HOST", ""),
		ClickHousePort:     GetInt(c, "CLICKHOUSE_NATIVE_PORT", 9000),
		ClickHouseDatabase: GetString(c, "CLICKHOUSE_DB_NAME", "default"),
		ClickHouseUsername: GetString(c, "CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: GetString(c, "CLICKHOUSE_PASSWORD", ""),
	}

	switch cfg.DBType {
	case "postgres":
		cfg.DatabaseDSN = GetString(c, "DATABASE_DSN", "")
		if cfg.DatabaseDSN == "" {
			cfg.DatabaseDSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
				GetString(c, "DB_HOST", "localhost"),
				GetString(c, "DB_USER", "postgres"),
				GetString(c, "DB_PASSWORD", ""),
				GetString(c, "DB_NAME", "portfolio"),
				GetString(c, "DB_PORT", "5432"),
				GetString(c, "DB_SSLMODE", "disable"),
			)
		}
	case "sqlite":
	default:
		return cfg, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}

	switch cfg.AnalyticsBackend {
	case "database":
	case "clickhouse":
		if cfg.ClickHouseHost == "" {
			return cfg, fmt.Errorf("ANALYTICS_BACKEND=clickhouse requires CLICKHOUSE_HOST")
		}
	default:
		return cfg, fmt.Errorf("unsupported ANALYTICS_BACKEND %q", cfg.AnalyticsBackend)
	}

	return cfg, nil
}
