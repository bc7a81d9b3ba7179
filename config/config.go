package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting the service reads. It is built once in main
// and passed by value to the components that need it; nothing reads the
// environment after startup.
type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	DatabaseURL        string
	DatabaseReplicaURL string

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins []string

	// Outbound email (optional; notification sends are skipped when unset)
	ResendAPIKey      string
	EmailFrom         string
	NotificationEmail string

	// Project image storage (optional; upload endpoint is disabled when unset)
	S3Bucket       string
	S3Region       string
	PublicAssetURL string
}

// Load builds a Config from the process environment.
func Load() Config {
	return Config{
		Port:         getString("PORT", "8080"),
		ReadTimeout:  time.Duration(getInt("READ_TIMEOUT_SECONDS", 180)) * time.Second,
		WriteTimeout: time.Duration(getInt("WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
		IdleTimeout:  time.Duration(getInt("IDLE_TIMEOUT_SECONDS", 180)) * time.Second,

		DatabaseURL:        getString("DATABASE_URL", ""),
		DatabaseReplicaURL: getString("DATABASE_REPLICA_URL", ""),

		JWTSecret: getString("SECRET_KEY", ""),
		// 7 days, matching the admin panel's session length
		TokenTTL: time.Duration(getInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24*7)) * time.Minute,

		CORSOrigins: getList("ACCEPTED_ORIGINS", []string{"http://localhost:3000"}),

		ResendAPIKey:      getString("RESEND_API_KEY", ""),
		EmailFrom:         getString("RESEND_FROM_EMAIL", ""),
		NotificationEmail: getString("NOTIFICATION_EMAIL", ""),

		S3Bucket:       getString("S3_BUCKET", ""),
		S3Region:       getString("S3_REGION", "us-east-1"),
		PublicAssetURL: getString("PUBLIC_ASSET_URL", ""),
	}
}

func getString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue
	}
	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return asInt
}

func getList(key string, defaultValue []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
