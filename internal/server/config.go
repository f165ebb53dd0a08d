package server

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// defaultEmailPattern mirrors the historical policy: a plain mailbox at a
// plain domain, case-insensitive.
const defaultEmailPattern = `(?i)^[a-z0-9.-]+@[a-z.-]+$`

// Config holds server configuration loaded from environment variables.
type Config struct {
	DBPath         string
	ListenAddr     string
	RequireAuth    bool
	GoogleClientID string
	EmailPattern   *regexp.Regexp
	CORSOrigins    []string
}

// LoadConfig loads server configuration from environment variables.
func LoadConfig() (*Config, error) {
	dbPath := os.Getenv("HEARTBEAT_DB_PATH")
	if dbPath == "" {
		dbPath = "heartbeat.db"
	}

	listenAddr := os.Getenv("HEARTBEAT_LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	requireAuth := true
	if v := strings.TrimSpace(strings.ToLower(os.Getenv("HEARTBEAT_REQUIRE_AUTH"))); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			requireAuth = true
		case "0", "false", "no", "off":
			requireAuth = false
		default:
			return nil, fmt.Errorf("HEARTBEAT_REQUIRE_AUTH must be one of true/false/1/0/yes/no/on/off")
		}
	}

	emailPattern := os.Getenv("HEARTBEAT_EMAIL_REGEX")
	if emailPattern == "" {
		emailPattern = defaultEmailPattern
	}
	emailRe, err := regexp.Compile(emailPattern)
	if err != nil {
		return nil, fmt.Errorf("HEARTBEAT_EMAIL_REGEX is not a valid regexp: %w", err)
	}

	var corsOrigins []string
	if v := os.Getenv("HEARTBEAT_CORS_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		DBPath:         dbPath,
		ListenAddr:     listenAddr,
		RequireAuth:    requireAuth,
		GoogleClientID: os.Getenv("HEARTBEAT_GOOGLE_CLIENT_ID"),
		EmailPattern:   emailRe,
		CORSOrigins:    corsOrigins,
	}, nil
}
