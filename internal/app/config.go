package app

import (
	"os"
	"strconv"
)

// Constants
const (
	DefaultPort    = 8080
	DefaultDataDir = "data"

	// Error messages
	ErrEditModeDisabled  = "Edit mode disabled"
	ErrInvalidDateFormat = "Invalid date format"
	ErrInvalidYear       = "Invalid year"
	ErrInvalidMonth      = "Invalid month"
	ErrInvalidFormat     = "Invalid format"
	ErrInternalServer    = "Internal server error"
	ErrFailedToSave      = "Failed to save calendar"
	ErrExportFailed      = "Failed to generate export"

	// ICS constants
	ICSProductID = "-//NOC Facilities//Plantao Calendar//PT-BR"
	ICSTimezone  = "America/Sao_Paulo"
)

// Embedded files (set by main)
var (
	IndexHTML []byte
	EditHTML  []byte
)

// Config is the runtime configuration. Flags fill Port and EditMode; the
// rest comes from the environment (a .env file is honored when present).
type Config struct {
	Port       int
	DataDir    string
	EditMode   bool
	LinkSecret string
	AuthFile   string
}

// ConfigFromEnv builds a Config from environment variables.
func ConfigFromEnv() Config {
	port := DefaultPort
	if p, err := strconv.Atoi(getEnv("PORT", "")); err == nil && p > 0 {
		port = p
	}
	return Config{
		Port:       port,
		DataDir:    getEnv("DATA_DIR", DefaultDataDir),
		LinkSecret: getEnv("LINK_SECRET", ""),
		AuthFile:   getEnv("AUTH_FILE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
