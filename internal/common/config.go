package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	OCR     OCRConfig
	Batch   BatchConfig
	History HistoryConfig
}

// OCRConfig holds settings for the rasterize + OCR fallback path
type OCRConfig struct {
	Pdftoppm      string
	Tesseract     string
	Unar          string
	TesseractLang string
	DPI           int
	MaxPages      int
}

// BatchConfig holds batch processing behavior
type BatchConfig struct {
	Workers    int
	DocTimeout time.Duration
}

// HistoryConfig holds the optional run-history store settings
type HistoryConfig struct {
	DBPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			Unar:          getEnv("UNAR_BIN", "unar"),
			TesseractLang: getEnv("TESSERACT_LANG", "ind+eng"),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
		},
		Batch: BatchConfig{
			Workers:    getEnvAsInt("BATCH_WORKERS", 1),
			DocTimeout: getEnvAsDuration("BATCH_DOC_TIMEOUT", 2*time.Minute),
		},
		History: HistoryConfig{
			DBPath: getEnv("HISTORY_DB", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
