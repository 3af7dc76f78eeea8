package config

import (
	"os"
	"strconv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	DataDir      string
	ImagesDir    string
	DBPath       string
	CanvasWidth  int
	CanvasHeight int
	StrictFloors bool
	DevMode      bool
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),

		DataDir:      getEnv("DATA_DIR", "data"),
		ImagesDir:    getEnv("IMAGES_DIR", "data/images"),
		DBPath:       getEnv("CATALOG_DB_PATH", "data/db/catalog.db"),
		CanvasWidth:  getEnvAsInt("CANVAS_WIDTH", 1280),
		CanvasHeight: getEnvAsInt("CANVAS_HEIGHT", 720),
		StrictFloors: getEnvAsBool("STRICT_FLOORS", false),
		DevMode:      getEnvAsBool("DEV_MODE", false),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
