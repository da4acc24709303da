package config

import (
	"os"
	"time"
)

type Config struct {
	ServerAddress   string
	MongoURI        string
	MongoDatabase   string
	DataDir         string
	UploadDir       string
	MaxUploadSizeMB int64
	JWTSecret       string
	JWTExpiration   time.Duration
	FrontendBaseURL string
	AdminEmail      string
	AdminPassword   string
}

func Load() *Config {
	return &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		// Empty MONGO_URI selects the JSON-file backed in-memory catalog.
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DB", "brasstrack"),
		DataDir:         getEnv("DATA_DIR", "./data"),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSizeMB: 10,
		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration:   24 * time.Hour,
		FrontendBaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:5173"),
		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@brasstrack.local"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "change-me"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
