package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string
	CorsOrigins string

	DatasetServiceURL   string        // Bulk query endpoint of the dataset service
	DatasetServiceToken string        // Bearer token sent to the dataset service
	DatasetTimeout      time.Duration // Per-fetch timeout
	RefreshSchedule     string        // Cron spec for live dashboard refresh
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	timeout, err := time.ParseDuration(getEnv("DATASET_TIMEOUT", "30s"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		JWTSecret:           getEnv("JWT_SECRET", "secret"),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:              getEnv("DB_NAME", "go-analytics"),
		SkipAuth:            getEnv("SKIP_AUTH", "false") == "true",
		Environment:         getEnv("ENVIRONMENT", "development"),
		AppId:               getEnv("APP_ID", "go-analytics"),
		CorsOrigins:         getEnv("CORS_ORIGINS", "http://localhost:3000, http://localhost:4200"),
		DatasetServiceURL:   getEnv("DATASET_SERVICE_URL", "http://localhost:8090/api/v1/dataset"),
		DatasetServiceToken: getEnv("DATASET_SERVICE_TOKEN", ""),
		DatasetTimeout:      timeout,
		RefreshSchedule:     getEnv("REFRESH_SCHEDULE", "@every 1m"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
