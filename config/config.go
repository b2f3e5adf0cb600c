package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Environment      string
	ServerPort       string
	APIBaseURL       string
	IdentityBaseURL  string
	IdentityAPIKey   string
	ProcessorBaseURL string
	ProcessorKey     string
	ImageUploadURL   string
	ImageHostKey     string
	LocalStorePath   string
	SessionTimeout   time.Duration
	MembershipPrice  int
}

func Load() (*Config, error) {
	return &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		ServerPort:       getEnv("PORT", "8080"),
		APIBaseURL:       getEnv("API_BASE_URL", "http://localhost:5000"),
		IdentityBaseURL:  getEnv("IDENTITY_BASE_URL", "https://identity.convonest.app"),
		IdentityAPIKey:   getEnv("IDENTITY_API_KEY", ""),
		ProcessorBaseURL: getEnv("PROCESSOR_BASE_URL", "https://api.payments.example.com"),
		ProcessorKey:     getEnv("PROCESSOR_KEY", ""),
		ImageUploadURL:   getEnv("IMAGE_UPLOAD_URL", "https://images.example.com/upload"),
		ImageHostKey:     getEnv("IMAGE_HOST_KEY", ""),
		LocalStorePath:   getEnv("LOCAL_STORE_PATH", "convonest.db"),
		SessionTimeout:   getDurationEnv("SESSION_TIMEOUT", 5*time.Second),
		MembershipPrice:  getIntEnv("MEMBERSHIP_PRICE", 50),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
