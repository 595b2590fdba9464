package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port            string
	Env             string
	LogLevel        string
	MongoURI        string
	MongoDatabase   string
	JWTSecret       string
	AllowOrigins    []string
	RabbitMQURL     string
	RabbitMQQueue   string
	ChannelPoolSize int
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "storefront"),
		JWTSecret:       getEnv("JWT_SECRET", "SECRET"),
		AllowOrigins:    getEnvAsSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		RabbitMQQueue:   getEnv("RABBITMQ_QUEUE", "order_events"),
		ChannelPoolSize: getEnvAsInt("CHANNEL_POOL_SIZE", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
