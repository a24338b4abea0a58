package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Embedding EmbeddingConfig
	Storage   StorageConfig
	Screening ScreeningConfig
	Queue     QueueConfig
	S3        S3Config
	Log       LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type EmbeddingConfig struct {
	// Provider is either "gemini" or "ollama".
	Provider     string
	Model        string
	GeminiAPIKey string
	OllamaURL    string
	Timeout      time.Duration
}

type StorageConfig struct {
	MaxFileSize int64
}

type ScreeningConfig struct {
	MaxPages int
	Skills   []string
}

type QueueConfig struct {
	RabbitMQURL string
	Exchange    string
}

type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

// DefaultSkills is the keyword vocabulary used when SKILL_VOCABULARY is unset.
var DefaultSkills = []string{
	"AI", "ML", "Python", "JavaScript", "React", "Node", "Flask", "MongoDB",
	"AWS", "Docker", "Kubernetes", "SQL", "TensorFlow", "Pytorch", "NLP",
	"Computer Vision",
}

// Load reads configuration from the environment, loading a .env file first
// when one is present. It reports whether a .env file was found.
func Load() (*Config, bool) {
	dotenv := godotenv.Load() == nil

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Embedding: EmbeddingConfig{
			Provider:     strings.ToLower(getEnv("EMBEDDING_PROVIDER", "ollama")),
			Model:        getEnv("EMBEDDING_MODEL", ""),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			OllamaURL:    getEnv("OLLAMA_URL", "http://localhost:11434"),
			Timeout:      getEnvAsDuration("EMBEDDING_TIMEOUT", "30s"),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Screening: ScreeningConfig{
			MaxPages: getEnvAsInt("MAX_PAGES", 3),
			Skills:   getEnvAsList("SKILL_VOCABULARY", DefaultSkills),
		},
		Queue: QueueConfig{
			RabbitMQURL: getEnv("RABBITMQ_URL", ""),
			Exchange:    getEnv("RABBITMQ_EXCHANGE", "screening_updates"),
		},
		S3: S3Config{
			Bucket:    getEnv("S3_BUCKET", ""),
			Prefix:    getEnv("S3_PREFIX", ""),
			Region:    getEnv("S3_REGION", "auto"),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}, dotenv
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

// getEnvAsList splits a comma separated value, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return append([]string(nil), defaultValue...)
	}

	var items []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return append([]string(nil), defaultValue...)
	}
	return items
}
