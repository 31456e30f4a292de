package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers      []string
	KafkaGroupID      string
	UploadEventsTopic string

	// Storage layout. uploads/, clean/, reference/, Map/ and process/ all
	// live under StorageRoot; ExportRoot is the downstream tree that
	// receives the renamed cleaned copies.
	StorageRoot string
	ExportRoot  string

	// Cleaning
	RuleCatalogPath   string
	AllowedExtensions []string

	// Notifier
	SMTPHost        string
	SMTPPort        string
	SMTPFrom        string
	NotifyRecipient string

	// Sessions
	SessionTTL time.Duration

	// Missing-date sweep
	SweepInterval time.Duration
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 60*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 32*1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "aprportal"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "aprportal123"),
		PostgresDB:       getEnv("POSTGRES_DB", "aprportal"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:      getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:      getEnv("KAFKA_GROUP_ID", "apr-portal"),
		UploadEventsTopic: getEnv("UPLOAD_EVENTS_TOPIC", "apr-upload-events"),

		StorageRoot: getEnv("STORAGE_ROOT", "./media"),
		ExportRoot:  getEnv("EXPORT_ROOT", "/Disposition_Portal_Data"),

		RuleCatalogPath:   getEnv("RULE_CATALOG_PATH", ""),
		AllowedExtensions: getStringSliceEnv("ALLOWED_EXTENSIONS", []string{"csv", "xlsx"}),

		SMTPHost:        getEnv("SMTP_HOST", "localhost"),
		SMTPPort:        getEnv("SMTP_PORT", "25"),
		SMTPFrom:        getEnv("SMTP_FROM", "apr-portal@iccs.in"),
		NotifyRecipient: getEnv("NOTIFY_RECIPIENT", "reports-ops@iccs.in"),

		SessionTTL: getDuration("SESSION_TTL", 12*time.Hour),

		SweepInterval: getDuration("SWEEP_INTERVAL", 24*time.Hour),
	}
}

// MapFilePath locates the flat process-to-columns mapping table.
func (c *Config) MapFilePath() string {
	return filepath.Join(c.StorageRoot, "Map", "map.csv")
}

// ProcessListPath locates the list of process names offered at the upload boundary.
func (c *Config) ProcessListPath() string {
	return filepath.Join(c.StorageRoot, "process", "process.csv")
}

// ReferencePath locates the authoritative header template for a process.
func (c *Config) ReferencePath(process string) string {
	return filepath.Join(c.StorageRoot, "reference", process, "format.xlsx")
}

// UploadDir is where raw uploads for a process are stored.
func (c *Config) UploadDir(process string) string {
	return filepath.Join(c.StorageRoot, "uploads", process)
}

// CleanDir is where cleaned artifacts for a process are written.
func (c *Config) CleanDir(process string) string {
	return filepath.Join(c.StorageRoot, "clean", process, "APR_Clean")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
