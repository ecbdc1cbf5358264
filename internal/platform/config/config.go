package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	StorageDriver  string
	MigrationsPath string
	JWTSecret      string

	CORSAllowedOrigins []string
	RateLimit          string // ulule formatted rate, e.g. "300-M"

	BalanceCacheTTL  time.Duration
	BalanceCacheSize int
	TxMaxRetries     int

	DownloadBaseURL   string
	DownloadURLTTL    time.Duration
	DownloadURLSecret string

	ReportQueueWorkers  int
	ReportQueueSize     int
	ReportStaleAfter    time.Duration
	ReportSweepSchedule string // cron spec with seconds
	ReportCallbackToken string // shared secret the report worker presents
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("BALANCE_CACHE_TTL", "10m")
	v.SetDefault("BALANCE_CACHE_SIZE", 10000)
	v.SetDefault("TX_MAX_RETRIES", 5)
	v.SetDefault("DOWNLOAD_BASE_URL", "http://localhost:8080/files")
	v.SetDefault("DOWNLOAD_URL_TTL", "15m")
	v.SetDefault("DOWNLOAD_URL_SECRET", "")
	v.SetDefault("REPORT_QUEUE_WORKERS", 2)
	v.SetDefault("REPORT_QUEUE_SIZE", 100)
	v.SetDefault("REPORT_STALE_AFTER", "2h")
	v.SetDefault("REPORT_SWEEP_SCHEDULE", "0 */10 * * * *")
	v.SetDefault("REPORT_CALLBACK_TOKEN", "")
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		DatabaseURL:         v.GetString("PGSQL_URL"),
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		StorageDriver:       strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MigrationsPath:      v.GetString("MIGRATIONS_PATH"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		RateLimit:           v.GetString("RATE_LIMIT"),
		BalanceCacheSize:    v.GetInt("BALANCE_CACHE_SIZE"),
		TxMaxRetries:        v.GetInt("TX_MAX_RETRIES"),
		DownloadBaseURL:     strings.TrimRight(v.GetString("DOWNLOAD_BASE_URL"), "/"),
		DownloadURLSecret:   v.GetString("DOWNLOAD_URL_SECRET"),
		ReportQueueWorkers:  v.GetInt("REPORT_QUEUE_WORKERS"),
		ReportQueueSize:     v.GetInt("REPORT_QUEUE_SIZE"),
		ReportSweepSchedule: v.GetString("REPORT_SWEEP_SCHEDULE"),
		ReportCallbackToken: v.GetString("REPORT_CALLBACK_TOKEN"),
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.BalanceCacheTTL = durationOrDefault(v, "BALANCE_CACHE_TTL", 10*time.Minute)
	cfg.DownloadURLTTL = durationOrDefault(v, "DOWNLOAD_URL_TTL", 15*time.Minute)
	cfg.ReportStaleAfter = durationOrDefault(v, "REPORT_STALE_AFTER", 2*time.Hour)

	if cfg.StorageDriver != StorageDriverPostgres && cfg.StorageDriver != StorageDriverMemory {
		log.Printf("Warning: unknown STORAGE_DRIVER %q. Defaulting to %s.\n", cfg.StorageDriver, StorageDriverPostgres)
		cfg.StorageDriver = StorageDriverPostgres
	}
	if cfg.StorageDriver == StorageDriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.DownloadURLSecret == "" {
		cfg.DownloadURLSecret = cfg.JWTSecret
	}
	if cfg.ReportCallbackToken == "" {
		log.Println("Warning: REPORT_CALLBACK_TOKEN not set. Report status callbacks are disabled.")
	}
	if cfg.TxMaxRetries < 1 {
		cfg.TxMaxRetries = 1
	}
	if cfg.BalanceCacheSize < 1 {
		cfg.BalanceCacheSize = 10000
	}
	if cfg.ReportQueueWorkers < 1 {
		cfg.ReportQueueWorkers = 1
	}

	return cfg
}

func durationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}
