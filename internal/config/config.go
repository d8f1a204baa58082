package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string
	Environment     string
	LogLevel        string
	Database        DatabaseConfig
	Shopify         ShopifyConfig
	Suprides        SupridesConfig
	Notify          NotifyConfig
	Sync            SyncConfig
	Redis           RedisConfig
	AdminAPIKeyHash string // ADMIN_API_KEY_HASH: bcrypt hash guarding POST /v1/runs; empty disables the endpoint
}

// DatabaseConfig is the optional run ledger; an empty Host disables it
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether the run ledger is configured
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

type ShopifyConfig struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
	LocationID  string  // inventory location GID; empty means the shop's first location
	RateLimit   float64 // requests per second against the Admin API
}

// SupridesConfig is used to call the supplier products-list endpoint
type SupridesConfig struct {
	BaseURL  string // e.g. https://www.suprides.pt
	Bearer   string // SUPRIDES_BEARER
	User     string // optional, sent as query param when set
	Password string
}

// NotifyConfig holds the Discord webhook used for warnings and run summaries
type NotifyConfig struct {
	DiscordWebhookURL string // empty disables notifications
}

type SyncConfig struct {
	ProductsListPath string
	Interval         time.Duration
	DryRun           bool
}

// RedisConfig is the optional snapshot cache; an empty Addr disables it
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	SnapshotTTL time.Duration
}

func Load() (*Config, error) {
	// .env values never override variables already set in the environment
	_ = godotenv.Load()

	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SYNC_INTERVAL", "6h")
	viper.SetDefault("SNAPSHOT_CACHE_TTL", "10m")
	viper.SetDefault("SHOPIFY_RATE_LIMIT", 2.0)
	viper.SetDefault("REDIS_DB", 0)

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	interval, err := time.ParseDuration(getEnvOrViper("SYNC_INTERVAL", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL: %w", err)
	}
	snapshotTTL, err := time.ParseDuration(getEnvOrViper("SNAPSHOT_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:     strings.TrimSpace(getEnvOrViper("DB_HOST", "")),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "catalogsync"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Shopify: ShopifyConfig{
			ShopDomain:  strings.TrimSpace(getEnvOrViper("SHOPIFY_SHOP_DOMAIN", getEnvOrViper("SHOPIFY_STORE", ""))),
			AccessToken: strings.TrimSpace(getEnvOrViper("SHOPIFY_ACCESS_TOKEN", "")),
			APIVersion:  getEnvOrViper("SHOPIFY_API_VERSION", "2025-01"),
			LocationID:  strings.TrimSpace(getEnvOrViper("SHOPIFY_LOCATION_ID", "")),
			RateLimit:   viper.GetFloat64("SHOPIFY_RATE_LIMIT"),
		},
		Suprides: SupridesConfig{
			BaseURL:  strings.TrimSpace(getEnvOrViper("SUPRIDES_BASE_URL", "https://www.suprides.pt")),
			Bearer:   strings.TrimSpace(getEnvOrViper("SUPRIDES_BEARER", getEnvOrViper("SUPRIDES_BEARER_TOKEN", ""))),
			User:     strings.TrimSpace(getEnvOrViper("SUPRIDES_USER", "")),
			Password: getEnvOrViper("SUPRIDES_PASSWORD", ""),
		},
		Notify: NotifyConfig{
			DiscordWebhookURL: strings.TrimSpace(getEnvOrViper("DISCORD_WEBHOOK_URL", "")),
		},
		Sync: SyncConfig{
			ProductsListPath: getEnvOrViper("PRODUCTS_LIST_PATH", "productslist.txt"),
			Interval:         interval,
			DryRun:           viper.GetBool("SYNC_DRY_RUN"),
		},
		Redis: RedisConfig{
			Addr:        strings.TrimSpace(getEnvOrViper("REDIS_ADDR", "")),
			Password:    getEnvOrViper("REDIS_PASSWORD", ""),
			DB:          viper.GetInt("REDIS_DB"),
			SnapshotTTL: snapshotTTL,
		},
		AdminAPIKeyHash: strings.TrimSpace(getEnvOrViper("ADMIN_API_KEY_HASH", "")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the required fields
func (c *Config) Validate() error {
	if c.Shopify.ShopDomain == "" {
		return fmt.Errorf("SHOPIFY_SHOP_DOMAIN is required")
	}
	if c.Shopify.AccessToken == "" {
		return fmt.Errorf("SHOPIFY_ACCESS_TOKEN is required")
	}
	if c.Suprides.Bearer == "" && c.Suprides.User == "" {
		return fmt.Errorf("SUPRIDES_BEARER or SUPRIDES_USER is required")
	}
	if c.Shopify.RateLimit <= 0 {
		return fmt.Errorf("SHOPIFY_RATE_LIMIT must be positive")
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("SYNC_INTERVAL must be positive")
	}
	return nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
