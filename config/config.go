package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/gowaffles/assistant/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	OpenAI   OpenAIConfig
	Telegram TelegramConfig
	Catalog  CatalogConfig
	Matching MatchingConfig
	Intent   IntentConfig
	Composer ComposerConfig
	Business BusinessConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	WebhookURL     string   `mapstructure:"webhook_url"`
}

// OpenAIConfig holds chat-completion API configuration
type OpenAIConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	BaseURL           string  `mapstructure:"base_url"`
	Model             string  `mapstructure:"model"`
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
	Burst             int     `mapstructure:"burst"`
}

// TelegramConfig holds Telegram Bot API configuration
type TelegramConfig struct {
	Token       string        `mapstructure:"token"`
	APIEndpoint string        `mapstructure:"api_endpoint"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// CatalogConfig holds the remote menu source and its cache TTL
type CatalogConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds fuzzy matching parameters
type MatchingConfig struct {
	Threshold          int  `mapstructure:"threshold"`
	Limit              int  `mapstructure:"limit"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// IntentConfig holds menu-intent classification settings
type IntentConfig struct {
	LLMEnabled bool          `mapstructure:"llm_enabled"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ComposerConfig holds reply generation settings
type ComposerConfig struct {
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// BusinessConfig holds the static business information
type BusinessConfig struct {
	Name         string                `mapstructure:"name"`
	City         string                `mapstructure:"city"`
	Timezone     string                `mapstructure:"timezone"`
	MenuURL      string                `mapstructure:"menu_url"`
	ContactEmail string                `mapstructure:"contact_email"`
	Facts        []domain.BusinessFact `mapstructure:"facts"`
}

const (
	defaultCatalogURL = "https://webdatacdn.getjusto.com/v1/websites/LeH4tbZj5znjrm8wD/menus/5XXLP6masht3zN6ko"
	envPrefix         = "GOWAFFLES"
)

var validEnvironments = map[string]bool{
	"development": true,
	"production":  true,
	"test":        true,
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/gowaffles/")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	// Config file is optional; env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadEnvFile loads a .env file from the working directory if one exists.
// Variables already present in the environment are not overridden.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{
		"https://gowaffles.cl",
		"https://*.gowaffles.cl",
		"http://localhost:*",
	})
	v.SetDefault("server.webhook_url", "https://go-waffles-bot.up.railway.app/webhook/telegram")

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.requests_per_minute", 120)
	v.SetDefault("openai.burst", 10)

	// Telegram defaults
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.api_endpoint", "https://api.telegram.org/bot%s/%s")
	v.SetDefault("telegram.timeout", "5s")

	// Catalog defaults
	v.SetDefault("catalog.url", defaultCatalogURL)
	v.SetDefault("catalog.timeout", "5s")
	v.SetDefault("catalog.ttl", "300s")

	// Matching defaults
	v.SetDefault("matching.threshold", 60)
	v.SetDefault("matching.limit", 3)
	v.SetDefault("matching.enable_debug_logging", false)

	// Intent and composer defaults
	v.SetDefault("intent.llm_enabled", true)
	v.SetDefault("intent.timeout", "5s")
	v.SetDefault("composer.temperature", 0.3)
	v.SetDefault("composer.timeout", "10s")

	// Business defaults
	v.SetDefault("business.name", "Go Waffles")
	v.SetDefault("business.city", "La Serena, Chile")
	v.SetDefault("business.timezone", "America/Santiago")
	v.SetDefault("business.menu_url", "gowaffles.cl/pedir")
	v.SetDefault("business.contact_email", "contacto@gowaffles.cl")
}

// bindLegacyEnv keeps the unprefixed variable names deployments already use
func bindLegacyEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"openai.api_key": {envPrefix + "_OPENAI_API_KEY", "OPENAI_API_KEY"},
		"telegram.token": {envPrefix + "_TELEGRAM_TOKEN", "TELEGRAM_TOKEN"},
		"server.port":    {envPrefix + "_SERVER_PORT", "PORT"},
	}
	for key, names := range bindings {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("binding env for %s: %w", key, err)
		}
	}
	return nil
}

// validate validates the configuration.
// Missing credentials are allowed: the service degrades to fixed replies.
func validate(config *Config) error {
	if !validEnvironments[config.Server.Environment] {
		return fmt.Errorf("server environment must be development, production or test, got: %s", config.Server.Environment)
	}

	if config.Catalog.URL == "" {
		return fmt.Errorf("catalog URL is required")
	}

	durations := map[string]time.Duration{
		"catalog.timeout":  config.Catalog.Timeout,
		"catalog.ttl":      config.Catalog.TTL,
		"telegram.timeout": config.Telegram.Timeout,
		"intent.timeout":   config.Intent.Timeout,
		"composer.timeout": config.Composer.Timeout,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got: %s", name, d)
		}
	}

	if config.Matching.Threshold < 1 || config.Matching.Threshold > 100 {
		return fmt.Errorf("matching threshold must be between 1 and 100, got: %d", config.Matching.Threshold)
	}

	if config.Matching.Limit < 1 {
		return fmt.Errorf("matching limit must be at least 1, got: %d", config.Matching.Limit)
	}

	if config.Composer.Temperature < 0 || config.Composer.Temperature > 2 {
		return fmt.Errorf("composer temperature must be between 0 and 2, got: %v", config.Composer.Temperature)
	}

	if config.OpenAI.RequestsPerMinute <= 0 || config.OpenAI.Burst < 1 {
		return fmt.Errorf("openai rate limit must be positive (requests_per_minute=%v, burst=%d)",
			config.OpenAI.RequestsPerMinute, config.OpenAI.Burst)
	}

	if _, err := time.LoadLocation(config.Business.Timezone); err != nil {
		return fmt.Errorf("unknown business timezone %q: %w", config.Business.Timezone, err)
	}

	return nil
}

// OpenAIConfigured reports whether a completion API key is present
func (c *Config) OpenAIConfigured() bool {
	return c.OpenAI.APIKey != ""
}

// TelegramConfigured reports whether a Telegram token is present
func (c *Config) TelegramConfigured() bool {
	return c.Telegram.Token != ""
}
