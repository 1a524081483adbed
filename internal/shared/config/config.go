package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port             string   `mapstructure:"port"`
	Env              string   `mapstructure:"env"`
	LogLevel         string   `mapstructure:"log_level"`
	LogFormat        string   `mapstructure:"log_format"`
	CORSAllowOrigins string   `mapstructure:"cors_allow_origins"`
	CORSAllowOrigin  []string `mapstructure:"-"`

	DatabaseDriver     string        `mapstructure:"database_driver"`
	DatabaseURL        string        `mapstructure:"database_url"`
	RedisAddr          string        `mapstructure:"redis_addr"`
	RedisPassword      string        `mapstructure:"redis_password"`
	RedisDB            int           `mapstructure:"redis_db"`
	CredentialCacheTTL time.Duration `mapstructure:"credential_cache_ttl"`
	JWTSecret          string        `mapstructure:"jwt_secret"`
	AuthRequired       bool          `mapstructure:"auth_required"`

	TrackerMode    string        `mapstructure:"tracker_mode"`
	TrackerBaseURL string        `mapstructure:"tracker_base_url"`
	AzureOrgURL    string        `mapstructure:"azure_org_url"`
	AzureProject   string        `mapstructure:"azure_project"`
	AzurePAT       string        `mapstructure:"azure_pat"`
	TrackerTimeout time.Duration `mapstructure:"tracker_timeout"`
	CheckedTag     string        `mapstructure:"checked_tag"`

	LLMProvider     string        `mapstructure:"llm_provider"`
	LLMModel        string        `mapstructure:"llm_model"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key"`
	AnthropicAPIKey string        `mapstructure:"anthropic_api_key"`
	LLMTimeout      time.Duration `mapstructure:"llm_timeout"`
	LLMMaxTokens    int           `mapstructure:"llm_max_tokens"`
	LLMTemperature  float32       `mapstructure:"llm_temperature"`
	DefaultLanguage string        `mapstructure:"default_language"`
	CriteriaPath    string        `mapstructure:"criteria_path"`
	MaxImageBytes   int64         `mapstructure:"max_image_bytes"`
	MaxImages       int           `mapstructure:"max_images"`
}

var defaults = map[string]any{
	"port":                 "8000",
	"env":                  "dev",
	"log_level":            "info",
	"log_format":           "json",
	"cors_allow_origins":   "http://localhost:5173",
	"database_driver":      "pgx",
	"database_url":         "",
	"redis_addr":           "",
	"redis_password":       "",
	"redis_db":             0,
	"credential_cache_ttl": 10 * time.Minute,
	"jwt_secret":           "",
	"auth_required":        false,
	"tracker_mode":         "gateway",
	"tracker_base_url":     "http://localhost:8080",
	"azure_org_url":        "",
	"azure_project":        "",
	"azure_pat":            "",
	"tracker_timeout":      15 * time.Second,
	"checked_tag":          "US Checked",
	"llm_provider":         "openai",
	"llm_model":            "gpt-4",
	"openai_api_key":       "",
	"anthropic_api_key":    "",
	"llm_timeout":          60 * time.Second,
	"llm_max_tokens":       1000,
	"llm_temperature":      0.7,
	"default_language":     "es",
	"criteria_path":        "",
	"max_image_bytes":      5 << 20,
	"max_images":           5,
}

// Load reads configuration from an optional config file, .env files and the
// environment, in increasing order of precedence.
func Load() (Config, error) {
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	normalize(&cfg)
	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func normalize(cfg *Config) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.CORSAllowOrigin = splitAndTrim(cfg.CORSAllowOrigins)
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	cfg.TrackerMode = strings.ToLower(strings.TrimSpace(cfg.TrackerMode))
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.DefaultLanguage = strings.ToLower(strings.TrimSpace(cfg.DefaultLanguage))
	cfg.TrackerBaseURL = strings.TrimRight(strings.TrimSpace(cfg.TrackerBaseURL), "/")
	cfg.AzureOrgURL = strings.TrimRight(strings.TrimSpace(cfg.AzureOrgURL), "/")
}

func validate(cfg Config) error {
	switch cfg.DatabaseDriver {
	case "pgx", "postgres", "mysql":
	default:
		return fmt.Errorf("database_driver %q not supported", cfg.DatabaseDriver)
	}
	switch cfg.TrackerMode {
	case "gateway":
		if cfg.TrackerBaseURL == "" {
			return errors.New("tracker_base_url is required")
		}
	case "azure":
		if cfg.AzureOrgURL == "" || cfg.AzureProject == "" || cfg.AzurePAT == "" {
			return errors.New("azure_org_url, azure_project and azure_pat are required for tracker_mode=azure")
		}
	default:
		return fmt.Errorf("tracker_mode %q not supported", cfg.TrackerMode)
	}
	switch cfg.LLMProvider {
	case "openai", "anthropic", "placeholder":
	default:
		return fmt.Errorf("llm_provider %q not supported", cfg.LLMProvider)
	}
	switch cfg.DefaultLanguage {
	case "es", "en":
	default:
		return fmt.Errorf("default_language %q not supported", cfg.DefaultLanguage)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		switch {
		case cfg.Env == "production" || cfg.Env == "staging":
			return fmt.Errorf("jwt_secret is required in %s", cfg.Env)
		case cfg.AuthRequired:
			return errors.New("jwt_secret is required when auth_required is set")
		}
	}
	return nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

// IsDevLike reports whether missing infrastructure may fall back to in-memory stand-ins.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}
