package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
	AccessTTL    time.Duration
	AllowSignUp  bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StoreConfig struct {
	DocumentID   string
	SaveDebounce time.Duration
}

type ReportsConfig struct {
	PDFFontPath     string
	ImportRulesFile string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Redis       RedisConfig
	Store       StoreConfig
	Reports     ReportsConfig
}

func Load() (*Config, error) {
	return fromViper(newViper())
}

// LoadStorage is for offline tools that only touch the database and the
// document store. Auth settings are not required.
func LoadStorage() (*Config, error) {
	cfg := build(newViper())
	if err := validateStorage(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 7090)
	v.SetDefault("JWT_ACCESS_TTL", "12h")
	v.SetDefault("AUTH_ALLOW_SIGNUP", true)
	v.SetDefault("STORE_DOCUMENT_ID", "default")
	v.SetDefault("STORE_SAVE_DEBOUNCE", "1500ms")
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := build(v)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func build(v *viper.Viper) *Config {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
			AccessTTL:    v.GetDuration("JWT_ACCESS_TTL"),
			AllowSignUp:  v.GetBool("AUTH_ALLOW_SIGNUP"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Store: StoreConfig{
			DocumentID:   v.GetString("STORE_DOCUMENT_ID"),
			SaveDebounce: v.GetDuration("STORE_SAVE_DEBOUNCE"),
		},
		Reports: ReportsConfig{
			PDFFontPath:     v.GetString("PDF_FONT_PATH"),
			ImportRulesFile: v.GetString("IMPORT_RULES_FILE"),
		},
	}

	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = []string{"*"}
	}
	return cfg
}

func validate(cfg *Config) error {
	if err := validateStorage(cfg); err != nil {
		return err
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Auth.AccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be positive")
	}
	return nil
}

func validateStorage(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if strings.TrimSpace(cfg.Store.DocumentID) == "" {
		return fmt.Errorf("STORE_DOCUMENT_ID must not be empty")
	}
	if cfg.Store.SaveDebounce < 0 {
		return fmt.Errorf("STORE_SAVE_DEBOUNCE must not be negative")
	}
	if cfg.DB.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(cfg.DB.ConnMaxLifetime); err != nil {
			return fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
		}
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
