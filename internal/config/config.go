package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL string `mapstructure:"database_url"`
	RedisURL    string `mapstructure:"redis_url"`
	Port        string `mapstructure:"port"`

	// Token signing
	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl"` // 0 issues tokens without exp

	// Accounts outside this domain are rejected
	EmailDomain string `mapstructure:"email_domain"`

	Google GoogleConfig `mapstructure:"google"`

	// Comma separated list of CORS origins
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	CallbackURL  string `mapstructure:"callback_url"`
}

// Origins splits AllowedOrigins
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Validate checks the settings the HTTP server cannot start without
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL environment variable (or config) is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable (or config) is required"))
	}
	return errors.Join(errs...)
}

// App holds the global config instance
var App Config

// LoadConfig loads configuration from file and environment variables
func LoadConfig(path string) error {
	// Auto-load .env file if present
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	v := viper.New()

	v.SetDefault("port", "3005")
	v.SetDefault("jwt_ttl", "0s")
	v.SetDefault("email_domain", "quantox.com")
	v.SetDefault("google.callback_url", "http://localhost:3005/auth/google/redirect")
	v.SetDefault("allowed_origins", "http://localhost:3000")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.SetConfigName("dev.config") // Look for dev.config.yaml
		v.SetConfigType("yaml")
	}

	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_url", "REDIS_URL")
	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("jwt_ttl", "JWT_TTL")
	_ = v.BindEnv("email_domain", "EMAIL_DOMAIN")
	_ = v.BindEnv("allowed_origins", "ALLOWED_ORIGINS")

	// Google OAuth
	_ = v.BindEnv("google.client_id", "GOOGLE_CLIENT_ID")
	_ = v.BindEnv("google.client_secret", "GOOGLE_CLIENT_SECRET")
	_ = v.BindEnv("google.callback_url", "GOOGLE_CALLBACK_URL")

	v.AutomaticEnv()

	// 1. Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found, using defaults and environment variables")
		} else {
			return err
		}
	} else {
		log.Printf("Loaded config from: %s", v.ConfigFileUsed())
	}

	// 2. Unmarshal into a fresh struct
	App = Config{}
	if err := v.Unmarshal(&App); err != nil {
		return err
	}

	App.EmailDomain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(App.EmailDomain)), "@")
	return nil
}
