package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"

	"github.com/sushihentaime/blogapi/internal/common"
)

type Config struct {
	Port        int    `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`
	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`

	// MigrationsPath, when set, is applied with golang-migrate at startup, e.g. "file://migrations".
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	DB       DBConfig       `mapstructure:",squash"`
	JWT      JWTConfig      `mapstructure:",squash"`
	Cache    CacheConfig    `mapstructure:",squash"`
	Limiter  LimiterConfig  `mapstructure:",squash"`
	Log      LogConfig      `mapstructure:",squash"`
	Mail     MailConfig     `mapstructure:",squash"`
	RabbitMQ RabbitMQConfig `mapstructure:",squash"`
}

type DBConfig struct {
	Host         string        `mapstructure:"POSTGRES_HOST"`
	Port         string        `mapstructure:"POSTGRES_PORT"`
	User         string        `mapstructure:"POSTGRES_USER"`
	Password     string        `mapstructure:"POSTGRES_PASSWORD"`
	Name         string        `mapstructure:"POSTGRES_DB"`
	MaxOpenConns int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	MaxIdleTime  time.Duration `mapstructure:"DB_MAX_IDLE_TIME"`
}

func (c DBConfig) DSN() string {
	return common.DSN(c.Host, c.Port, c.User, c.Password, c.Name)
}

type JWTConfig struct {
	Secret string        `mapstructure:"JWT_SECRET"`
	TTL    time.Duration `mapstructure:"JWT_TTL"`
}

type CacheConfig struct {
	TTL     time.Duration `mapstructure:"CACHE_TTL"`
	Cleanup time.Duration `mapstructure:"CACHE_CLEANUP_INTERVAL"`
}

type LimiterConfig struct {
	Enabled bool    `mapstructure:"LIMITER_ENABLED"`
	RPS     float64 `mapstructure:"LIMITER_RPS"`
	Burst   int     `mapstructure:"LIMITER_BURST"`
}

type LogConfig struct {
	Level string `mapstructure:"LOG_LEVEL"`
	File  string `mapstructure:"LOG_FILE"`
}

type MailConfig struct {
	Host     string `mapstructure:"MAIL_HOST"`
	Port     int    `mapstructure:"MAIL_PORT"`
	User     string `mapstructure:"MAIL_USER"`
	Password string `mapstructure:"MAIL_PASSWORD"`
	Sender   string `mapstructure:"MAIL_SENDER"`
}

type RabbitMQConfig struct {
	Host     string `mapstructure:"RABBITMQ_HOST"`
	Port     string `mapstructure:"RABBITMQ_PORT"`
	User     string `mapstructure:"RABBITMQ_USER"`
	Password string `mapstructure:"RABBITMQ_PASSWORD"`
}

func (c RabbitMQConfig) URI() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.User, c.Password, c.Host, c.Port)
}

// defaults lists every configuration key. Keys must be known to viper for environment
// variables to reach Unmarshal.
var defaults = map[string]any{
	"PORT":                   4000,
	"ENVIRONMENT":            "development",
	"VERSION":                "1.0.0",
	"TLS_CERT_FILE":          "",
	"TLS_KEY_FILE":           "",
	"MIGRATIONS_PATH":        "",
	"POSTGRES_HOST":          "localhost",
	"POSTGRES_PORT":          "5432",
	"POSTGRES_USER":          "postgres",
	"POSTGRES_PASSWORD":      "",
	"POSTGRES_DB":            "blogapi",
	"DB_MAX_OPEN_CONNS":      25,
	"DB_MAX_IDLE_CONNS":      25,
	"DB_MAX_IDLE_TIME":       "15m",
	"JWT_SECRET":             "",
	"JWT_TTL":                "1h",
	"CACHE_TTL":              "5m",
	"CACHE_CLEANUP_INTERVAL": "10m",
	"LIMITER_ENABLED":        true,
	"LIMITER_RPS":            2,
	"LIMITER_BURST":          4,
	"LOG_LEVEL":              "info",
	"LOG_FILE":               "blogapi.log",
	"MAIL_HOST":              "localhost",
	"MAIL_PORT":              1025,
	"MAIL_USER":              "",
	"MAIL_PASSWORD":          "",
	"MAIL_SENDER":            "Blogapi <no-reply@blogapi.local>",
	"RABBITMQ_HOST":          "localhost",
	"RABBITMQ_PORT":          "5672",
	"RABBITMQ_USER":          "guest",
	"RABBITMQ_PASSWORD":      "guest",
}

// loadConfig reads the env file at path, if present, and lets environment variables override it.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	return &config, nil
}
