package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrMissingConnString = errors.New("storage connection string is not set: define MONGO_URI")

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	AppEnv         string        `yaml:"app_env"`
	Port           string        `yaml:"port"`
	MongoURI       string        `yaml:"mongo_uri"`
	MongoDatabase  string        `yaml:"mongo_database"`
	CORSOrigin     string        `yaml:"cors_origin"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
	Redis          Redis         `yaml:"redis"`
	RabbitMQ       RabbitMQ      `yaml:"rabbitmq"`
}

type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type RabbitMQ struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// LoadEnv loads variables from a .env file when one exists.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: could not load .env file: %v", err)
	}
}

func Default() *Config {
	return &Config{
		AppEnv:         EnvProduction,
		Port:           "3000",
		MongoDatabase:  "foodwagen",
		CORSOrigin:     "*",
		RequestTimeout: 10 * time.Second,
		LogLevel:       "info",
		Redis:          Redis{TTL: 5 * time.Minute},
		RabbitMQ:       RabbitMQ{Exchange: "foodwagen_topic"},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE and the environment, in that order of precedence.
func Load() (*Config, error) {
	LoadEnv()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.MongoURI == "" {
		return nil, ErrMissingConnString
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.AppEnv, "APP_ENV")
	setString(&cfg.Port, "PORT")
	setString(&cfg.MongoURI, "DB")
	setString(&cfg.MongoURI, "DATABASE_URL")
	setString(&cfg.MongoURI, "MONGO_URI")
	setString(&cfg.MongoDatabase, "MONGO_DATABASE")
	setString(&cfg.CORSOrigin, "CORS_ORIGIN")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&cfg.RabbitMQ.Exchange, "RABBITMQ_EXCHANGE")

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.Redis.DB = db
	}
	if err := setDuration(&cfg.Redis.TTL, "CACHE_TTL"); err != nil {
		return err
	}
	return setDuration(&cfg.RequestTimeout, "REQUEST_TIMEOUT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
