// Package config loads service settings from the environment, optionally
// seeded from a dotenv file.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains all service configuration.
type Config struct {
	App      App      `envPrefix:"APP_"`
	Postgres Postgres `envPrefix:"POSTGRES_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	Kafka    Kafka    `envPrefix:"KAFKA_"`
	GRPC     GRPC     `envPrefix:"GRPC_"`
	JWT      JWT      `envPrefix:"JWT_"`
	Cache    Cache    `envPrefix:"CACHE_"`
	Admin    Admin    `envPrefix:"ADMIN_"`
}

// App contains HTTP server and logging parameters.
type App struct {
	Host      string `env:"HOST" envDefault:"localhost"`
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Postgres contains database connection parameters.
type Postgres struct {
	Host         string `env:"HOST" envDefault:"localhost"`
	Port         int    `env:"PORT" envDefault:"5432"`
	User         string `env:"USER" envDefault:"user"`
	Password     string `env:"PASSWORD" envDefault:"password"`
	DB           string `env:"DB" envDefault:"database"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS" envDefault:"16"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS" envDefault:"8"`
}

// DSN returns the pgx connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.DB)
}

// Redis contains cache connection parameters.
type Redis struct {
	Host         string `env:"HOST" envDefault:"localhost"`
	Port         int    `env:"PORT" envDefault:"6379"`
	DB           int    `env:"DB" envDefault:"0"`
	Password     string `env:"PASSWORD"`
	PoolSize     int    `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int    `env:"MIN_IDLE_CONNS" envDefault:"2"`
}

// Addr returns host:port.
func (r Redis) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Kafka contains user event publishing parameters. Publishing is disabled
// when Brokers is empty.
type Kafka struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"user-events"`
}

// GRPC contains health server parameters.
type GRPC struct {
	Port           string        `env:"PORT" envDefault:"50051"`
	HealthInterval time.Duration `env:"HEALTH_INTERVAL" envDefault:"10s"`
}

// JWT contains session token parameters.
type JWT struct {
	SecretKey string        `env:"SECRET_KEY" envDefault:"my_super_secret_key"`
	Exp       time.Duration `env:"EXP" envDefault:"24h"`
}

// Cache contains cache policy parameters.
type Cache struct {
	UserTTL time.Duration `env:"USER_TTL" envDefault:"24h"`
}

// Admin contains initial admin account parameters. Seeding is skipped when
// Password is empty.
type Admin struct {
	Username string `env:"USERNAME" envDefault:"admin"`
	Email    string `env:"EMAIL" envDefault:"admin@localhost"`
	Name     string `env:"NAME" envDefault:"Administrator"`
	Password string `env:"DEFAULT_PASSWORD"`
}

// Load reads the dotenv file at path (a missing file is not an error) and
// parses the environment into Config.
func Load(path string) (*Config, error) {
	if path != "" {
		_ = godotenv.Load(path)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
