package app

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/oddslip/oddslip/app/database"
)

type Config struct {
	DB database.Config

	AppHost string `env:"APP_HOST" env-default:"localhost"`
	AppPort string `env:"APP_PORT" env-default:"8080"`
	Env     string `env:"APP_ENV" env-default:"development"`

	TokenSymmetricKey   string        `env:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration time.Duration `env:"ACCESS_TOKEN_DURATION" env-default:"24h"`

	CacheBackend  string `env:"CACHE_BACKEND" env-default:"memory"`
	RedisAddr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	MigrationsURL string `env:"MIGRATIONS_URL" env-default:"file://migrations"`
}

// LoadConfig loads the application configuration from environment variables.
func LoadConfig() (*Config, error) {
	c := &Config{}
	err := cleanenv.ReadEnv(c)
	return c, err
}
