package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type (
	APP struct {
		Name                       string
		Host                       string
		Port                       string
		Env                        string
		JWTSecret                  string
		JWTTTL                     time.Duration
		AllowAnonymousRegistration bool
		Storage                    string
	}
	// Seed is the administrator account created on first start.
	Seed struct {
		Login    string
		Password string
		Name     string
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}

	Config struct {
		App  APP
		Seed Seed
		DB   DB
		MQ   MQ
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, def.String()))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func Load() Config {
	app := APP{
		Name:                       getEnv("SERVICE_NAME", "atonwebapi"),
		Host:                       getEnv("SERVICE_HOST", ""),
		Port:                       getEnv("SERVICE_PORT", "8080"),
		Env:                        getEnv("SERVICE_ENV", ""),
		JWTSecret:                  getEnv("SERVICE_JWT_SECRET", ""),
		JWTTTL:                     getEnvDuration("SERVICE_JWT_TTL", time.Hour),
		AllowAnonymousRegistration: getEnvBool("SERVICE_ALLOW_ANONYMOUS_REGISTRATION", true),
		Storage:                    getEnv("SERVICE_STORAGE", StorageMemory),
	}
	seed := Seed{
		Login:    getEnv("SEED_ADMIN_LOGIN", "admin"),
		Password: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
		Name:     getEnv("SEED_ADMIN_NAME", "Администратор"),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", ""),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", ""),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "users"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "users.audit"),
	}

	return Config{
		App:  app,
		Seed: seed,
		DB:   db,
		MQ:   mq,
	}
}

func (c Config) IsDebug() bool {
	switch c.App.Env {
	case "", "debug", "dev", "development":
		return true
	}
	return false
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		url.QueryEscape(c.DB.User),
		url.QueryEscape(c.DB.Password),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

// MQEnabled reports whether a broker is configured.
func (c Config) MQEnabled() bool { return c.MQ.Host != "" }

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
