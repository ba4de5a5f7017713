package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Database хранит параметры подключения к БД.
// Передаётся в клиент БД явно, без литералов в коде.
type Database struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"usuarios"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// URL, если задан, имеет приоритет над полями выше.
	URL string `env:"DATABASE_URL"`
}

// Бэкенды хранилища учётных записей.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

var (
	ErrMissingCredentials = errors.New("DB_USER and DB_PASSWORD are required when DATABASE_URL is empty")
	ErrUnknownStorage     = errors.New("unknown STORAGE_BACKEND")
)

// Validate проверяет, что подключение к БД можно собрать.
func (d Database) Validate() error {
	if d.URL != "" {
		return nil
	}
	if d.User == "" || d.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// DSN собирает строку подключения postgres://.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

// Redacted возвращает DSN без пароля, пригодный для логов.
func (d Database) Redacted() string {
	u, err := url.Parse(d.DSN())
	if err != nil {
		return "invalid dsn"
	}
	return u.Redacted()
}

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	Database   Database
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	// memory — без БД, записи живут до перезапуска процесса.
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"postgres"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Пустой RABBITMQ_URL отключает публикацию событий регистрации.
	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"account_registered_queue"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}

	switch cfg.StorageBackend {
	case StoragePostgres:
		if err := cfg.Database.Validate(); err != nil {
			return nil, err
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, cfg.StorageBackend)
	}

	return &cfg, nil
}
