package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"go.uber.org/config"
)

// Config holds the application configuration
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Admin    AdminConfig    `yaml:"admin"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Notify   NotifyConfig   `yaml:"notify"`
	NATS     NATSConfig     `yaml:"nats"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
	Export   ExportConfig   `yaml:"export"`
	Event    EventConfig    `yaml:"event"`
	Logging  LoggingConfig  `yaml:"logging"`
	Timezone string         `yaml:"timezone"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	StaticDir       string        `yaml:"static_dir"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type AdminConfig struct {
	Password string `yaml:"password"`
}

type SMTPConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Recipient string `yaml:"recipient"`
}

type NotifyConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

type WhatsAppConfig struct {
	Enabled        bool   `yaml:"enabled"`
	DataDir        string `yaml:"data_dir"`
	OrganizerPhone string `yaml:"organizer_phone"`
	CountryCode    string `yaml:"country_code"`
}

type ExportConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// EventConfig describes the event shown on pages and in notifications.
type EventConfig struct {
	Title string `yaml:"title"`
	When  string `yaml:"when"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8000",
			StaticDir:       "static",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{URL: "sqlite://./confirmacoes.db"},
		Admin:    AdminConfig{Password: "admin123"},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Notify: NotifyConfig{Timeout: 10 * time.Second},
		NATS:   NATSConfig{Subject: "rsvp.confirmation.created"},
		WhatsApp: WhatsAppConfig{
			DataDir:     "data",
			CountryCode: "55",
		},
		Export: ExportConfig{S3: S3Config{Region: "us-east-1"}},
		Event: EventConfig{
			Title: "Chá de Casa Nova - Manu e Gabriel",
			When:  "10 de Janeiro de 2026 | 13h",
		},
		Logging:  LoggingConfig{Level: "info", Format: "json"},
		Timezone: "America/Sao_Paulo",
	}
}

// Load builds the configuration from defaults, an optional YAML file
// (CONFIG_PATH, default ./config/base.yaml) and environment overrides.
func Load() (*Config, error) {
	return LoadFile(getEnv("CONFIG_PATH", "./config/base.yaml"))
}

// LoadFile is Load with an explicit file path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		provider, err := config.NewYAML(
			config.File(path),
			config.Expand(os.LookupEnv),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create config provider: %w", err)
		}
		if err := provider.Get(config.Root).Populate(&cfg); err != nil {
			return nil, fmt.Errorf("failed to populate config: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.overrideFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables if present
func (c *Config) overrideFromEnv() {
	if val := os.Getenv("HTTP_ADDR"); val != "" {
		c.HTTP.Addr = val
	}
	if val := os.Getenv("STATIC_DIR"); val != "" {
		c.HTTP.StaticDir = val
	}
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.Database.URL = val
	}
	if val := os.Getenv("ADMIN_PASSWORD"); val != "" {
		c.Admin.Password = val
	}
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.SMTP.Port = port
		}
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.SMTP.Username = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.SMTP.Password = val
	}
	if val := os.Getenv("EMAIL_DESTINATARIO"); val != "" {
		c.SMTP.Recipient = val
	}
	if val := os.Getenv("NOTIFY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.Notify.Timeout = d
		}
	}
	if val := os.Getenv("NATS_URL"); val != "" {
		c.NATS.URL = val
	}
	if val := os.Getenv("WHATSAPP_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.WhatsApp.Enabled = enabled
		}
	}
	if val := os.Getenv("WHATSAPP_DATA_DIR"); val != "" {
		c.WhatsApp.DataDir = val
	}
	if val := os.Getenv("WHATSAPP_ORGANIZER_PHONE"); val != "" {
		c.WhatsApp.OrganizerPhone = val
	}
	if val := os.Getenv("EXPORT_S3_BUCKET"); val != "" {
		c.Export.S3.Bucket = val
	}
	if val := os.Getenv("EXPORT_S3_PREFIX"); val != "" {
		c.Export.S3.Prefix = val
	}
	if val := os.Getenv("EXPORT_S3_REGION"); val != "" {
		c.Export.S3.Region = val
	}
	if val := os.Getenv("EXPORT_S3_ENDPOINT"); val != "" {
		c.Export.S3.Endpoint = val
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Logging.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Logging.Format = val
	}
	if val := os.Getenv("TIMEZONE"); val != "" {
		c.Timezone = val
	}
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database url is required")
	}
	if c.HTTP.Addr == "" {
		return errors.New("http addr is required")
	}
	if c.Notify.Timeout <= 0 {
		return fmt.Errorf("notify timeout must be positive, got %s", c.Notify.Timeout)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// Location resolves Timezone, falling back to the local zone when the zone
// database is unavailable.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
