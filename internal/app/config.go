package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config represents the runtime configuration for the HyperSenta backend.
// It is loaded once during start-up and treated as read-only afterwards.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Messaging   MessagingConfig   `mapstructure:"messaging"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver   string       `mapstructure:"driver"`
	Path     string       `mapstructure:"path"`
	DSN      string       `mapstructure:"dsn"`
	Postgres DBAuthConfig `mapstructure:"postgres"`
	MySQL    DBAuthConfig `mapstructure:"mysql"`
}

// DBAuthConfig represents host based database parameters.
type DBAuthConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// AuthConfig captures authentication settings.
type AuthConfig struct {
	JWT       JWTSettings       `mapstructure:"jwt"`
	Bootstrap BootstrapSettings `mapstructure:"bootstrap"`
}

// BootstrapSettings identifies the initial superuser account seeded at
// start-up. Seeding is skipped when either field is empty.
type BootstrapSettings struct {
	SuperuserEmail    string `mapstructure:"superuser_email"`
	SuperuserPassword string `mapstructure:"superuser_password"`
}

// JWTSettings configures JWT access tokens.
type JWTSettings struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"access_token_ttl"`
}

// MessagingConfig carries provider credentials and sender identities for
// outbound SMS and email.
type MessagingConfig struct {
	Twilio   TwilioSettings   `mapstructure:"twilio"`
	SendGrid SendGridSettings `mapstructure:"sendgrid"`
	Mailgun  MailgunSettings  `mapstructure:"mailgun"`

	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

// TwilioSettings holds Twilio API credentials.
type TwilioSettings struct {
	AccountSID          string `mapstructure:"account_sid"`
	AuthToken           string `mapstructure:"auth_token"`
	MessagingServiceSID string `mapstructure:"messaging_service_sid"`
}

// SendGridSettings holds SendGrid API credentials.
type SendGridSettings struct {
	APIKey string `mapstructure:"api_key"`
}

// MailgunSettings holds Mailgun API credentials and base URL.
type MailgunSettings struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// MaintenanceConfig controls background cleanup of the outbound message log.
type MaintenanceConfig struct {
	MessageRetentionDays int    `mapstructure:"message_retention_days"`
	Schedule             string `mapstructure:"schedule"`
}

// MonitoringConfig enables health checks and metrics.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig toggles metrics endpoints.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// providerEnvAliases binds the conventional vendor environment variable names
// so operators can supply credentials without the config prefix.
var providerEnvAliases = map[string]string{
	"messaging.twilio.account_sid":           "TWILIO_ACCOUNT_SID",
	"messaging.twilio.auth_token":            "TWILIO_AUTH_TOKEN",
	"messaging.twilio.messaging_service_sid": "TWILIO_MESSAGING_SERVICE_SID",
	"messaging.sendgrid.api_key":             "SENDGRID_API_KEY",
	"messaging.mailgun.api_key":              "MAILGUN_API_KEY",
	"messaging.mailgun.base_url":             "MAILGUN_BASE_URL",
	"messaging.from_email":                   "EMAILS_FROM_EMAIL",
	"messaging.from_name":                    "EMAILS_FROM_NAME",
	"auth.bootstrap.superuser_email":         "FIRST_SUPERUSER",
	"auth.bootstrap.superuser_password":      "FIRST_SUPERUSER_PASSWORD",
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("HYPERSENTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, alias := range providerEnvAliases {
		prefixed := "HYPERSENTA_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, alias); err != nil {
			return nil, fmt.Errorf("config: bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/hypersenta.sqlite")

	v.SetDefault("auth.jwt.issuer", "hypersenta")
	v.SetDefault("auth.jwt.access_token_ttl", "15m")

	v.SetDefault("messaging.mailgun.base_url", "")
	v.SetDefault("messaging.from_email", "")
	v.SetDefault("messaging.from_name", "")

	v.SetDefault("maintenance.message_retention_days", 90)
	v.SetDefault("maintenance.schedule", "@daily")

	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.prometheus.endpoint", "/metrics")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
