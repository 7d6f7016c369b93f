package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	SessionBackendCookie = "cookie"
	SessionBackendRedis  = "redis"

	MailTransportLog  = "log"
	MailTransportSMTP = "smtp"
	MailTransportAMQP = "amqp"
)

type (
	APP struct {
		Name       string `default:"inventoryauth"`
		Host       string `default:"localhost"`
		Port       string `default:"8080"`
		Env        string `default:"debug"`
		BaseURL    string `split_words:"true" default:"http://localhost:8080"`
		LoginURL   string `split_words:"true" default:"/login"`
		LandingURL string `split_words:"true" default:"/"`
	}
	DB struct {
		User     string
		Password string
		Name     string `envconfig:"DB"`
		Host     string
		Port     string `default:"5432"`
		Migrate  bool   `default:"true"`
	}
	Session struct {
		Backend    string        `default:"cookie"`
		CookieName string        `split_words:"true" default:"inventario_session"`
		Secret     string
		TTL        time.Duration `default:"24h"`
		Secure     bool          `default:"false"`
	}
	Redis struct {
		Addr     string `default:"127.0.0.1:6379"`
		Password string
		DB       int    `default:"0"`
	}
	Mail struct {
		Transport string `default:"log"`
		From      string `default:"noreply@gestorinventario.com"`
	}
	SMTP struct {
		Host     string `default:"127.0.0.1"`
		Port     int    `default:"1025"`
		User     string
		Password string
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string `split_words:"true" default:"5672"`
		Exchange     string `default:"inventory.mail"`
		ExchangeType string `split_words:"true" default:"direct"`
		QueueName    string `split_words:"true" default:"inventory.mail.outbox"`
	}
	Auth struct {
		AdminRoleID int64 `split_words:"true" default:"1"`
	}

	Config struct {
		App     APP     `envconfig:"SERVICE"`
		DB      DB      `envconfig:"POSTGRES"`
		Session Session `envconfig:"SESSION"`
		Redis   Redis   `envconfig:"REDIS"`
		Mail    Mail    `envconfig:"MAIL"`
		SMTP    SMTP    `envconfig:"SMTP"`
		MQ      MQ      `envconfig:"RABBITMQ"`
		Auth    Auth    `envconfig:"AUTH"`
	}
)

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Session.Backend {
	case SessionBackendCookie:
		if c.Session.Secret == "" {
			return fmt.Errorf("SESSION_SECRET is required for the cookie session backend")
		}
	case SessionBackendRedis:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}

	switch c.Mail.Transport {
	case MailTransportLog, MailTransportSMTP, MailTransportAMQP:
	default:
		return fmt.Errorf("unknown mail transport %q", c.Mail.Transport)
	}

	if c.Auth.AdminRoleID <= 0 {
		return fmt.Errorf("AUTH_ADMIN_ROLE_ID must be positive")
	}

	return nil
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

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

// ResetPasswordURL is the page the recovery email links to.
func (c Config) ResetPasswordURL() string {
	return strings.TrimRight(c.App.BaseURL, "/") + "/reset_password.php"
}

func (c Config) SMTPAddr() string {
	return fmt.Sprintf("%s:%d", c.SMTP.Host, c.SMTP.Port)
}
