package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application.
// It is loaded once at startup from environment variables and never mutated afterwards.
type Config struct {
	Server   ServerConfig
	Twilio   TwilioConfig
	Brevo    BrevoConfig
	Stripe   StripeConfig
	Shop     ShopConfig
	Notify   NotifyConfig
	Broker   BrokerConfig
	Dedup    DedupConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	AllowedOrigins  []string
}

// TwilioConfig is the instant-message provider account.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string // operator number
	BaseURL    string
}

// Configured reports whether every credential needed to send a message is present.
func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != "" && c.To != ""
}

// BrevoConfig is the transactional email provider account.
type BrevoConfig struct {
	APIKey        string
	SenderEmail   string
	SenderName    string
	OperatorEmail string
	BaseURL       string
}

func (c BrevoConfig) Configured() bool {
	return c.APIKey != "" && c.SenderEmail != ""
}

type StripeConfig struct {
	SecretKey        string
	WebhookSecret    string
	WebhookTolerance time.Duration
	DeliveryFeeLabel string
}

// ShopConfig carries the restaurant details printed in notifications.
type ShopConfig struct {
	Name    string
	Address string
	Phone   string
}

type NotifyConfig struct {
	Timeout time.Duration
}

type BrokerConfig struct {
	URL   string
	Queue string
}

type DedupConfig struct {
	RedisAddr string
	TTL       time.Duration
	Capacity  uint
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 30),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			AllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Twilio: TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			From:       getEnv("TWILIO_WHATSAPP_FROM", ""),
			To:         getEnv("RESTAURANT_WHATSAPP_NUMBER", ""),
			BaseURL:    getEnv("TWILIO_API_URL", "https://api.twilio.com"),
		},
		Brevo: BrevoConfig{
			APIKey:        getEnv("BREVO_API_KEY", ""),
			SenderEmail:   getEnv("BREVO_SENDER_EMAIL", ""),
			SenderName:    getEnv("BREVO_SENDER_NAME", "DWICH62"),
			OperatorEmail: getEnv("RESTAURANT_EMAIL", ""),
			BaseURL:       getEnv("BREVO_API_URL", "https://api.brevo.com"),
		},
		Stripe: StripeConfig{
			SecretKey:        getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:    getEnv("STRIPE_WEBHOOK_SECRET", ""),
			WebhookTolerance: time.Duration(getEnvAsInt("WEBHOOK_TOLERANCE_SECONDS", 300)) * time.Second,
			DeliveryFeeLabel: getEnv("DELIVERY_FEE_LABEL", "Livraison à domicile"),
		},
		Shop: ShopConfig{
			Name:    getEnv("SHOP_NAME", "DWICH62"),
			Address: getEnv("SHOP_ADDRESS", "135 Ter Rue Jules Guesde, 62800 Liévin"),
			Phone:   getEnv("SHOP_PHONE", "07 67 46 95 02"),
		},
		Notify: NotifyConfig{
			Timeout: time.Duration(getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Broker: BrokerConfig{
			URL:   getEnv("AMQP_URL", ""),
			Queue: getEnv("AMQP_QUEUE", "order.notified"),
		},
		Dedup: DedupConfig{
			RedisAddr: getEnv("REDIS_ADDR", ""),
			TTL:       time.Duration(getEnvAsInt("DEDUP_TTL_MINUTES", 72*60)) * time.Minute,
			Capacity:  uint(getEnvAsInt("DEDUP_CAPACITY", 100000)),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
// Missing provider credentials are not an error: the matching channel is skipped at send time.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Notify.Timeout <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT_SECONDS must be positive")
	}

	if c.Stripe.WebhookTolerance <= 0 {
		return fmt.Errorf("WEBHOOK_TOLERANCE_SECONDS must be positive")
	}

	if c.Dedup.Capacity == 0 {
		return fmt.Errorf("DEDUP_CAPACITY must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
