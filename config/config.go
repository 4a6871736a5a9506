package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Razorpay RazorpayConfig `yaml:"razorpay"`
	Amadeus  AmadeusConfig  `yaml:"amadeus"`
	Search   SearchConfig   `yaml:"search"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address     string   `yaml:"address"`
	SwaggerDir  string   `yaml:"swagger_dir"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type RazorpayConfig struct {
	KeyID     string `yaml:"key_id"`
	KeySecret string `yaml:"key_secret"`
	BaseURL   string `yaml:"base_url"`
	TestMode  bool   `yaml:"test_mode"`
}

type AmadeusConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	BaseURL      string `yaml:"base_url"`
}

type SearchConfig struct {
	OffersCacheTTLSeconds int `yaml:"offers_cache_ttl_seconds"`
}

type WorkerConfig struct {
	PaymentSweepMinutes      int `yaml:"payment_sweep_minutes"`
	PaymentPendingTTLMinutes int `yaml:"payment_pending_ttl_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	return &cfg, nil
}

// applyEnv lets secrets come from the environment instead of the config file.
func (c *Config) applyEnv() {
	overrideString(&c.Auth.JWTSecret, "JWT_SECRET")
	overrideString(&c.Razorpay.KeyID, "RAZORPAY_KEY_ID")
	overrideString(&c.Razorpay.KeySecret, "RAZORPAY_KEY_SECRET")
	overrideString(&c.Amadeus.ClientID, "AMADEUS_CLIENT_ID")
	overrideString(&c.Amadeus.ClientSecret, "AMADEUS_CLIENT_SECRET")
	overrideString(&c.Database.Password, "DATABASE_PASSWORD")
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
