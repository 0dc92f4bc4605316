package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`
	API     APIConfig     `yaml:"api" envPrefix:"API_"`
	Session SessionConfig `yaml:"session" envPrefix:"SESSION_"`
	Booking BookingConfig `yaml:"booking" envPrefix:"BOOKING_"`
	Redis   RedisConfig   `yaml:"redis" envPrefix:"REDIS_"`
	Kafka   KafkaConfig   `yaml:"kafka" envPrefix:"KAFKA_"`
	Sandbox SandboxConfig `yaml:"sandbox" envPrefix:"SANDBOX_"`
}

type LogConfig struct {
	Env   string `yaml:"env" env:"ENV"`
	Level string `yaml:"level" env:"LEVEL"`
}

type APIConfig struct {
	BaseURL        string  `yaml:"base_url" env:"BASE_URL"`
	TimeoutSeconds int     `yaml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	RatePerSecond  float64 `yaml:"rate_per_second" env:"RATE_PER_SECOND"`
	RateBurst      int     `yaml:"rate_burst" env:"RATE_BURST"`
}

func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type SessionConfig struct {
	// Store is one of "file", "redis" or "memory".
	Store     string `yaml:"store" env:"STORE"`
	TokenFile string `yaml:"token_file" env:"TOKEN_FILE"`
	TokenKey  string `yaml:"token_key" env:"TOKEN_KEY"`
}

// BookingConfig keeps TaxRate and ServiceFee as pointers so an explicit 0
// is kept and only a missing value gets the default.
type BookingConfig struct {
	TaxRate         *float64 `yaml:"tax_rate" env:"TAX_RATE"`
	ServiceFee      *float64 `yaml:"service_fee" env:"SERVICE_FEE"`
	HandoffDelayMs  int      `yaml:"handoff_delay_ms" env:"HANDOFF_DELAY_MS"`
	HotelCacheTTL   int      `yaml:"hotel_cache_ttl_seconds" env:"HOTEL_CACHE_TTL_SECONDS"`
	SubmitTimeoutMs int      `yaml:"submit_timeout_ms" env:"SUBMIT_TIMEOUT_MS"`
}

func (b BookingConfig) Tax() float64 { return valueOr(b.TaxRate, defaultTaxRate) }

func (b BookingConfig) Fee() float64 { return valueOr(b.ServiceFee, defaultServiceFee) }

const (
	defaultTaxRate    = 0.10
	defaultServiceFee = 25.0
)

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func (b BookingConfig) HandoffDelay() time.Duration {
	return time.Duration(b.HandoffDelayMs) * time.Millisecond
}

func (b BookingConfig) HotelCacheTTLDuration() time.Duration {
	return time.Duration(b.HotelCacheTTL) * time.Second
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
}

func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type KafkaConfig struct {
	Brokers     []string `yaml:"brokers" env:"BROKERS" envSeparator:","`
	EventsTopic string   `yaml:"events_topic" env:"EVENTS_TOPIC"`
	GroupID     string   `yaml:"group_id" env:"GROUP_ID"`
}

func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 && k.EventsTopic != "" }

type SandboxConfig struct {
	Address           string      `yaml:"address" env:"ADDRESS"`
	JWTSecret         string      `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTLMinutes   int         `yaml:"token_ttl_minutes" env:"TOKEN_TTL_MINUTES"`
	BcryptCost        int         `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
	AllowedOrigins    []string    `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	RequestsPerMinute int         `yaml:"requests_per_minute" env:"REQUESTS_PER_MINUTE"`
	SwaggerDir        string      `yaml:"swagger_dir" env:"SWAGGER_DIR"`
	Users             []SeedUser  `yaml:"users"`
	Hotels            []SeedHotel `yaml:"hotels"`
}

func (s SandboxConfig) TokenTTL() time.Duration {
	return time.Duration(s.TokenTTLMinutes) * time.Minute
}

type SeedUser struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	Role      string `yaml:"role"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Phone     string `yaml:"phone"`
}

type SeedHotel struct {
	ID      string     `yaml:"id"`
	Name    string     `yaml:"name"`
	City    string     `yaml:"city"`
	Address string     `yaml:"address"`
	Rating  float64    `yaml:"rating"`
	Rooms   []SeedRoom `yaml:"rooms"`
}

type SeedRoom struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Type      string  `yaml:"type"`
	Capacity  int     `yaml:"capacity"`
	Available int     `yaml:"available"`
	BasePrice float64 `yaml:"base_price"`
	Price     float64 `yaml:"price"`
}

// LoadConfig reads a yaml file, applies PORTAL_* environment overrides and
// fills unset values with defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "PORTAL_"}); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns a configuration populated only with defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	if c.Log.Env == "" {
		c.Log.Env = "development"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8080"
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 15
	}
	if c.Session.Store == "" {
		c.Session.Store = "file"
	}
	if c.Session.TokenKey == "" {
		c.Session.TokenKey = "token"
	}
	if c.Session.TokenFile == "" {
		c.Session.TokenFile = defaultTokenFile()
	}
	if c.Booking.TaxRate == nil {
		tax := defaultTaxRate
		c.Booking.TaxRate = &tax
	}
	if c.Booking.ServiceFee == nil {
		fee := defaultServiceFee
		c.Booking.ServiceFee = &fee
	}
	if c.Booking.HandoffDelayMs == 0 {
		c.Booking.HandoffDelayMs = 3000
	}
	if c.Booking.HotelCacheTTL == 0 {
		c.Booking.HotelCacheTTL = 60
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "portal-notifications"
	}
	if c.Sandbox.Address == "" {
		c.Sandbox.Address = ":8080"
	}
	if c.Sandbox.JWTSecret == "" {
		c.Sandbox.JWTSecret = "sandbox-secret"
	}
	if c.Sandbox.TokenTTLMinutes == 0 {
		c.Sandbox.TokenTTLMinutes = 60
	}
	if c.Sandbox.BcryptCost == 0 {
		c.Sandbox.BcryptCost = 10
	}
	if c.Sandbox.RequestsPerMinute == 0 {
		c.Sandbox.RequestsPerMinute = 600
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".hotelportal-token.json"
	}
	return dir + string(os.PathSeparator) + "hotelportal" + string(os.PathSeparator) + "session.json"
}
