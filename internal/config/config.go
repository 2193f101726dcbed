package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `validate:"required,oneof=development stage production"`
	Http Http

	Cors CORS `validate:"required"`

	Postgres Postgres `validate:"required"`

	Razorpay  Razorpay  `validate:"required"`
	Delhivery Delhivery `validate:"required"`

	JWT JWT `validate:"required"`

	// Kafka is optional: with no brokers configured the status-event
	// publisher is disabled.
	Kafka Kafka
}

type Http struct {
	Host string `validate:"required,hostname|ip"`
	Port string `validate:"required,gt=0,lte=65535"`
}

type CORS struct {
	AllowedOrigins []string `validate:"required,min=1"`
}

type Postgres struct {
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"required,gt=0,lte=65535"`
	DBName   string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`

	SSLMode string `validate:"required,oneof=disable require verify-ca verify-full"`

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
}

type Razorpay struct {
	BaseURL   string `validate:"required,url"`
	KeyID     string `validate:"required"`
	KeySecret string `validate:"required"`
}

type Delhivery struct {
	BaseURL string `validate:"required,url"`
	Token   string `validate:"required"`

	// Warehouse registered with the carrier, sent on every manifest.
	PickupLocation string `validate:"required"`
	OriginAddress  string `validate:"required"`
	OriginCity     string `validate:"required"`
	OriginPincode  string `validate:"required,len=6,numeric"`
	OriginPhone    string `validate:"required"`

	// TrackTimeout bounds the waybill-fetch call; it must fail fast
	// instead of hanging.
	TrackTimeout time.Duration `validate:"gt=0"`

	// FallbackRate is returned whenever a live rate cannot be computed.
	FallbackRate float64 `validate:"gt=0"`
}

type JWT struct {
	Secret string        `validate:"required"`
	TTL    time.Duration `validate:"gt=0"`
}

type Kafka struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration `validate:"gte=0"`
}

func New() Config {
	return Config{
		Env: env("ENV", "development"),

		Http: Http{
			Host: env("HOST", "localhost"),
			Port: env("PORT", "8080"),
		},

		Cors: CORS{
			AllowedOrigins: strings.Split(env("ALLOWED_CORS_ORIGINS", "*"), ","),
		},

		Postgres: Postgres{
			Port:     envInt("POSTGRES_PORT", 5432),
			Host:     env("POSTGRES_HOST", "localhost"),
			DBName:   env("POSTGRES_DB", "checkout"),
			User:     env("POSTGRES_USER", ""),
			Password: env("POSTGRES_PASSWORD", ""),

			SSLMode: env("POSTGRES_SSL_MODE", "disable"),

			MaxOpenConns:    envInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Razorpay: Razorpay{
			BaseURL:   env("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
			KeyID:     env("RAZORPAY_KEY_ID", ""),
			KeySecret: env("RAZORPAY_KEY_SECRET", ""),
		},

		Delhivery: Delhivery{
			BaseURL: env("DELHIVERY_BASE_URL", "https://track.delhivery.com"),
			Token:   env("DELHIVERY_API_TOKEN", ""),

			PickupLocation: env("DELHIVERY_PICKUP_LOCATION", ""),
			OriginAddress:  env("DELHIVERY_ORIGIN_ADDRESS", ""),
			OriginCity:     env("DELHIVERY_ORIGIN_CITY", "Bangalore"),
			OriginPincode:  env("DELHIVERY_ORIGIN_PINCODE", "560001"),
			OriginPhone:    env("DELHIVERY_ORIGIN_PHONE", ""),

			TrackTimeout: envDuration("DELHIVERY_TRACK_TIMEOUT", 5*time.Second),
			FallbackRate: envFloat("SHIPPING_FALLBACK_RATE", 150),
		},

		JWT: JWT{
			Secret: env("JWT_SECRET", ""),
			TTL:    envDuration("JWT_TTL", 24*time.Hour),
		},

		Kafka: Kafka{
			Brokers:      splitNonEmpty(env("KAFKA_BROKERS", "")),
			Topic:        env("KAFKA_TOPIC", "order-status"),
			BatchTimeout: envDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
