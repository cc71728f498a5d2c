package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"hotel-reservations/internal/domain/pricing"

	"gopkg.in/yaml.v3"
)

// Config se arma desde variables de entorno; la tabla de hoteles puede venir de un YAML.
type Config struct {
	Port    string
	DBDSN   string
	Log     Log
	Auth    Auth
	Email   Email
	Broker  Broker
	Voucher Voucher

	HotelsFile string
	Hotels     []pricing.Hotel
}

type Log struct {
	Level  string
	Format string
	App    string
}

// Auth apunta al backend de auth hospedado. Sin URL => modo dev (X-Debug-User-ID).
type Auth struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Email: sin APIKey el envío queda en modo demo.
type Email struct {
	APIURL          string
	APIKey          string
	From            string
	OperationsEmail string
}

type Broker struct {
	URL      string
	Exchange string
}

type Voucher struct {
	LogoLeft  string
	LogoRight string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		DBDSN: strings.TrimSpace(os.Getenv("DB_DSN")),
		Log: Log{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
			App:    getEnv("APP_NAME", "hotel-reservations"),
		},
		Auth: Auth{
			URL:     strings.TrimSpace(os.Getenv("SUPABASE_URL")),
			APIKey:  strings.TrimSpace(os.Getenv("SUPABASE_ANON_KEY")),
			Timeout: 5 * time.Second,
		},
		Email: Email{
			APIURL:          getEnv("EMAIL_API_URL", "https://api.resend.com"),
			APIKey:          strings.TrimSpace(os.Getenv("EMAIL_API_KEY")),
			From:            getEnv("EMAIL_FROM", "Reservas <reservas@example.com>"),
			OperationsEmail: getEnv("OPERATIONS_EMAIL", "operaciones@example.com"),
		},
		Broker: Broker{
			URL:      strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "reservations.events"),
		},
		Voucher: Voucher{
			LogoLeft:  strings.TrimSpace(os.Getenv("LOGO_LEFT")),
			LogoRight: strings.TrimSpace(os.Getenv("LOGO_RIGHT")),
		},
		HotelsFile: strings.TrimSpace(os.Getenv("HOTELS_FILE")),
	}

	if cfg.HotelsFile != "" {
		hotels, err := LoadHotels(cfg.HotelsFile)
		if err != nil {
			return nil, err
		}
		cfg.Hotels = hotels
	}

	return cfg, nil
}

type hotelsFile struct {
	Hotels []pricing.Hotel `yaml:"hotels"`
}

// LoadHotels lee la tabla de tarifas:
//
//	hotels:
//	  - key: ilar-74
//	    name: Ilar 74
//	    city: Bogotá
//	    rate: 133256
func LoadHotels(path string) ([]pricing.Hotel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hotels file: %w", err)
	}
	return ParseHotels(data)
}

func ParseHotels(data []byte) ([]pricing.Hotel, error) {
	var f hotelsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse hotels file: %w", err)
	}
	if len(f.Hotels) == 0 {
		return nil, fmt.Errorf("hotels file has no hotels")
	}

	seen := map[string]struct{}{}
	for i, h := range f.Hotels {
		if strings.TrimSpace(h.Key) == "" || strings.TrimSpace(h.Name) == "" {
			return nil, fmt.Errorf("hotel #%d: key and name are required", i+1)
		}
		if h.Rate <= 0 {
			return nil, fmt.Errorf("hotel %q: rate must be positive", h.Key)
		}
		if _, dup := seen[h.Key]; dup {
			return nil, fmt.Errorf("hotel %q: duplicated key", h.Key)
		}
		seen[h.Key] = struct{}{}
	}
	return f.Hotels, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
