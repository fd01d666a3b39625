package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"hr-console/internal/apiclient"
	"hr-console/internal/audit"

	"github.com/joho/godotenv"
)

const (
	defaultPort           = "3000"
	defaultCORSOrigin     = "http://localhost:3000"
	defaultSearchDebounce = 300 * time.Millisecond
)

type Config struct {
	APIBaseURL     string
	APITimeout     time.Duration
	Port           string
	RedisAddr      string
	KafkaBrokers   []string
	CORSOrigins    []string
	SearchDebounce time.Duration
}

// Load reads .env files (when present) and then the environment. Invalid durations fail
// fast.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		APIBaseURL:     apiclient.DefaultBaseURL,
		APITimeout:     apiclient.DefaultTimeout,
		Port:           defaultPort,
		CORSOrigins:    []string{defaultCORSOrigin},
		SearchDebounce: defaultSearchDebounce,
	}

	if v := os.Getenv("HR_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("HR_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid HR_API_TIMEOUT %q", v)
		}
		cfg.APITimeout = d
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.KafkaBrokers = audit.ParseBrokers(os.Getenv("KAFKA_BROKERS"))
	if origins := splitList(os.Getenv("CORS_ORIGINS")); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}
	if v := os.Getenv("SEARCH_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("invalid SEARCH_DEBOUNCE %q", v)
		}
		cfg.SearchDebounce = d
	}

	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
