package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAPIURL   = "http://localhost:8000"
	DefaultTimeout  = 15 * time.Second
	DefaultRPS      = 4.0
	DefaultBurst    = 4
	DefaultCacheTTL = 5 * time.Minute
)

// Client holds the settings for talking to the trend backend
type Client struct {
	APIURL   string
	Timeout  time.Duration
	RPS      float64
	Burst    int
	CacheTTL time.Duration
	LogFile  string
}

// LoadClient reads client settings from the environment.
// Flags applied by the caller take precedence.
func LoadClient() Client {
	cfg := Client{
		APIURL:   String("KTREND_API_URL", DefaultAPIURL),
		Timeout:  Duration("KTREND_HTTP_TIMEOUT", DefaultTimeout),
		RPS:      Float("KTREND_RPS", DefaultRPS),
		Burst:    Int("KTREND_BURST", DefaultBurst),
		CacheTTL: Duration("KTREND_CACHE_TTL", DefaultCacheTTL),
		LogFile:  String("KTREND_LOG_FILE", ""),
	}
	return cfg.Normalize()
}

// Normalize replaces out-of-range values with defaults
func (c Client) Normalize() Client {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RPS <= 0 {
		c.RPS = DefaultRPS
	}
	if c.Burst <= 0 {
		c.Burst = DefaultBurst
	}
	if c.CacheTTL < 0 {
		c.CacheTTL = 0
	}
	return c
}

func String(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func CSV(key string) []string {
	return ParseCSV(os.Getenv(key))
}

func Bool(key string, fallback bool) bool {
	return ParseBool(os.Getenv(key), fallback)
}

func Int(key string, fallback int) int {
	return ParseInt(os.Getenv(key), fallback)
}

func Float(key string, fallback float64) float64 {
	return ParseFloat(os.Getenv(key), fallback)
}

func Duration(key string, fallback time.Duration) time.Duration {
	return ParseDuration(os.Getenv(key), fallback)
}

func ParseCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func ParseBool(raw string, fallback bool) bool {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func ParseInt(raw string, fallback int) int {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func ParseFloat(raw string, fallback float64) float64 {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return n
}

func ParseDuration(raw string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
