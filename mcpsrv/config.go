package mcpsrv

import (
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/ktrend/config"
)

const (
	defaultPort  = "8080"
	defaultRPS   = 2
	defaultBurst = 5
)

type Config struct {
	Port               string
	AllowedOrigins     []string
	Stateless          bool
	EnableAdmin        bool
	APIKey             string
	RPS                float64
	Burst              int
	SessionTimeout     time.Duration
	CacheClearInterval time.Duration
	Debug              bool
	Client             config.Client
}

func LoadConfig() Config {
	cfg := Config{
		Port:               strings.TrimSpace(config.String("PORT", defaultPort)),
		AllowedOrigins:     config.CSV("KTREND_MCP_ALLOWED_ORIGINS"),
		Stateless:          config.Bool("KTREND_MCP_STATELESS", false),
		EnableAdmin:        config.Bool("KTREND_MCP_ENABLE_ADMIN", false),
		APIKey:             strings.TrimSpace(config.String("KTREND_MCP_API_KEY", "")),
		RPS:                config.Float("KTREND_MCP_RPS", defaultRPS),
		Burst:              config.Int("KTREND_MCP_BURST", defaultBurst),
		SessionTimeout:     config.Duration("KTREND_MCP_SESSION_TIMEOUT", 15*time.Minute),
		CacheClearInterval: config.Duration("KTREND_MCP_CACHE_CLEAR_INTERVAL", 30*time.Minute),
		Debug:              config.Bool("KTREND_MCP_DEBUG", false),
		Client:             config.LoadClient(),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}

	return cfg
}

// AdminEnabled reports whether admin tools may be registered. Admin tools
// are only exposed behind an API key.
func (c Config) AdminEnabled() bool {
	return c.EnableAdmin && c.APIKey != ""
}

func StreamableOptions(cfg Config) *mcp.StreamableHTTPOptions {
	return &mcp.StreamableHTTPOptions{
		Stateless:      cfg.Stateless,
		SessionTimeout: cfg.SessionTimeout,
	}
}
