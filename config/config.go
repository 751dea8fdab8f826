package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"delivery_marketplace/internal/logger"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Configuration holds the static settings the server needs to start.
type Configuration struct {
	InitMode              bool   `env:"INITMODE" envDefault:"false"` // seed the default order flow and settings
	Address               string `env:"ADDRESS" envDefault:":8080"`
	JwtSecret             string `env:"JWT_SECRET,required,notEmpty"`
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required,notEmpty"`
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required,notEmpty"`
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"` // comma separated, * = all
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"` // 0 disables
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// TLS
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogOutput string `env:"LOG_OUTPUT" envDefault:"stdout"`
	LogPath   string `env:"LOG_PATH" envDefault:"logs"`

	// Telegram forwarding. Without a token the delivery processor is not started.
	TelegramBotToken    string  `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAPIEndpoint string  `env:"TELEGRAM_API_ENDPOINT" envDefault:"https://api.telegram.org/bot%s/%s"`
	TelegramRatePerSec  float64 `env:"TELEGRAM_RATE_PER_SEC" envDefault:"25"`

	// Flow cache. With REDIS_ADDR empty the in-memory cache is used.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	FlowCacheTTL  time.Duration `env:"FLOW_CACHE_TTL" envDefault:"5m"`

	// Delivery processor
	DeliveryPollInterval    time.Duration `env:"DELIVERY_POLL_INTERVAL" envDefault:"5s"`
	DeliveryBatchSize       int           `env:"DELIVERY_BATCH_SIZE" envDefault:"10"`
	DeliveryMaxRetries      int           `env:"DELIVERY_MAX_RETRIES" envDefault:"3"`
	DeliveryConcurrency     int           `env:"DELIVERY_CONCURRENCY" envDefault:"5"`
	DeliveryStuckAfter      time.Duration `env:"DELIVERY_STUCK_AFTER" envDefault:"5m"`
	DeliveryFailedRetention time.Duration `env:"DELIVERY_FAILED_RETENTION" envDefault:"168h"`
	MaintenanceSchedule     string        `env:"DELIVERY_MAINTENANCE_SCHEDULE" envDefault:"@every 1m"`
}

// CORSOrigins splits CORS_ORIGINS into a list.
func (c *Configuration) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORS_Origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// TelegramEnabled reports whether a bot token is configured.
func (c *Configuration) TelegramEnabled() bool {
	return strings.TrimSpace(c.TelegramBotToken) != ""
}

// LogConfig maps the LOG_* settings onto the logger configuration.
func (c *Configuration) LogConfig() *logger.LogConfig {
	cfg := logger.DefaultConfig()
	cfg.Level = c.LogLevel
	cfg.Format = c.LogFormat
	cfg.Output = c.LogOutput
	cfg.LogPath = c.LogPath
	return cfg
}

// getEnvPath looks for config/env/<GO_ENV>.env walking up from the working directory.
func getEnvPath() string {
	name := os.Getenv("GO_ENV")
	if name == "" {
		name = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", name))
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// Load reads the env file (when present) and parses the environment.
// Variables already set in the process environment win over the file.
func Load() (*Configuration, error) {
	if envPath := getEnvPath(); envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envPath, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.EnableTLS && (cfg.TLSCertFile == "" || cfg.TLSKeyFile == "") {
		return nil, errors.New("ENABLE_TLS requires TLS_CERT_FILE and TLS_KEY_FILE")
	}
	return &cfg, nil
}

// NewConfig is Load for callers that only want a nil check.
func NewConfig() *Configuration {
	cfg, err := Load()
	if err != nil {
		// logger may not be initialized yet
		fmt.Printf("Failed to load config: %v\n", err)
		return nil
	}
	return cfg
}
