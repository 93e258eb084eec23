package config

import (
	"flag"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	fsrepo "JournalVault/internal/cli/repo/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	BlobBackendDB = "db"
	BlobBackendS3 = "s3"

	StoreSQLite = "sqlite"
	StoreFS     = "fs"
)

type Config struct {
	// Server-side settings
	DatabaseDSN        string   `env:"DATABASE_URI"`
	APIKey             string   `env:"API_KEY"`
	BlobBackend        string   `env:"BLOB_BACKEND"`
	S3Bucket           string   `env:"S3_BUCKET"`
	S3Endpoint         string   `env:"S3_ENDPOINT"`
	S3Region           string   `env:"S3_REGION"`
	S3AccessKey        string   `env:"S3_ACCESS_KEY"`
	S3SecretKey        string   `env:"S3_SECRET_KEY"`
	MaxPayloadMB       int      `env:"MAX_PAYLOAD_MB"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE"`
	RateLimitPerHour   int      `env:"RATE_LIMIT_PER_HOUR"`
	TrustProxy         bool     `env:"TRUST_PROXY"` // брать IP клиента из X-Forwarded-For / X-Real-IP
	AllowedOrigins     []string `env:"CORS_ORIGINS" envSeparator:","`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	LogLevel    string `env:"LOG_LEVEL"`

	// Client-side settings
	ServerURL    string        `env:"-"`
	SyncURL      string        `env:"SYNC_URL"`
	ClientAPIKey string        `env:"CLIENT_API_KEY"`
	ClientDBPath string        `env:"CLIENT_DB_PATH"`
	ClientStore  string        `env:"CLIENT_STORE"`
	SyncDebounce time.Duration `env:"SYNC_DEBOUNCE"`
	HTTPTimeout  time.Duration `env:"HTTP_TIMEOUT"`
	Offline      bool          `env:"OFFLINE"`
	LogFile      string        `env:"LOG_FILE"`
	Version      bool          `env:"-"` // show client version and exit (flag only)
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]*:\d{1,5}$`)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres DSN или путь к файлу SQLite)")
	flag.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "ключ API, который сервер требует в X-API-Key")
	flag.StringVar(&cfg.BlobBackend, "blob-backend", cfg.BlobBackend, "хранилище блобов: db или s3")
	flag.IntVar(&cfg.MaxPayloadMB, "max-payload-mb", cfg.MaxPayloadMB, "максимальный размер блоба, МБ")
	flag.IntVar(&cfg.RateLimitPerMinute, "rate-limit", cfg.RateLimitPerMinute, "запросов в минуту с одного IP")
	flag.IntVar(&cfg.RateLimitPerHour, "rate-limit-hour", cfg.RateLimitPerHour, "запросов в час с одного IP")
	flag.BoolVar(&cfg.TrustProxy, "trust-proxy", cfg.TrustProxy, "доверять X-Forwarded-For (только за своим reverse proxy)")
	// Shared flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the relay server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	// Client flags
	flag.StringVar(&cfg.SyncURL, "sync-url", cfg.SyncURL, "full URL of the relay (overrides base-url for the client)")
	flag.StringVar(&cfg.ClientAPIKey, "client-api-key", cfg.ClientAPIKey, "API key sent to the relay (client)")
	flag.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "path to client SQLite DB")
	flag.StringVar(&cfg.ClientStore, "store", cfg.ClientStore, "client storage: sqlite or fs")
	flag.DurationVar(&cfg.SyncDebounce, "debounce", cfg.SyncDebounce, "pause before uploading changes")
	flag.DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "relay request timeout")
	flag.BoolVar(&cfg.Offline, "offline", cfg.Offline, "never contact the relay")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "client log file")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "journalvault.db"
	}
	if cfg.BlobBackend != BlobBackendS3 {
		cfg.BlobBackend = BlobBackendDB
	}
	if cfg.S3Region == "" {
		cfg.S3Region = "auto"
	}
	if cfg.MaxPayloadMB <= 0 {
		cfg.MaxPayloadMB = 10
	}
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = 10
	}
	if cfg.RateLimitPerHour <= 0 {
		cfg.RateLimitPerHour = 100
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	switch {
	case cfg.SyncURL != "":
		cfg.ServerURL = strings.TrimRight(cfg.SyncURL, "/")
	case cfg.EnableHTTPS:
		cfg.ServerURL = "https://" + cfg.BaseURL
	default:
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	// Fill client defaults if empty
	if cfg.ClientStore != StoreFS {
		cfg.ClientStore = StoreSQLite
	}
	if cfg.SyncDebounce <= 0 {
		cfg.SyncDebounce = 5 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}
	if cfg.LogFile == "" {
		if dir, err := fsrepo.ConfigDir(); err == nil {
			cfg.LogFile = filepath.Join(dir, "jvcli.log")
		}
	}
}

// MaxPayloadBytes: лимит тела запроса в байтах.
func (cfg *Config) MaxPayloadBytes() int64 {
	return int64(cfg.MaxPayloadMB) << 20
}
