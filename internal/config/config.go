package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerAddr string `mapstructure:"SERVER_ADDR"`
	GinMode    string `mapstructure:"GIN_MODE"`

	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	SeedDemoData   bool   `mapstructure:"SEED_DEMO_DATA"`

	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	JWTIssuer   string        `mapstructure:"JWT_ISSUER"`
	JWTAudience string        `mapstructure:"JWT_AUDIENCE"`
	JWTTTL      time.Duration `mapstructure:"JWT_TTL"`

	AuthUsersFile             string `mapstructure:"AUTH_USERS_FILE"`
	AuthAllowPlaceholderLogin bool   `mapstructure:"AUTH_ALLOW_PLACEHOLDER_LOGIN"`

	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogFormat     string `mapstructure:"LOG_FORMAT"`
	LogFile       string `mapstructure:"LOG_FILE"`
	LogMaxSizeMB  int    `mapstructure:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `mapstructure:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays int    `mapstructure:"LOG_MAX_AGE_DAYS"`

	SentryDSN string `mapstructure:"SENTRY_DSN"`
}

var defaults = map[string]interface{}{
	"SERVER_ADDR":                  ":8080",
	"GIN_MODE":                     "release",
	"DATABASE_DRIVER":              "postgres",
	"DATABASE_URL":                 "",
	"SEED_DEMO_DATA":               false,
	"JWT_SECRET":                   "",
	"JWT_ISSUER":                   "playnote",
	"JWT_AUDIENCE":                 "playnote-api",
	"JWT_TTL":                      time.Hour,
	"AUTH_USERS_FILE":              "",
	"AUTH_ALLOW_PLACEHOLDER_LOGIN": false,
	"LOG_LEVEL":                    "info",
	"LOG_FORMAT":                   "console",
	"LOG_FILE":                     "logs/playnote.log",
	"LOG_MAX_SIZE_MB":              50,
	"LOG_MAX_BACKUPS":              7,
	"LOG_MAX_AGE_DAYS":             30,
	"SENTRY_DSN":                   "",
}

// Load reads the configuration from a .env file (searched in paths, or the
// working directory) and from environment variables, which take precedence.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// Unmarshal only sees environment values for keys viper already knows.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))

	return &cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var problems []string
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("DATABASE_DRIVER %q is not supported", c.DatabaseDriver))
	}
	if c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	if c.JWTTTL <= 0 {
		problems = append(problems, "JWT_TTL must be positive")
	}
	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}
