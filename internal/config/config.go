package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Skotchmaster/inventory/internal/kv"
)

const configFileEnvName = "INVENTORY_CONFIG"

type Config struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	JWTSecret    string `mapstructure:"jwt_secret"`
	CookieSecure bool   `mapstructure:"cookie_secure"`

	StoreDriver string `mapstructure:"store_driver"`
	DataDir     string `mapstructure:"data_dir"`
	DatabaseURL string `mapstructure:"database_url"`

	CORSOrigins  []string `mapstructure:"cors_origins"`
	StaticDir    string   `mapstructure:"static_dir"`
	KafkaBrokers []string `mapstructure:"kafka_brokers"`

	LoginRatePerSec float64 `mapstructure:"login_rate_per_sec"`
	LoginBurst      int     `mapstructure:"login_burst"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
	AdminEmail    string `mapstructure:"admin_email"`
}

var defaults = map[string]any{
	"port":               3000,
	"log_level":          "info",
	"jwt_secret":         "",
	"cookie_secure":      false,
	"store_driver":       kv.DriverLevelDB,
	"data_dir":           "data",
	"database_url":       "",
	"cors_origins":       "",
	"static_dir":         "",
	"kafka_brokers":      "",
	"login_rate_per_sec": 1.0,
	"login_burst":        10,
	"shutdown_timeout":   "10s",
	"admin_username":     "admin",
	"admin_password":     "",
	"admin_email":        "admin@example.com",
}

// Load reads .env, then the optional YAML file named by --config or
// INVENTORY_CONFIG. Environment variables win over the file.
func Load(args []string) (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: could not load .env: %v", err)
	}

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if path := configFilepath(args); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.CORSOrigins = CSV(strings.Join(cfg.CORSOrigins, ","))
	cfg.KafkaBrokers = CSV(strings.Join(cfg.KafkaBrokers, ","))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func configFilepath(args []string) string {
	fs := pflag.NewFlagSet("inventory", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	arg := fs.String("config", "", "YAML config file")
	_ = fs.Parse(args)

	if env, ok := os.LookupEnv(configFileEnvName); ok && env != "" {
		return env
	}
	return *arg
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case kv.DriverLevelDB, kv.DriverSQLite:
	case kv.DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	return nil
}

// StoreOptions derives the kv options. sqlite defaults to a file in DataDir.
func (c Config) StoreOptions() kv.Options {
	dsn := c.DatabaseURL
	if c.StoreDriver == kv.DriverSQLite && dsn == "" {
		dsn = filepath.Join(c.DataDir, "inventory.db")
	}
	return kv.Options{Driver: c.StoreDriver, DataDir: c.DataDir, DSN: dsn}
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
