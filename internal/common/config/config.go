package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/gcfg.v1"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  string
	LogLevel     string

	JournalPath     string
	Placement       string
	PlacementExtent float64
	Seed            int64
	SignStyle       string

	GeometryURL string
}

// fileConfig mirrors the optional INI file named by CONFIG_PATH:
//
//	[server]
//	port = 3010
//	read-timeout = 10
//
//	[geometry]
//	placement = random
//	placement-extent = 1.5
//	sign-style = compact
type fileConfig struct {
	Server struct {
		Port         string
		Environment  string
		ReadTimeout  int    `gcfg:"read-timeout"`
		WriteTimeout int    `gcfg:"write-timeout"`
		CORSOrigins  string `gcfg:"cors-origins"`
		LogLevel     string `gcfg:"log-level"`
	}
	Geometry struct {
		JournalPath     string  `gcfg:"journal-path"`
		Placement       string
		PlacementExtent float64 `gcfg:"placement-extent"`
		Seed            int64
		SignStyle       string  `gcfg:"sign-style"`
	}
	Gateway struct {
		GeometryURL string `gcfg:"geometry-url"`
	}
}

func defaults() *Config {
	return &Config{
		Port:            "3000",
		Environment:     "development",
		ReadTimeout:     10,
		WriteTimeout:    10,
		CORSOrigins:     "*",
		LogLevel:        "info",
		JournalPath:     "data/db/journal.db",
		Placement:       "fixed",
		PlacementExtent: 1,
		Seed:            0,
		SignStyle:       "literal",
		GeometryURL:     "http://localhost:3010",
	}
}

// Load builds the configuration from defaults, then the file named by
// CONFIG_PATH (if any), then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	cfg.readEnv()

	if err := cfg.CheckInit(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	var fc fileConfig
	if err := gcfg.ReadFileInto(&fc, path); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	setString(&c.Port, fc.Server.Port)
	setString(&c.Environment, fc.Server.Environment)
	setInt(&c.ReadTimeout, fc.Server.ReadTimeout)
	setInt(&c.WriteTimeout, fc.Server.WriteTimeout)
	setString(&c.CORSOrigins, fc.Server.CORSOrigins)
	setString(&c.LogLevel, fc.Server.LogLevel)

	setString(&c.JournalPath, fc.Geometry.JournalPath)
	setString(&c.Placement, fc.Geometry.Placement)
	if fc.Geometry.PlacementExtent != 0 {
		c.PlacementExtent = fc.Geometry.PlacementExtent
	}
	if fc.Geometry.Seed != 0 {
		c.Seed = fc.Geometry.Seed
	}
	setString(&c.SignStyle, fc.Geometry.SignStyle)

	setString(&c.GeometryURL, fc.Gateway.GeometryURL)
	return nil
}

func (c *Config) readEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("ENV", c.Environment)
	c.ReadTimeout = getEnvAsInt("READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", c.WriteTimeout)
	c.CORSOrigins = getEnv("CORS_ORIGINS", c.CORSOrigins)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.JournalPath = getEnv("JOURNAL_PATH", c.JournalPath)
	c.Placement = getEnv("PLACEMENT", c.Placement)
	c.PlacementExtent = getEnvAsFloat("PLACEMENT_EXTENT", c.PlacementExtent)
	c.Seed = getEnvAsInt64("SEED", c.Seed)
	c.SignStyle = getEnv("SIGN_STYLE", c.SignStyle)

	c.GeometryURL = getEnv("GEOMETRY_URL", c.GeometryURL)
}

// CheckInit validates the loaded values.
func (c *Config) CheckInit() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive, got read=%d write=%d", c.ReadTimeout, c.WriteTimeout)
	}

	c.Placement = strings.ToLower(c.Placement)
	switch c.Placement {
	case "fixed":
	case "random":
		if c.PlacementExtent <= 0 {
			return fmt.Errorf("placement extent must be positive, got %g", c.PlacementExtent)
		}
	default:
		return fmt.Errorf("unknown placement %q (want fixed or random)", c.Placement)
	}

	c.SignStyle = strings.ToLower(c.SignStyle)
	switch c.SignStyle {
	case "literal", "compact":
	default:
		return fmt.Errorf("unknown sign style %q (want literal or compact)", c.SignStyle)
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	return nil
}

func (c *Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

func (c *Config) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
