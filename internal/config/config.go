package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ukwa/wasget/internal/wasapi"
)

// DefaultBaseURI is the WASAPI access point queried when none is given.
const DefaultBaseURI = "https://partner.archive-it.org/wasapi/v1/webdata"

// Config defines configuration for the wasget CLI.
type Config struct {
	BaseURI     string       `yaml:"base_uri"`
	Destination string       `yaml:"destination"`
	User        string       `yaml:"user"`
	LogFile     string       `yaml:"log_file"`
	Verbosity   int          `yaml:"verbosity"`
	Workers     int          `yaml:"workers"`
	HTTP        HTTPConfig   `yaml:"http"`
	Query       wasapi.Query `yaml:"query"`
}

// HTTPConfig defines manifest-session behavior. Download sessions ignore
// Timeout so streaming bodies are never cut off.
type HTTPConfig struct {
	Timeout             time.Duration `yaml:"timeout"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		BaseURI:     DefaultBaseURI,
		Destination: ".",
		Workers:     runtime.NumCPU(),
		HTTP: HTTPConfig{
			Timeout:             30 * time.Second,
			MaxIdleConnsPerHost: 100,
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	BaseURI     string    `yaml:"base_uri"`
	Destination string    `yaml:"destination"`
	User        string    `yaml:"user"`
	LogFile     string    `yaml:"log_file"`
	Verbosity   int       `yaml:"verbosity"`
	Workers     int       `yaml:"workers"`
	HTTP        yamlHTTP  `yaml:"http"`
	Query       yamlQuery `yaml:"query"`
}

type yamlHTTP struct {
	Timeout             string `yaml:"timeout"`
	MaxIdleConnsPerHost int    `yaml:"max_idle_conns_per_host"`
}

type yamlQuery struct {
	Collections      []string `yaml:"collections"`
	Filename         string   `yaml:"filename"`
	Crawl            string   `yaml:"crawl"`
	CrawlTimeAfter   string   `yaml:"crawl_time_after"`
	CrawlTimeBefore  string   `yaml:"crawl_time_before"`
	CrawlStartAfter  string   `yaml:"crawl_start_after"`
	CrawlStartBefore string   `yaml:"crawl_start_before"`
}

// LoadFromFile loads configuration from a YAML file on top of defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.BaseURI != "" {
		cfg.BaseURI = yc.BaseURI
	}
	if yc.Destination != "" {
		cfg.Destination = yc.Destination
	}
	if yc.User != "" {
		cfg.User = yc.User
	}
	if yc.LogFile != "" {
		cfg.LogFile = yc.LogFile
	}
	if yc.Verbosity != 0 {
		cfg.Verbosity = yc.Verbosity
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.HTTP.Timeout != "" {
		d, err := time.ParseDuration(yc.HTTP.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse http.timeout: %w", err)
		}
		cfg.HTTP.Timeout = d
	}
	if yc.HTTP.MaxIdleConnsPerHost != 0 {
		cfg.HTTP.MaxIdleConnsPerHost = yc.HTTP.MaxIdleConnsPerHost
	}

	cfg.Query = wasapi.Query{
		Collections:      yc.Query.Collections,
		Filename:         yc.Query.Filename,
		Crawl:            yc.Query.Crawl,
		CrawlTimeAfter:   yc.Query.CrawlTimeAfter,
		CrawlTimeBefore:  yc.Query.CrawlTimeBefore,
		CrawlStartAfter:  yc.Query.CrawlStartAfter,
		CrawlStartBefore: yc.Query.CrawlStartBefore,
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the WASGET_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("WASGET_BASE_URI"); v != "" {
		c.BaseURI = v
	}
	if v := os.Getenv("WASGET_DESTINATION"); v != "" {
		c.Destination = v
	}
	if v := os.Getenv("WASGET_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("WASGET_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("WASGET_VERBOSITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse WASGET_VERBOSITY: %w", err)
		}
		c.Verbosity = n
	}
	if v := os.Getenv("WASGET_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse WASGET_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("WASGET_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse WASGET_HTTP_TIMEOUT: %w", err)
		}
		c.HTTP.Timeout = d
	}

	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.BaseURI != "" {
		c.BaseURI = override.BaseURI
	}
	if override.Destination != "" {
		c.Destination = override.Destination
	}
	if override.User != "" {
		c.User = override.User
	}
	if override.LogFile != "" {
		c.LogFile = override.LogFile
	}
	if override.Verbosity != 0 {
		c.Verbosity = override.Verbosity
	}
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.HTTP.Timeout != 0 {
		c.HTTP.Timeout = override.HTTP.Timeout
	}
	if override.HTTP.MaxIdleConnsPerHost != 0 {
		c.HTTP.MaxIdleConnsPerHost = override.HTTP.MaxIdleConnsPerHost
	}
	if !override.Query.IsZero() {
		c.Query = override.Query
	}
	return c
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BaseURI == "" {
		return errors.New("config: base URI is required")
	}
	if c.Destination == "" {
		return errors.New("config: destination is required")
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.Verbosity < 0 {
		return errors.New("config: verbosity must not be negative")
	}
	return nil
}
