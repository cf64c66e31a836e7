package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Broker modes.
const (
	BrokerModeMQTT   = "mqtt"
	BrokerModeMemory = "memory"
)

// Duration unmarshals Go duration strings like "4s" or "500ms" from YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a standard time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"database"`
	} `yaml:"database"`

	Broker struct {
		// Mode selects the transport: "mqtt" for a real broker, "memory"
		// for the in-process hub used in single-binary deployments.
		Mode              string   `yaml:"mode"`
		URL               string   `yaml:"url"` // e.g. tcp://broker.emqx.io:1883
		ConnectTimeout    Duration `yaml:"connect_timeout"`
		ReconnectInterval Duration `yaml:"reconnect_interval"`
		PublishTimeout    Duration `yaml:"publish_timeout"`
	} `yaml:"broker"`

	HTTP struct {
		Port int `yaml:"port"`
	} `yaml:"http"`

	// APIBaseURL, when set, makes console modes perform order actions
	// through the order-service HTTP API instead of a direct database
	// connection.
	APIBaseURL string `yaml:"api_base_url"`
}

// LoadFromFile loads config from a YAML file, applies defaults, and
// validates required fields.
func LoadFromFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(string(raw)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets safe defaults for optional fields.
func applyDefaults(cfg *Config) {
	// Database
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}

	// Broker
	if cfg.Broker.Mode == "" {
		cfg.Broker.Mode = BrokerModeMQTT
	}
	if cfg.Broker.ConnectTimeout == 0 {
		cfg.Broker.ConnectTimeout = Duration(4 * time.Second)
	}
	if cfg.Broker.ReconnectInterval == 0 {
		cfg.Broker.ReconnectInterval = Duration(time.Second)
	}
	if cfg.Broker.PublishTimeout == 0 {
		cfg.Broker.PublishTimeout = Duration(5 * time.Second)
	}

	// HTTP
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 3000
	}
}

// validate checks required fields and basic ranges.
func (c *Config) validate() error {
	var problems []string

	// DB
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		problems = append(problems, "database.port must be in 1..65535")
	}

	// Broker. A missing URL is a configuration error reported here, never
	// deferred to the first publish attempt.
	switch c.Broker.Mode {
	case BrokerModeMQTT:
		if c.Broker.URL == "" {
			problems = append(problems, "broker.url is required when broker.mode is mqtt")
		}
	case BrokerModeMemory:
		// no URL needed
	default:
		problems = append(problems, fmt.Sprintf("broker.mode must be %q or %q", BrokerModeMQTT, BrokerModeMemory))
	}
	if c.Broker.ConnectTimeout < 0 {
		problems = append(problems, "broker.connect_timeout must not be negative")
	}
	if c.Broker.ReconnectInterval <= 0 {
		problems = append(problems, "broker.reconnect_interval must be positive")
	}

	// HTTP
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		problems = append(problems, "http.port must be in 1..65535")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
