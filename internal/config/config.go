package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort     = "1234"
	DefaultWorkers  = 20
	DefaultHTTPAddr = ":8080"
	DefaultRedisTTL = "10m"
)

type Config struct {
	Server struct {
		Bind        string `yaml:"bind"`
		Port        string `yaml:"port"`
		Workers     int    `yaml:"workers"`
		ReadTimeout string `yaml:"read_timeout"`
	} `yaml:"server"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Quiz struct {
		Bank     string `yaml:"bank"`
		File     string `yaml:"file"`
		MaxHints *int   `yaml:"max_hints"`
	} `yaml:"quiz"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads YAML config from path. An empty path yields Default().
// Fields missing from the file keep their defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Server.Workers <= 0 {
		c.Server.Workers = DefaultWorkers
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.Quiz.Bank == "" {
		c.Quiz.Bank = "default"
	}
	if c.Quiz.MaxHints == nil {
		n := 5
		c.Quiz.MaxHints = &n
	}
	if c.Redis.TTL == "" {
		c.Redis.TTL = DefaultRedisTTL
	}
}

// ListenAddr is the TCP address the quiz acceptor binds.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Bind, c.Server.Port)
}

// Hints is the configured per-session hint budget.
func (c Config) Hints() int {
	if c.Quiz.MaxHints == nil {
		return 5
	}
	return *c.Quiz.MaxHints
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
