package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"geo-order-go/infrastructure/logger"
)

const (
	DefaultPollIntervalSeconds = 120
	DefaultProvider            = "oneatlas"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env     string        `yaml:"env"`
	Gateway GatewayConfig `yaml:"gateway"`
	Order   OrderConfig   `yaml:"order"`
	Logging logger.Config `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type GatewayConfig struct {
	BaseURL        string  `yaml:"baseURL"`
	Token          string  `yaml:"token"`
	WorkspaceID    string  `yaml:"workspaceID"`
	TimeoutSeconds int     `yaml:"timeoutSeconds"`
	RateLimit      float64 `yaml:"rateLimit"` // 每秒令牌数，0 表示不限流
	RateBurst      int     `yaml:"rateBurst"`
}

type OrderConfig struct {
	PollIntervalSeconds int    `yaml:"pollIntervalSeconds"` // track 轮询间隔
	Provider            string `yaml:"provider"`            // 默认数据提供方
}

// PollInterval 返回轮询间隔，未配置时为 120s。
func (o OrderConfig) PollInterval() time.Duration {
	if o.PollIntervalSeconds <= 0 {
		return DefaultPollIntervalSeconds * time.Second
	}
	return time.Duration(o.PollIntervalSeconds) * time.Second
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // 留空则关闭
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	cfg, err := parse(path)
	if err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides sensitive fields from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := parse(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("GEO_API_TOKEN"); v != "" {
		cfg.Gateway.Token = v
	}
	if v := os.Getenv("GEO_WORKSPACE_ID"); v != "" {
		cfg.Gateway.WorkspaceID = v
	}
	if v := os.Getenv("GEO_BASE_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	return cfg, Validate(cfg)
}

func parse(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if cfg.Order.Provider == "" {
		cfg.Order.Provider = DefaultProvider
	}
	if cfg.Logging.Level == "" {
		cfg.Logging = logger.DefaultConfig()
	}
	return cfg, nil
}

// Validate ensures required fields are present.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Gateway.BaseURL == "" {
		return errors.New("gateway.baseURL is required (or env overrides)")
	}
	if cfg.Gateway.Token == "" {
		return errors.New("gateway.token is required (or env overrides)")
	}
	if cfg.Gateway.WorkspaceID == "" {
		return errors.New("gateway.workspaceID is required (or env overrides)")
	}
	if cfg.Gateway.TimeoutSeconds < 0 {
		return errors.New("gateway.timeoutSeconds must be >= 0")
	}
	if cfg.Gateway.RateLimit < 0 || cfg.Gateway.RateBurst < 0 {
		return errors.New("gateway rate limits must be >= 0")
	}
	if cfg.Order.PollIntervalSeconds < 0 {
		return fmt.Errorf("order.pollIntervalSeconds must be >= 0, got %d", cfg.Order.PollIntervalSeconds)
	}
	return nil
}
