package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/tradelog/internal/common"
	"github.com/rustyeddy/tradelog/journal"
	"gopkg.in/yaml.v3"
)

// Config represents the complete tradelog configuration
type Config struct {
	Database DatabaseConfig `json:"database" yaml:"database"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
	Defaults DefaultsConfig `json:"defaults" yaml:"defaults"`
	Locale   string         `json:"locale" yaml:"locale"` // "en" or "zh"
}

type DatabaseConfig struct {
	Path string `json:"path" yaml:"path"`
}

// ServerConfig contains the HTTP bridge parameters
type ServerConfig struct {
	Addr      string `json:"addr" yaml:"addr"`
	JWTSecret string `json:"jwt_secret" yaml:"jwt_secret"`
	TokenTTL  string `json:"token_ttl" yaml:"token_ttl"` // e.g., "24h"
}

// DefaultJWTSecret is the placeholder secret written by Default.
const DefaultJWTSecret = "change-me"

// CheckSecret fails when tokens would be signed with the placeholder
// secret. Only serve needs a real one.
func (s ServerConfig) CheckSecret() error {
	if s.JWTSecret == DefaultJWTSecret {
		return fmt.Errorf("server.jwt_secret is the default %q; set it in the config file or TRADELOG_JWT_SECRET", DefaultJWTSecret)
	}
	return nil
}

// ParseTokenTTL converts the token lifetime string to time.Duration
func (s ServerConfig) ParseTokenTTL() (time.Duration, error) {
	if s.TokenTTL == "" {
		return 24 * time.Hour, nil
	}
	return time.ParseDuration(s.TokenTTL)
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // "text" or "json"
}

// DefaultsConfig seeds the settings of newly registered users
type DefaultsConfig struct {
	InitialCapital           float64 `json:"initial_capital" yaml:"initial_capital"`
	RiskPercent              float64 `json:"risk_percent" yaml:"risk_percent"`
	RecoveryMultiplier       float64 `json:"recovery_multiplier" yaml:"recovery_multiplier"`
	DailyProfitTargetPercent float64 `json:"daily_profit_target_percent" yaml:"daily_profit_target_percent"`
	DailyGoalFormat          string  `json:"daily_goal_format" yaml:"daily_goal_format"`
	StopLossAlertPercent     float64 `json:"stop_loss_alert_percent" yaml:"stop_loss_alert_percent"`
	SessionEndAlert          bool    `json:"session_end_alert" yaml:"session_end_alert"`
	LowTradeAlert            bool    `json:"low_trade_alert" yaml:"low_trade_alert"`
	AutoCopyBalance          bool    `json:"auto_copy_balance" yaml:"auto_copy_balance"`
	AutoLogSession           bool    `json:"auto_log_session" yaml:"auto_log_session"`
	AutoCountSession         bool    `json:"auto_count_session" yaml:"auto_count_session"`
	Currency                 string  `json:"currency" yaml:"currency"`
	PayoutPercent            float64 `json:"payout_percent" yaml:"payout_percent"`
}

// Settings returns the seed row for a new user
func (d DefaultsConfig) Settings() journal.UserSettings {
	return journal.UserSettings{
		InitialCapital:           d.InitialCapital,
		RiskPercent:              d.RiskPercent,
		RecoveryMultiplier:       d.RecoveryMultiplier,
		DailyProfitTargetPercent: d.DailyProfitTargetPercent,
		DailyGoalFormat:          d.DailyGoalFormat,
		StopLossAlertPercent:     d.StopLossAlertPercent,
		SessionEndAlert:          d.SessionEndAlert,
		LowTradeAlert:            d.LowTradeAlert,
		AutoCopyBalance:          d.AutoCopyBalance,
		AutoLogSession:           d.AutoLogSession,
		AutoCountSession:         d.AutoCountSession,
		Currency:                 d.Currency,
	}
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Start from defaults so partial files only override what they name
	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// envVars maps TRADELOG_* variables onto config fields
var envVars = map[string]func(c *Config, v string){
	"TRADELOG_DB_PATH":    func(c *Config, v string) { c.Database.Path = v },
	"TRADELOG_ADDR":       func(c *Config, v string) { c.Server.Addr = v },
	"TRADELOG_JWT_SECRET": func(c *Config, v string) { c.Server.JWTSecret = v },
	"TRADELOG_TOKEN_TTL":  func(c *Config, v string) { c.Server.TokenTTL = v },
	"TRADELOG_LOG_LEVEL":  func(c *Config, v string) { c.Logging.Level = v },
	"TRADELOG_LOG_FORMAT": func(c *Config, v string) { c.Logging.Format = v },
	"TRADELOG_LOCALE":     func(c *Config, v string) { c.Locale = v },
	"TRADELOG_CURRENCY":   func(c *Config, v string) { c.Defaults.Currency = v },
}

// ApplyEnv loads envFile (if it exists) into the process environment and
// overlays any TRADELOG_* variables. An empty envFile means ".env".
func (c *Config) ApplyEnv(envFile string) error {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}

	for name, set := range envVars {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			set(c, v)
		}
	}
	return c.Validate()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.JWTSecret == "" {
		return fmt.Errorf("server.jwt_secret is required")
	}
	if ttl, err := c.Server.ParseTokenTTL(); err != nil || ttl <= 0 {
		return fmt.Errorf("server.token_ttl must be a positive duration")
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be 'text' or 'json'")
	}
	switch c.Locale {
	case "en", "zh":
	default:
		return fmt.Errorf("locale must be 'en' or 'zh'")
	}

	d := c.Defaults
	for name, v := range map[string]float64{
		"defaults.initial_capital":             d.InitialCapital,
		"defaults.risk_percent":                d.RiskPercent,
		"defaults.recovery_multiplier":         d.RecoveryMultiplier,
		"defaults.daily_profit_target_percent": d.DailyProfitTargetPercent,
		"defaults.stop_loss_alert_percent":     d.StopLossAlertPercent,
		"defaults.payout_percent":              d.PayoutPercent,
	} {
		if err := common.Finite(name, v); err != nil {
			return err
		}
	}
	if d.InitialCapital <= 0 {
		return fmt.Errorf("defaults.initial_capital must be positive")
	}
	if d.RiskPercent <= 0 || d.RiskPercent > 100 {
		return fmt.Errorf("defaults.risk_percent must be between 0 and 100")
	}
	if d.RecoveryMultiplier <= 0 {
		return fmt.Errorf("defaults.recovery_multiplier must be positive")
	}
	if d.DailyGoalFormat != journal.GoalPercent && d.DailyGoalFormat != journal.GoalCurrency {
		return fmt.Errorf("defaults.daily_goal_format must be '%%' or '$'")
	}
	if d.Currency == "" {
		return fmt.Errorf("defaults.currency is required")
	}
	if d.PayoutPercent <= 0 {
		return fmt.Errorf("defaults.payout_percent must be positive")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "./tradelog.db",
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8787",
			JWTSecret: DefaultJWTSecret,
			TokenTTL:  "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Defaults: DefaultsConfig{
			InitialCapital:           18000,
			RiskPercent:              2.0,
			RecoveryMultiplier:       2.0,
			DailyProfitTargetPercent: 2.0,
			DailyGoalFormat:          journal.GoalPercent,
			StopLossAlertPercent:     20.0,
			AutoCopyBalance:          true,
			AutoLogSession:           true,
			AutoCountSession:         true,
			Currency:                 "USD",
			PayoutPercent:            92.0,
		},
		Locale: "en",
	}
}
