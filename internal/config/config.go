// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/viper"
)

type Config struct {
	Network           string                 `mapstructure:"network"`
	RPCURL            string                 `mapstructure:"rpc_url"`
	Keypair           string                 `mapstructure:"keypair"`
	KeypairFile       string                 `mapstructure:"keypair_file"`
	Commitment        string                 `mapstructure:"commitment"`
	ComputeUnits      uint32                 `mapstructure:"compute_units"`
	ComputeUnitPrice  uint64                 `mapstructure:"compute_unit_price"`
	ConfirmIntervalMs int                    `mapstructure:"confirm_interval_ms"`
	RPCRetries        int                    `mapstructure:"rpc_retries"`
	DebugLogging      bool                   `mapstructure:"debug_logging"`
	LogFile           string                 `mapstructure:"log_file"`
	StorageDSN        string                 `mapstructure:"storage_dsn"`
	MetricsFile       string                 `mapstructure:"metrics_file"`
	Profile           ProfileOverrides       `mapstructure:"profile"`
	TokenParams       map[string]TokenParams `mapstructure:"token_params"`
}

const (
	DefaultNetwork           = string(NetworkLocal)
	DefaultRPCURL            = "http://127.0.0.1:8899"
	DefaultCommitment        = string(rpc.CommitmentConfirmed)
	DefaultComputeUnits      = 500_000
	DefaultConfirmIntervalMs = 500
	DefaultRPCRetries        = 3
)

const envPrefix = "FAIRMINT"

// LoadConfig читает конфигурацию из файла (если путь задан) и переменных FAIRMINT_*.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"network":             DefaultNetwork,
		"rpc_url":             DefaultRPCURL,
		"keypair":             "",
		"keypair_file":        "",
		"commitment":          DefaultCommitment,
		"compute_units":       DefaultComputeUnits,
		"compute_unit_price":  0,
		"confirm_interval_ms": DefaultConfirmIntervalMs,
		"rpc_retries":         DefaultRPCRetries,
		"debug_logging":       false,
		"log_file":            "",
		"storage_dsn":         "",
		"metrics_file":        "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range profileKeys {
		v.SetDefault("profile."+key, "")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.TokenParams = mergeTokenParams(cfg.TokenParams)
	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if _, err := ParseNetwork(cfg.Network); err != nil {
		return err
	}
	if err := validateURL(cfg.RPCURL, "http"); err != nil {
		return fmt.Errorf("invalid rpc_url: %w", err)
	}
	switch rpc.CommitmentType(cfg.Commitment) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return fmt.Errorf("invalid commitment %q", cfg.Commitment)
	}
	if err := validateNumericParams(cfg); err != nil {
		return err
	}
	for name, p := range cfg.TokenParams {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("token_params.%s: %w", name, err)
		}
	}
	return nil
}

func validateNumericParams(cfg *Config) error {
	if cfg.ComputeUnits == 0 || cfg.ComputeUnits > 1_400_000 {
		return errors.New("invalid compute_units")
	}
	if cfg.ConfirmIntervalMs <= 0 {
		return errors.New("invalid confirm_interval_ms")
	}
	if cfg.RPCRetries < 0 {
		return errors.New("invalid rpc_retries")
	}
	return nil
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	return nil
}

// CommitmentType возвращает уровень подтверждения в типе rpc.
func (c *Config) CommitmentType() rpc.CommitmentType {
	return rpc.CommitmentType(c.Commitment)
}

// ResolveProfile строит профиль сети с учётом переопределений.
func (c *Config) ResolveProfile() (Profile, error) {
	network, err := ParseNetwork(c.Network)
	if err != nil {
		return Profile{}, err
	}
	return ProfileFor(network, c.Profile)
}
