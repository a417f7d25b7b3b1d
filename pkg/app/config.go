// Package app wires the wallet's components together behind a single
// configuration file and lifecycle.
package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sui-pocket/pkg/logging"
)

// Config is the application configuration, loadable from YAML.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Wallet  WalletConfig   `yaml:"wallet"`
	Rate    RateConfig     `yaml:"rate"`
	Log     logging.Config `yaml:"log"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// WalletConfig configures the wallet connection and ledger seed.
type WalletConfig struct {
	// Address of the wallet to attach. Empty means start disconnected.
	Address string `yaml:"address"`

	// RPCURL of the Sui fullnode.
	RPCURL string `yaml:"rpc_url"`

	// RPCTimeout bounds each RPC call.
	RPCTimeout time.Duration `yaml:"rpc_timeout"`

	// InitialBalance seeds the ledger before the first attach.
	InitialBalance float64 `yaml:"initial_balance"`
}

// RateConfig configures the exchange-rate provider.
type RateConfig struct {
	QuoteURL       string        `yaml:"quote_url"`
	Fallback       float64       `yaml:"fallback"`
	Interval       time.Duration `yaml:"interval"`
	JitterFraction float64       `yaml:"jitter_fraction"`
	Redis          RedisConfig   `yaml:"redis"`
}

// RedisConfig configures the optional shared rate cache. A blank address
// disables it.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Key      string        `yaml:"key"`
	TTL      time.Duration `yaml:"ttl"`
}

// MetricsConfig configures Prometheus metric collection.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// DefaultConfig returns a configuration suitable for the testnet.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Wallet: WalletConfig{
			RPCURL:     "https://fullnode.testnet.sui.io:443",
			RPCTimeout: 10 * time.Second,
		},
		Rate: RateConfig{
			QuoteURL: "https://api.coingecko.com/api/v3/simple/price?ids=sui&vs_currencies=ngn",
			Fallback: 850,
			Interval: 5 * time.Minute,
		},
		Log: logging.DefaultConfig(),
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "suipocket",
		},
	}
}

// LoadConfig reads a YAML file over the defaults. A missing path returns the
// defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("app: read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("app: parse config: %w", err)
	}
	return cfg, nil
}
