package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Server captures process configuration. Every key is read from the
// environment with the CIVICLINK_ prefix, e.g. CIVICLINK_ADDR.
type Server struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	// RequestTimeout bounds page requests and wallet/contract actions; 0
	// disables the bound.
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// PagesDir overrides the embedded page markup and serves ./images from disk.
	PagesDir string `envconfig:"PAGES_DIR"`

	Directory Directory
	Wallet    Wallet
	Contract  Contract
}

// Directory configures the REST directory service (CIVICLINK_DIRECTORY_*).
type Directory struct {
	BaseURL string        `envconfig:"BASE_URL" default:"https://civiclink-backend-g3.onrender.com"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"15s"`

	BreakerFailures int           `envconfig:"BREAKER_FAILURES" default:"5"`
	BreakerCooldown time.Duration `envconfig:"BREAKER_COOLDOWN" default:"30s"`
}

// Wallet selects the signing provider (CIVICLINK_WALLET_*). RPCURL wins over
// KeystoreDir; with neither set the session has no provider. ChainRPCURL is
// where keystore accounts read from.
type Wallet struct {
	RPCURL      string `envconfig:"RPC_URL"`
	KeystoreDir string `envconfig:"KEYSTORE_DIR"`
	ChainRPCURL string `envconfig:"CHAIN_RPC_URL" default:"http://127.0.0.1:8545"`
}

// Contract locates the registry contract (CIVICLINK_CONTRACT_*).
type Contract struct {
	Address string `envconfig:"ADDRESS" default:"0xB3be2E51EdAeC9dB5CE98Db1C04b66895774Fd9a"`
}

const envPrefix = "CIVICLINK"

// FromEnv loads configuration from environment variables.
func FromEnv() (Server, error) {
	var cfg Server
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Server{}, fmt.Errorf("failed to process config: %w", err)
	}
	for name, d := range map[string]time.Duration{
		"REQUEST_TIMEOUT":   cfg.RequestTimeout,
		"SHUTDOWN_TIMEOUT":  cfg.ShutdownTimeout,
		"DIRECTORY_TIMEOUT": cfg.Directory.Timeout,
	} {
		if d < 0 {
			return Server{}, fmt.Errorf("%s_%s must not be negative, got %s", envPrefix, name, d)
		}
	}
	return cfg, nil
}
