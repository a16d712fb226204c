package config

import (
	"fmt"
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string
	ConfigFile  string // project file that was loaded, empty if none

	// Execution settings
	Debug          bool
	NonInteractive bool
	Output         OutputFormat
	Timeout        time.Duration
	MetricsFile    string

	// Resolved configurations
	Network Network
	Signer  Signer
	Store   Store
	Cache   Cache
}

// OutputFormat selects how command results are printed
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// Network represents network configuration
type Network struct {
	Name    string `json:"name"`
	RPCURL  string `json:"rpcUrl"`
	ChainID uint64 `json:"chainId,omitempty"` // 0 means ask the node
}

// SignerMode selects who holds the deploying account's key
type SignerMode string

const (
	// SignerModeNode unlocks an account held by the node and lets the node sign
	SignerModeNode SignerMode = "node"
	// SignerModeKeystore unlocks a local encrypted key and signs in process
	SignerModeKeystore SignerMode = "keystore"
)

// Signer holds the account credentials used for every chain operation
type Signer struct {
	Mode           SignerMode
	Account        string
	Password       string
	KeystoreDir    string
	UnlockDuration time.Duration
}

// StoreBackend selects the record store implementation
type StoreBackend string

const (
	StoreBackendFile     StoreBackend = "file"
	StoreBackendBadger   StoreBackend = "badger"
	StoreBackendRedis    StoreBackend = "redis"
	StoreBackendPostgres StoreBackend = "postgres"
)

// Store holds record store connection settings
type Store struct {
	Backend       StoreBackend
	Path          string // file and badger
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string // redis
	PostgresURL   string
}

// Cache configures the resolved-record read cache
type Cache struct {
	Enabled    bool
	LifeWindow time.Duration
}

// Validate checks that the settings required by every command are present
func (c *RuntimeConfig) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unsupported output format %q", c.Output)
	}

	switch c.Signer.Mode {
	case SignerModeNode:
	case SignerModeKeystore:
		if c.Signer.KeystoreDir == "" {
			return fmt.Errorf("signer.keystore_dir is required in keystore mode")
		}
	default:
		return fmt.Errorf("unsupported signer mode %q", c.Signer.Mode)
	}
	if c.Signer.UnlockDuration <= 0 {
		return fmt.Errorf("signer.unlock_duration must be positive")
	}

	switch c.Store.Backend {
	case StoreBackendFile, StoreBackendBadger:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", c.Store.Backend)
		}
	case StoreBackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store.redis_addr is required for the redis backend")
		}
	case StoreBackendPostgres:
		if c.Store.PostgresURL == "" {
			return fmt.Errorf("store.postgres_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unsupported store backend %q", c.Store.Backend)
	}

	if c.Network.RPCURL == "" {
		return fmt.Errorf("network.rpc_url is required")
	}
	return nil
}
