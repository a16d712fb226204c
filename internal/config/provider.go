package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/creg/internal/domain/config"
)

// flagBindings maps command-line flag names to viper keys
var flagBindings = map[string]string{
	"config":          "config",
	"debug":           "debug",
	"non-interactive": "non_interactive",
	"output":          "output",
	"timeout":         "timeout",
	"metrics-file":    "metrics_file",
	"network":         "network.name",
	"rpc-url":         "network.rpc_url",
	"chain-id":        "network.chain_id",
	"signer":          "signer.mode",
	"account":         "signer.account",
	"keystore":        "signer.keystore_dir",
	"store":           "store.backend",
	"store-path":      "store.path",
	"cache":           "cache.enabled",
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
	}

	// Load .env files first for variable expansion
	loadEnvFiles(projectRoot)

	configFile := v.GetString("config")
	if configFile == "" {
		candidate := filepath.Join(projectRoot, ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
		}
	} else if !filepath.IsAbs(configFile) {
		configFile = filepath.Join(projectRoot, configFile)
	}

	if configFile != "" {
		projectFile, err := loadProjectFile(configFile)
		if err != nil {
			return nil, err
		}
		applyProjectFile(v, projectFile)
	}

	dataDir := filepath.Join(projectRoot, ".creg")
	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        dataDir,
		ConfigFile:     configFile,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Output:         config.OutputFormat(strings.ToLower(v.GetString("output"))),
		Timeout:        v.GetDuration("timeout"),
		MetricsFile:    v.GetString("metrics_file"),
		Network: config.Network{
			Name:    v.GetString("network.name"),
			RPCURL:  v.GetString("network.rpc_url"),
			ChainID: v.GetUint64("network.chain_id"),
		},
		Signer: config.Signer{
			Mode:           config.SignerMode(strings.ToLower(v.GetString("signer.mode"))),
			Account:        v.GetString("signer.account"),
			Password:       v.GetString("signer.password"),
			KeystoreDir:    resolvePath(projectRoot, v.GetString("signer.keystore_dir")),
			UnlockDuration: v.GetDuration("signer.unlock_duration"),
		},
		Store: config.Store{
			Backend:       config.StoreBackend(strings.ToLower(v.GetString("store.backend"))),
			Path:          resolvePath(projectRoot, v.GetString("store.path")),
			RedisAddr:     v.GetString("store.redis_addr"),
			RedisPassword: v.GetString("store.redis_password"),
			RedisDB:       v.GetInt("store.redis_db"),
			KeyPrefix:     v.GetString("store.key_prefix"),
			PostgresURL:   v.GetString("store.postgres_url"),
		},
		Cache: config.Cache{
			Enabled:    v.GetBool("cache.enabled"),
			LifeWindow: v.GetDuration("cache.life_window"),
		},
	}

	if cfg.Signer.Password == "" {
		if passwordFile := v.GetString("signer.password_file"); passwordFile != "" {
			data, err := os.ReadFile(resolvePath(projectRoot, passwordFile))
			if err != nil {
				return nil, fmt.Errorf("failed to read signer password file: %w", err)
			}
			cfg.Signer.Password = strings.TrimRight(string(data), "\r\n")
		}
	}

	if cfg.Store.Path == "" {
		switch cfg.Store.Backend {
		case config.StoreBackendFile:
			cfg.Store.Path = filepath.Join(dataDir, "records")
		case config.StoreBackendBadger:
			cfg.Store.Path = filepath.Join(dataDir, "badger")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// FindProjectRoot walks up from dir to find creg.toml
func FindProjectRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a creg project (%s not found)", ProjectFileName)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("CREG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("project_root", projectRoot)
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("output", string(config.OutputText))
	v.SetDefault("network.name", "local")
	v.SetDefault("network.rpc_url", "http://localhost:8545")
	v.SetDefault("signer.mode", string(config.SignerModeNode))
	v.SetDefault("signer.unlock_duration", "60s")
	v.SetDefault("store.backend", string(config.StoreBackendFile))
	v.SetDefault("store.key_prefix", "creg:contract:")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.life_window", "10m")

	if cmd != nil {
		bind := func(f *pflag.Flag) {
			key, ok := flagBindings[f.Name]
			if !ok {
				return
			}
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		}
		cmd.Flags().VisitAll(bind)
		cmd.InheritedFlags().VisitAll(bind)
	}

	return v
}

func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
