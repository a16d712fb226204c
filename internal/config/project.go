package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ProjectFileName is the per-project configuration file looked up from the working directory
const ProjectFileName = "creg.toml"

// ProjectFile represents the raw creg.toml structure
type ProjectFile struct {
	Network struct {
		Name    string `toml:"name"`
		RPCURL  string `toml:"rpc_url"`
		ChainID uint64 `toml:"chain_id"`
	} `toml:"network"`

	Signer struct {
		Mode           string `toml:"mode"`
		Account        string `toml:"account"`
		Password       string `toml:"password"`
		PasswordFile   string `toml:"password_file"`
		KeystoreDir    string `toml:"keystore_dir"`
		UnlockDuration string `toml:"unlock_duration"`
	} `toml:"signer"`

	Store struct {
		Backend       string `toml:"backend"`
		Path          string `toml:"path"`
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
		RedisDB       int    `toml:"redis_db"`
		KeyPrefix     string `toml:"key_prefix"`
		PostgresURL   string `toml:"postgres_url"`
	} `toml:"store"`

	Cache struct {
		Enabled    *bool  `toml:"enabled"`
		LifeWindow string `toml:"life_window"`
	} `toml:"cache"`

	Timeout string `toml:"timeout"`
}

// loadEnvFiles loads .env files so project file values can reference them
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadProjectFile parses a creg.toml file
func loadProjectFile(path string) (*ProjectFile, error) {
	var raw ProjectFile
	md, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", filepath.Base(path), strings.Join(keys, ", "))
	}
	return &raw, nil
}

// settings flattens the populated values into viper keys, expanding ${VAR} references
func (p *ProjectFile) settings() map[string]any {
	out := make(map[string]any)
	str := func(key, value string) {
		if value != "" {
			out[key] = os.ExpandEnv(value)
		}
	}

	str("network.name", p.Network.Name)
	str("network.rpc_url", p.Network.RPCURL)
	if p.Network.ChainID != 0 {
		out["network.chain_id"] = p.Network.ChainID
	}

	str("signer.mode", p.Signer.Mode)
	str("signer.account", p.Signer.Account)
	str("signer.password", p.Signer.Password)
	str("signer.password_file", p.Signer.PasswordFile)
	str("signer.keystore_dir", p.Signer.KeystoreDir)
	str("signer.unlock_duration", p.Signer.UnlockDuration)

	str("store.backend", p.Store.Backend)
	str("store.path", p.Store.Path)
	str("store.redis_addr", p.Store.RedisAddr)
	str("store.redis_password", p.Store.RedisPassword)
	if p.Store.RedisDB != 0 {
		out["store.redis_db"] = p.Store.RedisDB
	}
	str("store.key_prefix", p.Store.KeyPrefix)
	str("store.postgres_url", p.Store.PostgresURL)

	if p.Cache.Enabled != nil {
		out["cache.enabled"] = *p.Cache.Enabled
	}
	str("cache.life_window", p.Cache.LifeWindow)

	str("timeout", p.Timeout)
	return out
}

// applyProjectFile layers project file values above the built-in defaults
// and below environment variables and flags
func applyProjectFile(v *viper.Viper, p *ProjectFile) {
	for key, value := range p.settings() {
		v.SetDefault(key, value)
	}
}
