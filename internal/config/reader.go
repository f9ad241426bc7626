package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return nil, fmt.Errorf("unknown env: %s", cfg.Env)
	}
	return cfg, nil
}

type ClientEnvReader struct{}

func NewClientEnvReader() ClientEnvReader {
	return ClientEnvReader{}
}

// Read reads the client config. Unset paths default to
// files under ~/.flowfocus.
func (ClientEnvReader) Read() (*ClientConfig, error) {
	cfg := new(ClientConfig)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.SessionPath == "" || cfg.ListPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".flowfocus")
		if cfg.SessionPath == "" {
			cfg.SessionPath = filepath.Join(dir, "session.json")
		}
		if cfg.ListPath == "" {
			cfg.ListPath = filepath.Join(dir, "list.json")
		}
	}

	switch cfg.ListStorage {
	case ListStorageJSON, ListStorageSQLite:
	default:
		return nil, fmt.Errorf("unknown list storage: %s", cfg.ListStorage)
	}
	return cfg, nil
}
