package config

import (
	"fmt"
	"strings"

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

	return cfg, validate(cfg)
}

// FileReader reads a .toml, .yaml, .json or .env file and then applies
// environment overrides on top of it.
type FileReader struct {
	path string
}

func NewFileReader(path string) FileReader {
	return FileReader{path: path}
}

func (r FileReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadConfig(r.path, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, validate(cfg)
}

func validate(cfg *Config) error {
	switch cfg.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", cfg.Env)
	}

	switch cfg.Storage.Driver {
	case DriverSQLite:
		if cfg.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is empty")
		}
		// The path is embedded in a file: URI, where these start the
		// query and the fragment.
		if strings.ContainsAny(cfg.SQLite.Path, "?#") {
			return fmt.Errorf("sqlite path must not contain '?' or '#': %s", cfg.SQLite.Path)
		}
	case DriverPostgres:
		if cfg.Postgres.Database == "" {
			return fmt.Errorf("postgres database is empty")
		}
	default:
		return fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}

	return nil
}
