package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-default:"local" yaml:"env" toml:"env"`
	HTTP     HTTPConfig     `yaml:"http" toml:"http"`
	Storage  StorageConfig  `yaml:"storage" toml:"storage"`
	SQLite   SQLiteConfig   `yaml:"sqlite" toml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres" toml:"postgres"`
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"localhost" yaml:"host" toml:"host"`
	Port            string        `env:"HTTP_PORT" env-default:"8000" yaml:"port" toml:"port"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s" yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" env-default:"sqlite" yaml:"driver" toml:"driver"`
}

type SQLiteConfig struct {
	Path         string        `env:"SQLITE_PATH" env-default:"data.sqlite" yaml:"path" toml:"path"`
	BusyTimeout  time.Duration `env:"SQLITE_BUSY_TIMEOUT" env-default:"5s" yaml:"busy_timeout" toml:"busy_timeout"`
	MaxOpenConns int           `env:"SQLITE_MAX_OPEN_CONNS" env-default:"8" yaml:"max_open_conns" toml:"max_open_conns"`
}

// PostgresConfig is only consulted when Storage.Driver is DriverPostgres,
// so none of its fields are required.
type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-default:"localhost" yaml:"host" toml:"host"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432" yaml:"port" toml:"port"`
	Username       string        `env:"POSTGRES_USERNAME" yaml:"username" toml:"username"`
	Password       string        `env:"POSTGRES_PASSWORD" yaml:"password" toml:"password"`
	Database       string        `env:"POSTGRES_DATABASE" yaml:"database" toml:"database"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable" yaml:"ssl_mode" toml:"ssl_mode"`
	MaxConns       int32         `env:"POSTGRES_MAX_CONNS" env-default:"8" yaml:"max_conns" toml:"max_conns"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s" yaml:"connect_timeout" toml:"connect_timeout"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s" yaml:"ping_timeout" toml:"ping_timeout"`
}
