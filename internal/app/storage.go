package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"

	"github.com/adanyl0v/go-todo-sqlite/internal/config"
	"github.com/adanyl0v/go-todo-sqlite/internal/services"
)

var globalTodoService services.TodoService

func MustOpenStorage() {
	cfg := config.Global()
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		mustOpenSQLite(cfg.SQLite)
	case config.DriverPostgres:
		mustConnectPostgres(cfg.Postgres)
	default:
		err := fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
		globalLogger.Error().
			Err(err).
			Msg("failed to open storage")
		panic(err)
	}

	// The schema is created on a connection that is released before
	// the server starts accepting requests.
	err := globalTodoService.Init(context.Background())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create schema")
		panic(err)
	}
}

func CloseStorage() {
	err := globalTodoService.Close()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close storage")
		return
	}
	globalLogger.Info().Msg("closed storage")
}

func mustOpenSQLite(cfg config.SQLiteConfig) {
	db, err := sql.Open("sqlite3", services.SQLiteDSN(cfg.Path, cfg.BusyTimeout))
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", cfg.Path).
			Msg("failed to open sqlite database")
		panic(err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)

	globalTodoService = services.NewSQLiteTodoService(globalLogger, db)
	globalLogger.Info().
		Str("path", cfg.Path).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("opened sqlite database")
}

func mustConnectPostgres(cfg config.PostgresConfig) {
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	poolCfg.MaxConns = cfg.MaxConns

	pgPool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = pgPool.Ping(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}

	globalTodoService = services.NewPostgresTodoService(globalLogger, pgPool)
	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")
}
