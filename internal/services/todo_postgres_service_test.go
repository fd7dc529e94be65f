package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func TestClassifyPostgresError(t *testing.T) {
	tests := []struct {
		name string
		kind ErrorKind
		err  error
		want ErrorKind
	}{
		{
			name: "connection failure",
			kind: ExecutionError,
			err:  &pgconn.PgError{Code: pgerrcode.ConnectionFailure},
			want: ConnectionError,
		},
		{
			name: "admin shutdown during prepare is kept",
			kind: PrepareError,
			err:  &pgconn.PgError{Code: pgerrcode.AdminShutdown},
			want: PrepareError,
		},
		{
			name: "invalid password",
			kind: PrepareError,
			err:  fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: pgerrcode.InvalidPassword}),
			want: ConnectionError,
		},
		{
			name: "undefined table during prepare",
			kind: PrepareError,
			err:  &pgconn.PgError{Code: pgerrcode.UndefinedTable},
			want: PrepareError,
		},
		{
			name: "value too long",
			kind: ExecutionError,
			err:  &pgconn.PgError{Code: pgerrcode.StringDataRightTruncationDataException},
			want: ExecutionError,
		},
		{
			name: "plain error",
			kind: ExecutionError,
			err:  errors.New("boom"),
			want: ExecutionError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyPostgresError(tt.kind, opCreate, tt.err)
			if got.Kind != tt.want {
				t.Errorf("expected kind %s, got %s", tt.want, got.Kind)
			}
			if got.Op != opCreate {
				t.Errorf("expected op %q, got %q", opCreate, got.Op)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("expected classified error to wrap %v", tt.err)
			}
		})
	}
}

// newTestPostgresService connects with the POSTGRES_* variables and
// isolates the test in its own schema. A single pooled connection makes
// every call reuse the same prepared statements.
func newTestPostgresService(t *testing.T) (TodoService, *pgxpool.Pool) {
	t.Helper()

	database := os.Getenv("POSTGRES_DATABASE")
	if database == "" {
		t.Skip("POSTGRES_DATABASE is not set")
	}

	connURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		os.Getenv("POSTGRES_USERNAME"), os.Getenv("POSTGRES_PASSWORD"),
		envOr("POSTGRES_HOST", "localhost"), envOr("POSTGRES_PORT", "5432"),
		database, envOr("POSTGRES_SSL_MODE", "disable"))

	ctx := context.Background()
	schema := fmt.Sprintf("todo_test_%d", time.Now().UnixNano())

	admin, err := pgx.Connect(ctx, connURL)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	defer admin.Close(ctx)

	if _, err = admin.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() {
		conn, err := pgx.Connect(context.Background(), connURL)
		if err != nil {
			return
		}
		defer conn.Close(context.Background())
		_, _ = conn.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
	})

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		t.Fatalf("failed to parse postgres config: %v", err)
	}
	poolCfg.MaxConns = 1
	poolCfg.ConnConfig.RuntimeParams["search_path"] = schema

	pgPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	service := NewPostgresTodoService(zerolog.Nop(), pgPool)
	t.Cleanup(func() { service.Close() })

	if err = service.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return service, pgPool
}

func envOr(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func TestPostgresTodoService_CRUD(t *testing.T) {
	service, _ := newTestPostgresService(t)
	ctx := context.Background()

	if err := service.Init(ctx); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}

	items, err := service.GetItems(ctx)
	if err != nil {
		t.Fatalf("GetItems on empty table failed: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}

	for _, item := range []string{"buy milk", "walk dog"} {
		inserted, err := service.CreateItem(ctx, item)
		if err != nil {
			t.Fatalf("CreateItem(%q) failed: %v", item, err)
		}
		if inserted != 1 {
			t.Errorf("expected 1 inserted row, got %d", inserted)
		}
	}

	// Second round of prepares on the same pooled connection.
	items, err = service.GetItems(ctx)
	if err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	items, err = service.GetItems(ctx)
	if err != nil {
		t.Fatalf("repeated GetItems failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Item != "buy milk" || items[0].ID <= 0 || items[1].ID <= items[0].ID {
		t.Errorf("unexpected items %#v", items)
	}

	deleted, err := service.DeleteItem(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted row, got %d", deleted)
	}

	deleted, err = service.DeleteItem(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("DeleteItem of a missing id failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 deleted rows, got %d", deleted)
	}

	items, err = service.GetItems(ctx)
	if err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	if len(items) != 1 || items[0].Item != "walk dog" {
		t.Errorf("expected only the second item to remain, got %#v", items)
	}
}

func TestPostgresTodoService_RepeatedPrepare(t *testing.T) {
	_, pgPool := newTestPostgresService(t)
	ctx := context.Background()

	const query = `SELECT id, item FROM todo_list ORDER BY id`
	var pids [2]uint32
	for i := range pids {
		conn, err := pgPool.Acquire(ctx)
		if err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
		pids[i] = conn.Conn().PgConn().PID()

		_, err = conn.Conn().Prepare(ctx, pgSelectItemsStmt, query)
		conn.Release()
		if err != nil {
			t.Fatalf("Prepare #%d failed: %v", i+1, err)
		}
	}
	if pids[0] != pids[1] {
		t.Fatalf("expected the same pooled connection, got pids %d and %d", pids[0], pids[1])
	}
}

func TestPostgresTodoService_ValueTooLong(t *testing.T) {
	service, _ := newTestPostgresService(t)

	_, err := service.CreateItem(context.Background(), strings.Repeat("x", 65))
	if KindOf(err) != ExecutionError {
		t.Fatalf("expected execution error, got %v", err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.StringDataRightTruncationDataException {
		t.Errorf("expected string truncation error, got %v", err)
	}
}
