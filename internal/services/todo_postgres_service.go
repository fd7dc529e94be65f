package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-sqlite/internal/models"
)

// Prepared statement names, scoped to a single pooled connection.
const (
	pgSelectItemsStmt = "select_items"
	pgInsertItemStmt  = "insert_item"
	pgDeleteItemStmt  = "delete_item"
)

type postgresTodoService struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewPostgresTodoService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TodoService {
	return &postgresTodoService{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *postgresTodoService) Init(ctx context.Context) error {
	conn, err := s.pgPool.Acquire(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to connect to database")
		return newError(ConnectionError, opInit, err)
	}
	defer conn.Release()

	const createTableQuery = `
CREATE TABLE IF NOT EXISTS todo_list
(
    id   BIGSERIAL PRIMARY KEY,
    item VARCHAR(64) NOT NULL
)
`
	_, err = conn.Exec(ctx, createTableQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create todo_list table")
		return classifyPostgresError(ExecutionError, opInit, err)
	}

	s.logger.Info().Msg("ensured todo_list table")
	return nil
}

func (s *postgresTodoService) GetItems(ctx context.Context) ([]models.Item, error) {
	conn, err := s.pgPool.Acquire(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to connect to database")
		return nil, newError(ConnectionError, opGet, err)
	}
	defer conn.Release()

	const selectItemsQuery = `
SELECT id,
       item
FROM todo_list
ORDER BY id
`
	_, err = conn.Conn().Prepare(ctx, pgSelectItemsStmt, selectItemsQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to prepare a query")
		return nil, classifyPostgresError(PrepareError, opGet, err)
	}

	rows, err := conn.Query(ctx, pgSelectItemsStmt)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select items")
		return nil, classifyPostgresError(ExecutionError, opGet, err)
	}
	defer rows.Close()

	items := make([]models.Item, 0)
	for rows.Next() {
		var item models.Item
		err = rows.Scan(
			&item.ID,
			&item.Item,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan item")
			return nil, newError(ExecutionError, opGet, fmt.Errorf("%w: %v", ErrRowMapping, err))
		}
		items = append(items, item)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, classifyPostgresError(ExecutionError, opGet, err)
	}

	s.logger.Debug().
		Int("count", len(items)).
		Msg("selected items")
	return items, nil
}

func (s *postgresTodoService) CreateItem(ctx context.Context, item string) (int64, error) {
	conn, err := s.pgPool.Acquire(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to connect to database")
		return 0, newError(ConnectionError, opCreate, err)
	}
	defer conn.Release()

	const insertItemQuery = `
INSERT INTO todo_list (item)
VALUES ($1)
`
	_, err = conn.Conn().Prepare(ctx, pgInsertItemStmt, insertItemQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to prepare a query")
		return 0, classifyPostgresError(PrepareError, opCreate, err)
	}

	tag, err := conn.Exec(ctx, pgInsertItemStmt, item)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert item")
		return 0, classifyPostgresError(ExecutionError, opCreate, err)
	}

	s.logger.Info().
		Int64("count", tag.RowsAffected()).
		Msg("created item")
	return tag.RowsAffected(), nil
}

func (s *postgresTodoService) DeleteItem(ctx context.Context, id int64) (int64, error) {
	conn, err := s.pgPool.Acquire(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to connect to database")
		return 0, newError(ConnectionError, opDelete, err)
	}
	defer conn.Release()

	const deleteItemQuery = `
DELETE FROM todo_list
WHERE id = $1
`
	_, err = conn.Conn().Prepare(ctx, pgDeleteItemStmt, deleteItemQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to prepare a query")
		return 0, classifyPostgresError(PrepareError, opDelete, err)
	}

	tag, err := conn.Exec(ctx, pgDeleteItemStmt, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("item_id", id).
			Msg("failed to delete item")
		return 0, classifyPostgresError(ExecutionError, opDelete, err)
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Int64("item_id", id).
			Msg("item not found")
	}

	s.logger.Info().
		Int64("item_id", id).
		Int64("count", tag.RowsAffected()).
		Msg("deleted item")
	return tag.RowsAffected(), nil
}

func (s *postgresTodoService) Close() error {
	s.pgPool.Close()
	return nil
}

func classifyPostgresError(kind ErrorKind, op string, err error) *Error {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return newError(ConnectionError, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgerrcode.IsConnectionException(pgErr.Code) ||
			pgErr.Code == pgerrcode.InvalidAuthorizationSpecification ||
			pgErr.Code == pgerrcode.InvalidPassword {
			kind = ConnectionError
		}
	}
	return newError(kind, op, err)
}
