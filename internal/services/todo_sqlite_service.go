package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-sqlite/internal/models"
)

type sqliteTodoService struct {
	logger zerolog.Logger
	db     *sql.DB
}

func NewSQLiteTodoService(
	logger zerolog.Logger,
	db *sql.DB,
) TodoService {
	return &sqliteTodoService{
		logger: logger,
		db:     db,
	}
}

// SQLiteDSN builds a go-sqlite3 data source name for the database file
// at path. Writers wait up to busyTimeout for the file lock.
func SQLiteDSN(path string, busyTimeout time.Duration) string {
	params := url.Values{}
	params.Set("_busy_timeout", fmt.Sprint(busyTimeout.Milliseconds()))
	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "NORMAL")
	return "file:" + path + "?" + params.Encode()
}

func (s *sqliteTodoService) Init(ctx context.Context) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to connect to database")
		return newError(ConnectionError, opInit, err)
	}
	defer conn.Close()

	const createTableQuery = `
CREATE TABLE IF NOT EXISTS todo_list
(
    id   INTEGER PRIMARY KEY,
    item VARCHAR(64) NOT NULL
)
`
	_, err = conn.ExecContext(ctx, createTableQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create todo_list table")
		return classifySQLiteError(ExecutionError, opInit, err)
	}

	s.logger.Info().Msg("ensured todo_list table")
	return nil
}

func (s *sqliteTodoService) GetItems(ctx context.Context) ([]models.Item, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to connect to database")
		return nil, newError(ConnectionError, opGet, err)
	}
	defer conn.Close()

	const selectItemsQuery = `
SELECT id,
       item
FROM todo_list
ORDER BY id
`
	stmt, err := conn.PrepareContext(ctx, selectItemsQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to prepare a query")
		return nil, classifySQLiteError(PrepareError, opGet, err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select items")
		return nil, classifySQLiteError(ExecutionError, opGet, err)
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
		return nil, classifySQLiteError(ExecutionError, opGet, err)
	}

	s.logger.Debug().
		Int("count", len(items)).
		Msg("selected items")
	return items, nil
}

func (s *sqliteTodoService) CreateItem(ctx context.Context, item string) (int64, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to connect to database")
		return 0, newError(ConnectionError, opCreate, err)
	}
	defer conn.Close()

	const insertItemQuery = `
INSERT INTO todo_list (id, item)
VALUES (NULL, $1)
`
	stmt, err := conn.PrepareContext(ctx, insertItemQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to prepare a query")
		return 0, classifySQLiteError(PrepareError, opCreate, err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, item)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert item")
		return 0, classifySQLiteError(ExecutionError, opCreate, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count inserted rows")
		return 0, newError(ExecutionError, opCreate, err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		s.logger.Debug().
			Int64("item_id", id).
			Msg("inserted item")
	}

	s.logger.Info().
		Int64("count", inserted).
		Msg("created item")
	return inserted, nil
}

func (s *sqliteTodoService) DeleteItem(ctx context.Context, id int64) (int64, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to connect to database")
		return 0, newError(ConnectionError, opDelete, err)
	}
	defer conn.Close()

	const deleteItemQuery = `
DELETE FROM todo_list
WHERE id = $1
`
	stmt, err := conn.PrepareContext(ctx, deleteItemQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to prepare a query")
		return 0, classifySQLiteError(PrepareError, opDelete, err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("item_id", id).
			Msg("failed to delete item")
		return 0, classifySQLiteError(ExecutionError, opDelete, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count deleted rows")
		return 0, newError(ExecutionError, opDelete, err)
	}
	if deleted == 0 {
		s.logger.Warn().
			Int64("item_id", id).
			Msg("item not found")
	}

	s.logger.Info().
		Int64("item_id", id).
		Int64("count", deleted).
		Msg("deleted item")
	return deleted, nil
}

func (s *sqliteTodoService) Close() error {
	return s.db.Close()
}

// SQLite opens the database file lazily, so an unreadable or foreign file
// only surfaces once the first statement runs.
func classifySQLiteError(kind ErrorKind, op string, err error) *Error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrCantOpen,
			sqlite3.ErrNotADB,
			sqlite3.ErrPerm,
			sqlite3.ErrAuth:
			kind = ConnectionError
		}
	}
	return newError(kind, op, err)
}
