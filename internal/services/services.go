package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/adanyl0v/go-todo-sqlite/internal/models"
)

// ErrRowMapping is wrapped by an ExecutionError when a result row could
// not be scanned into a models.Item.
var ErrRowMapping = errors.New("row mapping failed")

type ErrorKind uint8

const (
	ConnectionError ErrorKind = iota + 1
	PrepareError
	ExecutionError
)

func (k ErrorKind) String() string {
	switch k {
	case ConnectionError:
		return "connection"
	case PrepareError:
		return "prepare"
	case ExecutionError:
		return "execution"
	default:
		return "unknown"
	}
}

// Error is returned by every TodoService method that fails in storage.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the ErrorKind carried by err, or 0 if err is not an *Error.
func KindOf(err error) ErrorKind {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind
	}
	return 0
}

type TodoService interface {
	// Init creates the todo_list table if it doesn't exist yet.
	Init(ctx context.Context) error

	// GetItems returns every stored item ordered by id. The result is
	// never nil. If any row can't be mapped, no items are returned and
	// the error wraps ErrRowMapping.
	GetItems(ctx context.Context) ([]models.Item, error)

	// CreateItem inserts the item with a storage-assigned id and returns
	// the number of inserted rows.
	CreateItem(ctx context.Context, item string) (int64, error)

	// DeleteItem removes the item with the given id and returns the
	// number of deleted rows, which is 0 if there was no such item.
	DeleteItem(ctx context.Context, id int64) (int64, error)

	Close() error
}

const (
	opInit   = "init"
	opGet    = "get items"
	opCreate = "create item"
	opDelete = "delete item"
)
