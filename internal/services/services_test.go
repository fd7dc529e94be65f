package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := newError(ExecutionError, opDelete, cause)

	if got, want := err.Error(), "delete item: execution error: disk I/O error"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if !errors.Is(err, cause) {
		t.Error("expected error to unwrap to its cause")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("boom"), 0},
		{"connection", newError(ConnectionError, opGet, errors.New("boom")), ConnectionError},
		{"wrapped prepare", fmt.Errorf("handler: %w", newError(PrepareError, opGet, errors.New("boom"))), PrepareError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestErrorKindString(t *testing.T) {
	kinds := map[ErrorKind]string{
		ConnectionError: "connection",
		PrepareError:    "prepare",
		ExecutionError:  "execution",
		ErrorKind(0):    "unknown",
	}
	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
