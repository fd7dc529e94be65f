package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-sqlite/internal/services"
)

const (
	msgConnectFailed     = "failed to connect to database"
	msgPrepareFailed     = "failed to prepare a query"
	msgFetchFailed       = "failed to fetch items"
	msgCollectFailed     = "could not collect items"
	msgInsertFailed      = "failed to insert item"
	msgDeleteFailed      = "failed to delete item"
	msgInvalidBody       = "invalid request body"
	msgInvalidItemID     = "invalid item id"
	msgInternalServerErr = "internal server error"
)

type apiError struct {
	Code    int
	Message string
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

// abort writes the error message as a plain text body.
func abort(c *gin.Context, err apiError) {
	c.String(err.Code, err.Message)
	c.Abort()
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

// serviceMessages holds the per-handler messages. Connection failures
// are reported the same way by every handler.
type serviceMessages struct {
	prepare   string
	execution string
	mapping   string
}

func newServiceError(err error, msgs serviceMessages) apiError {
	switch services.KindOf(err) {
	case services.ConnectionError:
		return newAPIError(http.StatusServiceUnavailable, msgConnectFailed)
	case services.PrepareError:
		return newAPIError(http.StatusInternalServerError, msgs.prepare)
	case services.ExecutionError:
		if msgs.mapping != "" && errors.Is(err, services.ErrRowMapping) {
			return newAPIError(http.StatusInternalServerError, msgs.mapping)
		}
		return newAPIError(http.StatusInternalServerError, msgs.execution)
	default:
		return newAPIError(http.StatusInternalServerError, msgs.execution)
	}
}
