package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-sqlite/internal/models"
)

type itemResponse struct {
	ID   int64  `json:"id"`
	Item string `json:"item"`
}

type getItemsResponse struct {
	Items []itemResponse `json:"items"`
}

func newGetItemsResponse(items []models.Item) getItemsResponse {
	response := getItemsResponse{
		Items: make([]itemResponse, len(items)),
	}
	for i, item := range items {
		response.Items[i] = itemResponse{
			ID:   item.ID,
			Item: item.Item,
		}
	}
	return response
}

type statusMessageResponse struct {
	Message string `json:"message"`
}

func (h *handlerImpl) HandleIndex(c *gin.Context) {
	c.String(http.StatusOK, "Hello, world!")
}

func (h *handlerImpl) HandleGetItems(c *gin.Context) {
	logger := h.requestLogger(c)

	items, err := h.todos.GetItems(c)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to get items")
		abort(c, newServiceError(err, serviceMessages{
			prepare:   msgPrepareFailed,
			execution: msgFetchFailed,
			mapping:   msgCollectFailed,
		}))
		return
	}

	logger.Info().
		Int("count", len(items)).
		Msg("fetched items")
	c.JSON(http.StatusOK, newGetItemsResponse(items))
}

func (h *handlerImpl) HandleCreateItem(c *gin.Context) {
	logger := h.requestLogger(c)

	raw, err := c.GetRawData()
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to read body")
		abort(c, newBadRequestError(msgInvalidBody))
		return
	}

	item, err := h.body.decode(raw)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to decode body")
		abort(c, newBadRequestError(msgInvalidBody))
		return
	}

	inserted, err := h.todos.CreateItem(c, item)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to create item")
		abort(c, newServiceError(err, serviceMessages{
			prepare:   msgInsertFailed,
			execution: msgInsertFailed,
		}))
		return
	}

	logger.Info().
		Int64("count", inserted).
		Msg("created item")
	c.JSON(http.StatusOK, statusMessageResponse{
		Message: fmt.Sprintf("%d rows inserted!", inserted),
	})
}

func (h *handlerImpl) HandleDeleteItem(c *gin.Context) {
	logger := h.requestLogger(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error().
			Err(err).
			Str("id", c.Param("id")).
			Msg("invalid item id")
		abort(c, newBadRequestError(msgInvalidItemID))
		return
	}

	deleted, err := h.todos.DeleteItem(c, id)
	if err != nil {
		logger.Error().
			Err(err).
			Int64("item_id", id).
			Msg("failed to delete item")
		abort(c, newServiceError(err, serviceMessages{
			prepare:   msgDeleteFailed,
			execution: msgDeleteFailed,
		}))
		return
	}

	logger.Info().
		Int64("item_id", id).
		Int64("count", deleted).
		Msg("deleted item")
	c.JSON(http.StatusOK, statusMessageResponse{
		Message: fmt.Sprintf("%d rows deleted", deleted),
	})
}
