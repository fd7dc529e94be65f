package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-sqlite/internal/services"
)

type Handler interface {
	HandleIndex(c *gin.Context)

	HandleGetItems(c *gin.Context)
	HandleCreateItem(c *gin.Context)
	HandleDeleteItem(c *gin.Context)

	HandleRequestID(c *gin.Context)
	HandleAccessLog(c *gin.Context)
	HandleRecovery(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	todos    services.TodoService
	body     *itemSchema
	recovery gin.HandlerFunc
}

func New(
	logger zerolog.Logger,
	todoService services.TodoService,
) Handler {
	return &handlerImpl{
		logger:   logger,
		todos:    todoService,
		body:     mustCompileItemSchema(),
		recovery: newRecovery(logger),
	}
}

// RegisterRoutes mounts the middleware and the fixed route set on router.
func RegisterRoutes(router *gin.Engine, h Handler) {
	// Handlers pass *gin.Context to the services, so it has to carry
	// the request's cancellation.
	router.ContextWithFallback = true

	router.Use(h.HandleRequestID)
	router.Use(h.HandleAccessLog)
	router.Use(h.HandleRecovery)

	router.GET("/", h.HandleIndex)
	router.GET("/todo", h.HandleGetItems)
	router.POST("/todo", h.HandleCreateItem)
	router.DELETE("/todo/:id", h.HandleDeleteItem)
}
