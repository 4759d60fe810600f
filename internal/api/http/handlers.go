// Package http exposes the command catalog over the local HTTP API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/launchdeck/backend/internal/catalog"
	"github.com/launchdeck/backend/internal/executor"
	"github.com/launchdeck/backend/internal/infrastructure/logging"
	"github.com/launchdeck/backend/internal/shared/types"
)

// Handlers serves the catalog endpoints.
type Handlers struct {
	catalog  *catalog.Catalog
	executor *executor.Executor
	log      *logging.Logger
}

// NewHandlers creates the catalog handlers.
func NewHandlers(cat *catalog.Catalog, exec *executor.Executor, log *logging.Logger) *Handlers {
	return &Handlers{catalog: cat, executor: exec, log: log}
}

// Register mounts the routes on the router.
func (h *Handlers) Register(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/commands", h.Commands)
	r.GET("/commands/stats", h.Stats)
	r.POST("/commands/execute", h.Execute)
	r.POST("/commands/invalidate", h.Invalidate)
}

// Health reports liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Commands returns the merged, sorted catalog. Idempotent within the cache
// TTL; otherwise it triggers a rebuild.
func (h *Handlers) Commands(c *gin.Context) {
	entries := h.catalog.Commands(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"commands": entries,
		"count":    len(entries),
	})
}

// Stats summarizes the current snapshot.
func (h *Handlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Stats())
}

// Execute dispatches a command by id. Unknown ids and exhausted fallback
// chains both report success=false; the executor never surfaces errors.
func (h *Handlers) Execute(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	ok := h.executor.Execute(c.Request.Context(), req.ID)
	c.JSON(http.StatusOK, types.ExecuteResponse{Success: ok, ID: req.ID})
}

// Invalidate forces the next catalog request to rebuild.
func (h *Handlers) Invalidate(c *gin.Context) {
	h.catalog.Invalidate()
	c.JSON(http.StatusOK, gin.H{"invalidated": true})
}
