package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reportbot/internal/domain/models"
	"reportbot/internal/repository/postgres"
)

// InventoryItemHandler serves the catalog management endpoints.
type InventoryItemHandler struct {
	store  *postgres.InventoryItems
	logger *zap.Logger
}

// NewInventoryItemHandler constructs the handler.
func NewInventoryItemHandler(store *postgres.InventoryItems, logger *zap.Logger) *InventoryItemHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryItemHandler{store: store, logger: logger}
}

// Create adds a catalog item.
func (h *InventoryItemHandler) Create(c *gin.Context) {
	var cmd models.CreateInventoryItem
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item payload"})
		return
	}

	item := &models.InventoryItem{
		Name:        cmd.Name,
		Category:    cmd.Category,
		Unit:        cmd.Unit,
		Description: cmd.Description,
		SortOrder:   cmd.SortOrder,
		IsActive:    true,
	}
	if item.Category == "" {
		item.Category = "Прочее"
	}
	if item.Unit == "" {
		item.Unit = "шт"
	}
	if cmd.IsActive != nil {
		item.IsActive = *cmd.IsActive
	}

	err := h.store.Create(c.Request.Context(), item)
	if errors.Is(err, postgres.ErrDuplicateName) {
		c.JSON(http.StatusConflict, gin.H{"error": "item name already exists"})
		return
	}
	if err != nil {
		h.logger.Error("item creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Get returns one catalog item.
func (h *InventoryItemHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	item, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	if err != nil {
		h.logger.Error("item read failed", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// List returns catalog items with optional category/active filters.
func (h *InventoryItemHandler) List(c *gin.Context) {
	filter := postgres.ItemFilter{
		Category:   c.Query("category"),
		Pagination: paginationQuery(c),
	}
	switch c.Query("is_active") {
	case "true":
		active := true
		filter.IsActive = &active
	case "false":
		active := false
		filter.IsActive = &active
	}

	items, total, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("item list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// Update applies a partial update to a catalog item.
func (h *InventoryItemHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var cmd models.UpdateInventoryItem
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item payload"})
		return
	}

	item, err := h.store.Update(c.Request.Context(), id, cmd)
	if errors.Is(err, postgres.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	if errors.Is(err, postgres.ErrDuplicateName) {
		c.JSON(http.StatusConflict, gin.H{"error": "item name already exists"})
		return
	}
	if err != nil {
		h.logger.Error("item update failed", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// Deactivate soft-deletes a catalog item. Historical inventories keep
// rendering it through the placeholder path.
func (h *InventoryItemHandler) Deactivate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	err := h.store.Deactivate(c.Request.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	if err != nil {
		h.logger.Error("item deactivation failed", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Categories lists the distinct categories of active items.
func (h *InventoryItemHandler) Categories(c *gin.Context) {
	categories, err := h.store.Categories(c.Request.Context())
	if err != nil {
		h.logger.Error("categories read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
