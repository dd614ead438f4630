package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reportbot/internal/domain/models"
	"reportbot/internal/repository/postgres"
	"reportbot/internal/service/reports"
)

// DailyInventoryHandler serves the catalog-driven inventory endpoints.
type DailyInventoryHandler struct {
	svc    *reports.Service
	store  *postgres.DailyInventories
	logger *zap.Logger
}

// NewDailyInventoryHandler constructs the handler.
func NewDailyInventoryHandler(svc *reports.Service, store *postgres.DailyInventories, logger *zap.Logger) *DailyInventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyInventoryHandler{svc: svc, store: store, logger: logger}
}

// Create ingests a JSON inventory submission. One stale catalog reference
// rejects the whole submission with the full list of offending ids.
func (h *DailyInventoryHandler) Create(c *gin.Context) {
	var cmd models.CreateDailyInventory
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inventory payload"})
		return
	}
	if len(cmd.Entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "inventory_data must not be empty"})
		return
	}
	if err := validateInventoryEntries(cmd.Entries); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inventory, err := h.svc.CreateDailyInventory(c.Request.Context(), cmd)
	var missing *reports.MissingItemsError
	if errors.As(err, &missing) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            "unknown or inactive inventory items",
			"missing_item_ids": missing.IDs,
		})
		return
	}
	if err != nil {
		h.logger.Error("inventory creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create inventory"})
		return
	}

	c.JSON(http.StatusCreated, inventory)
}

// validateInventoryEntries rejects negative quantities; a zero count is a
// valid observation.
func validateInventoryEntries(entries []models.InventoryEntry) error {
	for i, entry := range entries {
		if entry.Quantity < 0 {
			return fmt.Errorf("inventory entry %d: quantity must not be negative", i+1)
		}
	}
	return nil
}

// Get returns one inventory with raw entries.
func (h *DailyInventoryHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	inventory, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "inventory not found"})
		return
	}
	if err != nil {
		h.logger.Error("inventory read failed", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read inventory"})
		return
	}

	c.JSON(http.StatusOK, inventory)
}

// GetDetailed returns one inventory with entries resolved against the
// catalog; deactivated items carry placeholder names.
func (h *DailyInventoryHandler) GetDetailed(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	detailed, err := h.store.GetDetailed(c.Request.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "inventory not found"})
		return
	}
	if err != nil {
		h.logger.Error("detailed inventory read failed", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read inventory"})
		return
	}

	c.JSON(http.StatusOK, detailed)
}

// List returns inventories filtered by location.
func (h *DailyInventoryHandler) List(c *gin.Context) {
	items, total, err := h.store.List(c.Request.Context(), postgres.InventoryFilter{
		Location:   c.Query("location"),
		Pagination: paginationQuery(c),
	})
	if err != nil {
		h.logger.Error("inventory list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list inventories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}
