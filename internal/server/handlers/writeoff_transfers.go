package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reportbot/internal/domain/models"
	"reportbot/internal/repository/postgres"
	"reportbot/internal/service/reports"
)

// WriteoffTransferHandler serves the write-off/transfer act endpoints.
type WriteoffTransferHandler struct {
	svc    *reports.Service
	store  *postgres.WriteoffTransfers
	logger *zap.Logger
}

// NewWriteoffTransferHandler constructs the handler.
func NewWriteoffTransferHandler(svc *reports.Service, store *postgres.WriteoffTransfers, logger *zap.Logger) *WriteoffTransferHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WriteoffTransferHandler{svc: svc, store: store, logger: logger}
}

// Create ingests the act form: two optional item JSON arrays, at least one of
// which must be non-empty.
func (h *WriteoffTransferHandler) Create(c *gin.Context) {
	cmd := models.CreateWriteoffTransfer{
		Location:    c.PostForm("location"),
		ShiftType:   c.PostForm("shift_type"),
		CashierName: c.PostForm("cashier_name"),
	}

	if cmd.Location == "" || cmd.CashierName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location and cashier_name are required"})
		return
	}
	if !validShiftType(cmd.ShiftType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shift_type must be morning or night"})
		return
	}

	if raw := c.PostForm("report_date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report_date, expected YYYY-MM-DD"})
			return
		}
		cmd.ReportDate = &date
	}

	var err error
	if cmd.Writeoffs, err = parseActItems(c.PostForm("writeoffs_json"), "writeoffs_json"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cmd.Transfers, err = parseActItems(c.PostForm("transfers_json"), "transfers_json"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	act, err := h.svc.CreateWriteoffTransfer(c.Request.Context(), cmd)
	if errors.Is(err, reports.ErrEmptyAct) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("act creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create act"})
		return
	}

	c.JSON(http.StatusCreated, act)
}

// Get returns one act.
func (h *WriteoffTransferHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	act, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "act not found"})
		return
	}
	if err != nil {
		h.logger.Error("act read failed", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read act"})
		return
	}

	c.JSON(http.StatusOK, act)
}

// List returns acts filtered by location.
func (h *WriteoffTransferHandler) List(c *gin.Context) {
	items, total, err := h.store.List(c.Request.Context(), postgres.ActFilter{
		Location:   c.Query("location"),
		Pagination: paginationQuery(c),
	})
	if err != nil {
		h.logger.Error("act list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list acts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// parseActItems decodes one optional item array and rejects non-positive
// weights.
func parseActItems(raw, field string) ([]models.ActItem, error) {
	if raw == "" {
		return nil, nil
	}
	var items []models.ActItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s", field)
	}
	for i, item := range items {
		if item.Weight.Sign() <= 0 {
			return nil, fmt.Errorf("%s item %d: weight must be positive", field, i+1)
		}
	}
	return items, nil
}
