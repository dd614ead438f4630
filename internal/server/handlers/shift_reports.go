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
	"reportbot/internal/service/export"
	"reportbot/internal/service/reports"
	"reportbot/internal/service/storage"
)

// ShiftReportHandler serves the shift closing report endpoints.
type ShiftReportHandler struct {
	svc    *reports.Service
	store  *postgres.ShiftReports
	logger *zap.Logger
}

// NewShiftReportHandler constructs the handler.
func NewShiftReportHandler(svc *reports.Service, store *postgres.ShiftReports, logger *zap.Logger) *ShiftReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiftReportHandler{svc: svc, store: store, logger: logger}
}

// Create ingests the multipart shift report form: scalar money fields,
// optional income/expense JSON arrays and a mandatory photo. The report is
// answered as created even when Telegram delivery later fails; delivery is
// queued, not awaited.
func (h *ShiftReportHandler) Create(c *gin.Context) {
	cmd := models.CreateShiftReport{
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

	var err error
	if cmd.TotalRevenue, err = decimalForm(c, "total_revenue"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid total_revenue"})
		return
	}
	if cmd.Returns, err = decimalForm(c, "returns"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid returns"})
		return
	}
	if cmd.Acquiring, err = decimalForm(c, "acquiring"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid acquiring"})
		return
	}
	if cmd.QRCode, err = decimalForm(c, "qr_code"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid qr_code"})
		return
	}
	if cmd.OnlineApp, err = decimalForm(c, "online_app"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid online_app"})
		return
	}
	if cmd.YandexFood, err = decimalForm(c, "yandex_food"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid yandex_food"})
		return
	}
	if cmd.YandexFoodNoSystem, err = decimalForm(c, "yandex_food_no_system"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid yandex_food_no_system"})
		return
	}
	if cmd.Primehill, err = decimalForm(c, "primehill"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid primehill"})
		return
	}
	if cmd.FactCash, err = decimalForm(c, "fact_cash"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fact_cash"})
		return
	}

	cmd.IncomeEntries, err = parseIncomeEntries(c.PostForm("income_entries_json"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.ExpenseEntries, err = parseExpenseEntries(c.PostForm("expense_entries_json"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if comments := c.PostForm("comments"); comments != "" {
		cmd.Comments = &comments
	}

	photo, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo is required"})
		return
	}

	report, err := h.svc.CreateShiftReport(c.Request.Context(), cmd, photo)
	if errors.Is(err, storage.ErrUnsupportedType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("shift report creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create shift report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}

// Get returns one report by id.
func (h *ShiftReportHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	report, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "shift report not found"})
		return
	}
	if err != nil {
		h.logger.Error("shift report read failed", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read shift report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// List returns reports filtered by location and date range.
func (h *ShiftReportHandler) List(c *gin.Context) {
	filter, ok := h.filterFromQuery(c)
	if !ok {
		return
	}

	items, total, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("shift report list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list shift reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// Export streams the filtered reports as an xlsx attachment.
func (h *ShiftReportHandler) Export(c *gin.Context) {
	filter, ok := h.filterFromQuery(c)
	if !ok {
		return
	}

	items, _, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("shift report export read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export shift reports"})
		return
	}

	workbook, err := export.ShiftReports(items)
	if err != nil {
		h.logger.Error("workbook build failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook"})
		return
	}

	filename := fmt.Sprintf("shift_reports_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		h.logger.Error("workbook write failed", zap.Error(err))
	}
}

func (h *ShiftReportHandler) filterFromQuery(c *gin.Context) (postgres.ShiftReportFilter, bool) {
	filter := postgres.ShiftReportFilter{
		Location:   c.Query("location"),
		Pagination: paginationQuery(c),
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return filter, false
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return filter, false
		}
		// Inclusive end date: the store filters with date < to.
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}

	return filter, true
}

// parseIncomeEntries decodes the optional income_entries_json form field and
// rejects non-positive amounts.
func parseIncomeEntries(raw string) ([]models.IncomeEntry, error) {
	if raw == "" {
		return nil, nil
	}

	var entries []models.IncomeEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, errors.New("invalid income_entries_json")
	}
	for i, entry := range entries {
		if entry.Amount.Sign() <= 0 {
			return nil, fmt.Errorf("income entry %d: amount must be positive", i+1)
		}
	}
	return entries, nil
}

// parseExpenseEntries decodes the optional expense_entries_json form field
// and rejects non-positive amounts.
func parseExpenseEntries(raw string) ([]models.ExpenseEntry, error) {
	if raw == "" {
		return nil, nil
	}

	var entries []models.ExpenseEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, errors.New("invalid expense_entries_json")
	}
	for i, entry := range entries {
		if entry.Amount.Sign() <= 0 {
			return nil, fmt.Errorf("expense entry %d: amount must be positive", i+1)
		}
	}
	return entries, nil
}
