package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reportbot/internal/domain/models"
	"reportbot/internal/repository/postgres"
	"reportbot/internal/service/reports"
	"reportbot/pkg/clients/telegram"
)

// maxGoodsPhotoSize bounds one attached photo; maxGoodsPhotoCount mirrors the
// Bot API media-group limit so nothing accepted here is dropped on delivery.
const (
	maxGoodsPhotoSize  = 20 << 20
	maxGoodsPhotoCount = 10
)

// GoodsReportHandler serves the goods delivery report endpoints.
type GoodsReportHandler struct {
	svc    *reports.Service
	store  *postgres.GoodsReports
	logger *zap.Logger
}

// NewGoodsReportHandler constructs the handler.
func NewGoodsReportHandler(svc *reports.Service, store *postgres.GoodsReports, logger *zap.Logger) *GoodsReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoodsReportHandler{svc: svc, store: store, logger: logger}
}

// Create ingests the multipart goods report form: up to three category JSON
// arrays and any number of photos. Photos are relayed, never persisted.
func (h *GoodsReportHandler) Create(c *gin.Context) {
	cmd := models.CreateGoodsReport{
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
	if cmd.Kitchen, err = parseGoodsItems(c.PostForm("kuxnya_json"), "kuxnya_json"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cmd.Bar, err = parseGoodsItems(c.PostForm("bar_json"), "bar_json"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cmd.Packaging, err = parseGoodsItems(c.PostForm("upakovki_json"), "upakovki_json"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photos, err := readPhotoUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.svc.CreateGoodsReport(c.Request.Context(), cmd, photos)
	if err != nil {
		h.logger.Error("goods report creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create goods report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}

// Get returns one goods report.
func (h *GoodsReportHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	report, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "goods report not found"})
		return
	}
	if err != nil {
		h.logger.Error("goods report read failed", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read goods report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// List returns goods reports filtered by location.
func (h *GoodsReportHandler) List(c *gin.Context) {
	items, total, err := h.store.List(c.Request.Context(), postgres.GoodsReportFilter{
		Location:   c.Query("location"),
		Pagination: paginationQuery(c),
	})
	if err != nil {
		h.logger.Error("goods report list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list goods reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// SendPhotos relays late photos for a location straight to its topic,
// synchronously, without creating a report.
func (h *GoodsReportHandler) SendPhotos(c *gin.Context) {
	location := c.PostForm("location")
	if location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location is required"})
		return
	}

	photos, err := readPhotoUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(photos) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one photo is required"})
		return
	}

	if !h.svc.SendLoosePhotos(c.Request.Context(), location, c.PostForm("message"), photos) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to deliver photos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "sent": len(photos)})
}

// parseGoodsItems decodes one optional category array and rejects
// non-positive counts.
func parseGoodsItems(raw, field string) ([]models.GoodsItem, error) {
	if raw == "" {
		return nil, nil
	}
	var items []models.GoodsItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s", field)
	}
	for i, item := range items {
		if item.Count <= 0 {
			return nil, fmt.Errorf("%s item %d: count must be positive", field, i+1)
		}
	}
	return items, nil
}

// readPhotoUploads loads the "photos" multipart files into memory, enforcing
// the photo count cap, the per-file size cap and image content type.
func readPhotoUploads(c *gin.Context) ([]telegram.AlbumPhoto, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}

	files := form.File["photos"]
	if len(files) > maxGoodsPhotoCount {
		return nil, fmt.Errorf("at most %d photos can be attached", maxGoodsPhotoCount)
	}
	photos := make([]telegram.AlbumPhoto, 0, len(files))
	for _, file := range files {
		photo, err := readPhotoUpload(file)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, nil
}

func readPhotoUpload(file *multipart.FileHeader) (telegram.AlbumPhoto, error) {
	if file.Size > maxGoodsPhotoSize {
		return telegram.AlbumPhoto{}, fmt.Errorf("photo %s exceeds the 20MB limit", file.Filename)
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return telegram.AlbumPhoto{}, fmt.Errorf("photo %s is not an image", file.Filename)
	}

	src, err := file.Open()
	if err != nil {
		return telegram.AlbumPhoto{}, fmt.Errorf("open photo %s: %w", file.Filename, err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return telegram.AlbumPhoto{}, fmt.Errorf("read photo %s: %w", file.Filename, err)
	}

	return telegram.AlbumPhoto{
		Filename:    file.Filename,
		Content:     content,
		ContentType: contentType,
	}, nil
}
