// Package router wires the gin engine with the reporting API routes.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reportbot/internal/server/handlers"
)

// Handlers bundles every HTTP adapter the router mounts.
type Handlers struct {
	ShiftReports      *handlers.ShiftReportHandler
	DailyInventories  *handlers.DailyInventoryHandler
	GoodsReports      *handlers.GoodsReportHandler
	WriteoffTransfers *handlers.WriteoffTransferHandler
	InventoryItems    *handlers.InventoryItemHandler
	TelegramWebhook   *handlers.TelegramWebhookHandler
}

// New wires the gin engine with routes and middlewares. uploadsDir is served
// statically so the mini-app can show stored photos back to the user.
func New(h Handlers, uploadsDir string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(corsMiddleware())

	shiftReports := r.Group("/shift-reports")
	{
		shiftReports.POST("/create", h.ShiftReports.Create)
		shiftReports.GET("", h.ShiftReports.List)
		shiftReports.GET("/export", h.ShiftReports.Export)
		shiftReports.GET("/:id", h.ShiftReports.Get)
	}

	inventory := r.Group("/daily-inventory-v2")
	{
		inventory.POST("/create", h.DailyInventories.Create)
		inventory.GET("", h.DailyInventories.List)
		inventory.GET("/:id", h.DailyInventories.Get)
		inventory.GET("/:id/detailed", h.DailyInventories.GetDetailed)
	}

	goods := r.Group("/report-on-goods")
	{
		goods.POST("/create", h.GoodsReports.Create)
		goods.POST("/send-photo", h.GoodsReports.SendPhotos)
		goods.GET("", h.GoodsReports.List)
		goods.GET("/:id", h.GoodsReports.Get)
	}

	acts := r.Group("/writeoff-transfer")
	{
		acts.POST("/create", h.WriteoffTransfers.Create)
		acts.GET("", h.WriteoffTransfers.List)
		acts.GET("/:id", h.WriteoffTransfers.Get)
	}

	catalog := r.Group("/inventory-management")
	{
		catalog.GET("/items", h.InventoryItems.List)
		catalog.POST("/items", h.InventoryItems.Create)
		catalog.GET("/items/:id", h.InventoryItems.Get)
		catalog.PUT("/items/:id", h.InventoryItems.Update)
		catalog.DELETE("/items/:id", h.InventoryItems.Deactivate)
		catalog.GET("/categories", h.InventoryItems.Categories)
	}

	webhook := r.Group("/telegram")
	{
		webhook.POST("/webhook", h.TelegramWebhook.Receive)
		webhook.GET("/webhook/info", h.TelegramWebhook.Info)
		webhook.POST("/webhook/set", h.TelegramWebhook.Set)
		webhook.DELETE("/webhook", h.TelegramWebhook.Delete)
	}

	r.Static("/uploads", uploadsDir)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

// corsMiddleware allows any origin. The API sits behind a Telegram mini-app
// whose web view origin is not fixed.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
