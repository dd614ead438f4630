package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reportbot/internal/domain/models"
	"reportbot/internal/service/bot"
	"reportbot/pkg/clients/telegram"
)

// TelegramWebhookHandler serves the Bot API webhook surface.
type TelegramWebhookHandler struct {
	bot    *bot.Service
	client telegram.Client
	logger *zap.Logger
}

// NewTelegramWebhookHandler constructs the handler.
func NewTelegramWebhookHandler(botSvc *bot.Service, client telegram.Client, logger *zap.Logger) *TelegramWebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TelegramWebhookHandler{bot: botSvc, client: client, logger: logger}
}

// Receive ingests one webhook update. The response is always 200 {"ok":true}:
// any other status makes Telegram retry the same update indefinitely.
func (h *TelegramWebhookHandler) Receive(c *gin.Context) {
	var update models.TelegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.logger.Warn("malformed webhook update", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	h.bot.HandleUpdate(c.Request.Context(), update)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Info returns the current webhook registration.
func (h *TelegramWebhookHandler) Info(c *gin.Context) {
	info, err := h.client.GetWebhookInfo(c.Request.Context())
	if err != nil {
		h.logger.Error("webhook info failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to read webhook info"})
		return
	}

	c.JSON(http.StatusOK, info)
}

// Set registers the webhook, deriving the public URL from the request host.
func (h *TelegramWebhookHandler) Set(c *gin.Context) {
	scheme := "https"
	if c.Request.TLS == nil && c.GetHeader("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}
	url := fmt.Sprintf("%s://%s/telegram/webhook", scheme, c.Request.Host)

	if err := h.client.SetWebhook(c.Request.Context(), url); err != nil {
		h.logger.Error("webhook registration failed", zap.String("url", url), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to set webhook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "url": url})
}

// Delete removes the webhook registration.
func (h *TelegramWebhookHandler) Delete(c *gin.Context) {
	if err := h.client.DeleteWebhook(c.Request.Context()); err != nil {
		h.logger.Error("webhook removal failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to delete webhook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
