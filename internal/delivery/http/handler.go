package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gowaffles/assistant/internal/domain"
	"go.uber.org/zap"
)

// User-facing details; error causes only go to the log
const (
	detailTelegramNotConfigured = "Token de Telegram no configurado"
	detailTelegramSendFailed    = "No se pudo enviar la respuesta a Telegram"
	detailMissingMessage        = "Falta el campo 'mensaje'"
)

// Replier turns an inbound message into the assistant reply
type Replier interface {
	ComposeReply(ctx context.Context, message string) string
}

// Configurable reports whether a collaborator has its credentials
type Configurable interface {
	Configured() bool
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	replier    Replier
	sender     domain.MessageSender
	completion Configurable
	webhookURL string
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(replier Replier, sender domain.MessageSender, completion Configurable, webhookURL string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		replier:    replier,
		sender:     sender,
		completion: completion,
		webhookURL: webhookURL,
		logger:     logger.With(zap.String("component", "handler")),
	}
}

// webRequest is the body accepted by the web webhook
type webRequest struct {
	Mensaje string `json:"mensaje"`
}

// HealthCheck reports which credentials are configured
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":              "ok",
		"openai_configured":   h.completion != nil && h.completion.Configured(),
		"telegram_configured": h.sender != nil && h.sender.Configured(),
		"webhook_url":         h.webhookURL,
	})
}

// TelegramWebhook answers a Telegram update in the originating chat.
// It always responds 200 so Telegram never redelivers the update.
func (h *Handler) TelegramWebhook(c *gin.Context) {
	logger := h.logger.With(zap.String("request_id", c.GetString(requestIDKey)))

	if h.sender == nil || !h.sender.Configured() {
		logger.Error("telegram webhook called without a bot token")
		c.JSON(http.StatusOK, gin.H{"status": "error", "detalle": detailTelegramNotConfigured})
		return
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		logger.Warn("ignoring undecodable update", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil || strings.TrimSpace(msg.Text) == "" {
		logger.Info("ignoring update without text or chat", zap.Int("update_id", update.UpdateID))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	chatID := msg.Chat.ID
	logger.Info("telegram message received", zap.Int64("chat_id", chatID), zap.Int("update_id", update.UpdateID))

	reply := h.replier.ComposeReply(c.Request.Context(), msg.Text)

	if err := h.sender.SendText(chatID, reply); err != nil {
		logger.Error("failed to deliver reply", zap.Int64("chat_id", chatID), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "error", "detalle": detailTelegramSendFailed})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// WebWebhook answers a {"mensaje": ...} body synchronously
func (h *Handler) WebWebhook(c *gin.Context) {
	var req webRequest
	if err := bindWebRequest(c, &req); err != nil {
		h.logger.Info("rejecting web request",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "detalle": detailMissingMessage})
		return
	}

	reply := h.replier.ComposeReply(c.Request.Context(), req.Mensaje)
	c.JSON(http.StatusOK, gin.H{"respuesta": reply})
}

func bindWebRequest(c *gin.Context, req *webRequest) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if strings.TrimSpace(req.Mensaje) == "" {
		return fmt.Errorf("%w: mensaje is missing or blank", domain.ErrInvalidRequest)
	}
	return nil
}
