package telegram

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gowaffles/assistant/internal/domain"
	"github.com/gowaffles/assistant/internal/metrics"
	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Second

// Sender delivers replies through the Telegram Bot API sendMessage method
type Sender struct {
	bot     *tgbotapi.BotAPI
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewSender builds a sender for token without calling getMe.
// An empty token yields an unconfigured sender.
func NewSender(token, apiEndpoint string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sender{
		logger:  logger.With(zap.String("component", "telegram_sender")),
		metrics: m,
	}
	if token == "" {
		return s
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if apiEndpoint == "" {
		apiEndpoint = tgbotapi.APIEndpoint
	}

	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: timeout},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(apiEndpoint)
	s.bot = bot

	return s
}

// Configured reports whether a bot token is present
func (s *Sender) Configured() bool {
	return s.bot != nil
}

// SendText posts {chat_id, text} to sendMessage
func (s *Sender) SendText(chatID int64, text string) error {
	if s.bot == nil {
		return domain.ErrSenderNotConfigured
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := s.bot.Send(msg); err != nil {
		s.observe("error")
		return fmt.Errorf("%w: chat %d: %v", domain.ErrTelegramSend, chatID, err)
	}

	s.observe("ok")
	s.logger.Debug("reply delivered", zap.Int64("chat_id", chatID), zap.Int("chars", len([]rune(text))))
	return nil
}

func (s *Sender) observe(result string) {
	if s.metrics != nil {
		s.metrics.TelegramSends.WithLabelValues(result).Inc()
	}
}
