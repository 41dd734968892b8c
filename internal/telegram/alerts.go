// Package telegram pushes lifecycle alerts to an admin Telegram channel.
// The bot is optional: the service runs without it when no token is set.
package telegram

import (
	"fmt"
	"log"
	"strconv"

	"carwatch/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AlertService forwards hub events to one Telegram chat.
type AlertService struct {
	BotAPI *tgbotapi.BotAPI
	ChatID int64
	Events <-chan models.Event
}

// NewAlertService creates a bot bound to the admin chat and the hub's
// event stream.
func NewAlertService(token, chatID string, events <-chan models.Event) (*AlertService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Authorized on account %s", bot.Self.UserName)

	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}

	return &AlertService{
		BotAPI: bot,
		ChatID: id,
		Events: events,
	}, nil
}

// Run drains the event stream until it is closed.
func (s *AlertService) Run() {
	for event := range s.Events {
		text := formatAlert(event)
		if text == "" {
			continue
		}

		msg := tgbotapi.NewMessage(s.ChatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := s.BotAPI.Send(msg); err != nil {
			log.Printf("ERROR: Failed to send Telegram alert: %v", err)
		}
	}
}

// formatAlert renders one event as a Markdown message. Unknown event types
// are skipped.
func formatAlert(event models.Event) string {
	switch event.Type {
	case models.EventCarRegistered:
		return fmt.Sprintf("🚗 *New stolen car registered*\nPlate: `%s`", event.PlateNumber)
	case models.EventReportFiled:
		return fmt.Sprintf("👁 *New sighting reported*\nPlate: `%s`\nLocation: %s", event.PlateNumber, event.Location)
	case models.EventReportConfirmed:
		return fmt.Sprintf("✅ *Sighting confirmed*\nPlate: `%s` marked as found", event.PlateNumber)
	}
	return ""
}
