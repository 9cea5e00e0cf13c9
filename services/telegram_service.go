// services/telegram_service.go
package services

import (
	"fmt"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/motoventas/crm_backend/models"
)

// TelegramService pushes branch notifications to the dealership's Telegram
// group. Delivery is best effort: failures are logged and never propagated,
// a dead bot must not block a sale.
type TelegramService struct {
	bot         *tgbotapi.BotAPI
	groupChatID int64
	log         *logrus.Logger
}

// NewTelegramServiceFromEnv builds the service from TELEGRAM_BOT_TOKEN and
// TELEGRAM_GROUP_CHAT_ID. With no token the service stays disabled and
// every send is a no-op.
func NewTelegramServiceFromEnv(log *logrus.Logger) *TelegramService {
	svc := &TelegramService{log: log}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Warn("TELEGRAM_BOT_TOKEN not set, telegram notifications disabled")
		return svc
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.WithError(err).Warn("telegram bot init failed, notifications disabled")
		return svc
	}
	svc.bot = bot

	if chatStr := os.Getenv("TELEGRAM_GROUP_CHAT_ID"); chatStr != "" {
		if chatID, err := strconv.ParseInt(chatStr, 10, 64); err == nil {
			svc.groupChatID = chatID
		} else {
			log.WithError(err).Warn("invalid TELEGRAM_GROUP_CHAT_ID")
		}
	}
	return svc
}

// Send delivers text to one chat, best effort.
func (t *TelegramService) Send(chatID int64, text string) {
	if t.bot == nil || chatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		t.log.WithError(err).WithField("chatId", chatID).Warn("telegram send failed")
	}
}

// NotifySale announces a committed sale in the branch group.
func (t *TelegramService) NotifySale(sale *models.Sale, salespersonName string) {
	text := fmt.Sprintf("🏍 %s sold a %s to %s for $%s", salespersonName,
		sale.MotorcycleModel, sale.ProspectName, sale.Amount.String())
	if sale.Notes != "" {
		text += " (special order)"
	}
	t.Send(t.groupChatID, text)
}

// NotifyGoals announces the new per-person goals after a distribution.
func (t *TelegramService) NotifyGoals(perSales string, perCredits int, salespeople int) {
	text := fmt.Sprintf("🎯 Sprint goals updated: $%s in sales and %d credits each, across %d salespeople",
		perSales, perCredits, salespeople)
	t.Send(t.groupChatID, text)
}
