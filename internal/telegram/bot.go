package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/VS0178/move-bot-rec/internal/dialog"
	"github.com/VS0178/move-bot-rec/internal/present"
)

// Bot is the Telegram transport over the dialog machine. It maps updates to
// intents and renders dialog responses back as messages or edits.
type Bot struct {
	api         *tgbotapi.BotAPI
	machine     *dialog.Machine
	maxOverview int
}

// New creates a Bot with the given token.
func New(token string, machine *dialog.Machine, maxOverview int) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	slog.Info("telegram bot authorized", "username", api.Self.UserName)
	return &Bot{api: api, machine: machine, maxOverview: maxOverview}, nil
}

// Run starts long polling and blocks until ctx is done. Each update is
// handled to completion before the next one for the same user arrives.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			slog.Info("telegram bot stopped")
			return
		case update := <-updates:
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while handling update", "panic", r)
			if chatID := updateChatID(update); chatID != 0 {
				b.send(chatID, "⚠️ Something went wrong. Please try again later.", nil)
			}
		}
	}()

	switch {
	case update.Message != nil:
		b.handleMessage(update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	userID := msg.From.ID

	var ev dialog.Event
	switch msg.Command() {
	case "start":
		ev = dialog.Event{Intent: dialog.IntentStart}
	case "cancel":
		ev = dialog.Event{Intent: dialog.IntentCancel}
	default:
		if msg.IsCommand() {
			b.send(msg.Chat.ID, "Unknown command. Send /start to search for a movie.", nil)
			return
		}
		ev = dialog.Event{Intent: dialog.IntentText, Text: msg.Text}
	}

	resp := b.machine.Handle(userID, ev)
	b.respond(msg.Chat.ID, 0, resp)
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	// Acknowledge the tap so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		slog.Warn("failed to answer callback", "error", err)
	}
	if cq.Message == nil {
		return
	}

	var intent dialog.Intent
	switch cq.Data {
	case "random":
		intent = dialog.IntentSelectRandom
	case "rating":
		intent = dialog.IntentSelectRating
	case "year":
		intent = dialog.IntentSelectYear
	case "popularity":
		intent = dialog.IntentSelectPopularity
	case "about":
		intent = dialog.IntentAbout
	case "back":
		intent = dialog.IntentStart
	default:
		slog.Warn("unknown callback data", "data", cq.Data)
		return
	}

	resp := b.machine.Handle(cq.From.ID, dialog.Event{Intent: intent})
	b.respond(cq.Message.Chat.ID, cq.Message.MessageID, resp)
}

// respond renders one dialog response. A non-zero messageID means the event
// came from a button tap and the original message is edited in place;
// otherwise a new message is sent.
func (b *Bot) respond(chatID int64, messageID int, resp dialog.Response) {
	text := resp.Text
	parseMode := ""
	var markup *tgbotapi.InlineKeyboardMarkup

	switch resp.Kind {
	case dialog.KindMenu:
		kb := mainKeyboard()
		markup = &kb
	case dialog.KindAbout:
		kb := backKeyboard()
		markup = &kb
	case dialog.KindResult:
		card := present.Build(*resp.Movie, resp.Header, b.maxOverview)
		text = card.HTML()
		parseMode = tgbotapi.ModeHTML
		kb := resultKeyboard()
		markup = &kb
	}

	if messageID != 0 {
		b.edit(chatID, messageID, text, parseMode, markup)
		return
	}
	b.sendMode(chatID, text, parseMode, markup)
}

func (b *Bot) send(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	b.sendMode(chatID, text, "", markup)
}

func (b *Bot) sendMode(chatID int64, text, parseMode string, markup *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) edit(chatID int64, messageID int, text, parseMode string, markup *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = parseMode
	edit.ReplyMarkup = markup
	if _, err := b.api.Send(edit); err != nil {
		slog.Error("failed to edit message", "chat_id", chatID, "error", err)
	}
}

func mainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎬 Random movie", "random")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⭐ By rating", "rating")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📅 By year", "year")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔥 By popularity", "popularity")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("ℹ️ About", "about")),
	)
}

func backKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "back")),
	)
}

func resultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔁 One more", "random")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "back")),
	)
}

func updateChatID(update tgbotapi.Update) int64 {
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}
