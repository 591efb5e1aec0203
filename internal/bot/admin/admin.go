// Package admin implements the maintenance bot: reloading the library,
// clearing sessions, importing and editing songs.
package admin

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/chordbook/internal/bot"
	"github.com/sukalov/chordbook/internal/bot/common"
	"github.com/sukalov/chordbook/internal/importer/amdm"
)

type AdminHandlers struct {
	deps   *common.Deps
	admins map[string]bool
}

var ClearInProgress = false

func NewAdminHandlers(deps *common.Deps, adminUsernames []string) *AdminHandlers {
	admins := make(map[string]bool)
	for _, username := range adminUsernames {
		admins[username] = true
	}

	return &AdminHandlers{
		deps:   deps,
		admins: admins,
	}
}

func (h *AdminHandlers) reloadHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.admins[message.From.UserName] {
		return b.SendMessage(message.Chat.ID, "вы не админ")
	}

	if err := h.deps.Library.Reload(context.Background()); err != nil {
		return b.SendMessage(message.Chat.ID, "не получилось перечитать сонгбук: "+err.Error())
	}
	return b.SendMessage(message.Chat.ID, "сонгбук перечитан")
}

func (h *AdminHandlers) clearSessionsHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message

	if !h.admins[message.From.UserName] {
		return b.SendMessage(message.Chat.ID, "вы не админ")
	}
	ClearInProgress = true
	return b.SendMessageWithButtons(message.Chat.ID, "все открытые песни будут закрыты! уверены?",
		tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("закрываем", "confirm_clear_sessions"),
				tgbotapi.NewInlineKeyboardButtonData("отмена", "abort_clear_sessions"),
			),
		),
	)
}

func (h *AdminHandlers) confirmHandler(b *bot.Bot, update tgbotapi.Update) error {
	ctx := context.Background()
	if ClearInProgress {
		h.deps.Sessions.Clear(ctx)
		ClearInProgress = false
		return b.SendMessage(update.CallbackQuery.From.ID, "сессии очищены")
	}
	return b.SendMessage(update.CallbackQuery.From.ID, "кнопка уже не работает")
}

func (h *AdminHandlers) abortHandler(b *bot.Bot, update tgbotapi.Update) error {
	if ClearInProgress {
		ClearInProgress = false
		return b.SendMessage(update.CallbackQuery.From.ID, "ок. отменили")
	}
	return b.SendMessage(update.CallbackQuery.From.ID, "кнопка уже не работает")
}

func SetupHandlers(adminBot *bot.Bot, deps *common.Deps, adminUsernames []string) {
	handlers := NewAdminHandlers(deps, adminUsernames)
	importHandlers := NewImportHandlers(deps, adminUsernames, amdm.NewImporter())
	editHandlers := NewEditHandlers(deps, adminUsernames)

	commandHandlers := common.GetCommandHandlers(deps)
	commandHandlers["reload"] = handlers.reloadHandler
	commandHandlers["clearsessions"] = handlers.clearSessionsHandler
	commandHandlers["import"] = importHandlers.importHandler
	commandHandlers["findsong"] = editHandlers.findSongHandler

	callbackHandlers := common.GetCallbackHandlers()
	callbackHandlers["abort_clear_sessions"] = handlers.abortHandler
	callbackHandlers["confirm_clear_sessions"] = handlers.confirmHandler
	callbackHandlers["edit:"] = editHandlers.editCallbackHandler

	messageHandlers := []bot.HandlerFunc{
		func(b *bot.Bot, update tgbotapi.Update) error {
			if update.Message == nil || update.Message.Text == "" {
				return nil
			}
			if importHandlers.awaitingURL(update.Message.Chat.ID) {
				return importHandlers.urlHandler(b, update)
			}
			if editHandlers.editing(update.Message.Chat.ID) {
				return editHandlers.commandHandler(b, update)
			}
			return nil
		},
	}

	go adminBot.Start(commandHandlers, messageHandlers, callbackHandlers)
}
