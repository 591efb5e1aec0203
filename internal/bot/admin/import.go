package admin

import (
	"context"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/chordbook/internal/bot"
	"github.com/sukalov/chordbook/internal/bot/common"
	"github.com/sukalov/chordbook/internal/importer/amdm"
)

// ImportHandlers runs the two-step import flow: /import, then a message
// with the amdm.ru url.
type ImportHandlers struct {
	deps     *common.Deps
	admins   map[string]bool
	importer *amdm.Importer

	mu       sync.Mutex
	awaiting map[int64]bool
}

func NewImportHandlers(deps *common.Deps, adminUsernames []string, importer *amdm.Importer) *ImportHandlers {
	admins := make(map[string]bool)
	for _, username := range adminUsernames {
		admins[username] = true
	}

	return &ImportHandlers{
		deps:     deps,
		admins:   admins,
		importer: importer,
		awaiting: make(map[int64]bool),
	}
}

func (h *ImportHandlers) importHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.admins[message.From.UserName] {
		return b.SendMessage(message.Chat.ID, "вы не админ")
	}

	// /import <url> in one message also works.
	if url := strings.TrimSpace(message.CommandArguments()); url != "" {
		return h.runImport(b, message.Chat.ID, url)
	}

	h.mu.Lock()
	h.awaiting[message.Chat.ID] = true
	h.mu.Unlock()
	return b.SendMessage(message.Chat.ID, "пришлите ссылку на песню с amdm.ru")
}

func (h *ImportHandlers) awaitingURL(chatID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.awaiting[chatID]
}

func (h *ImportHandlers) urlHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message

	h.mu.Lock()
	delete(h.awaiting, message.Chat.ID)
	h.mu.Unlock()

	return h.runImport(b, message.Chat.ID, strings.TrimSpace(message.Text))
}

func (h *ImportHandlers) runImport(b *bot.Bot, chatID int64, url string) error {
	if !strings.Contains(url, "amdm.ru") {
		return b.SendMessage(chatID, "это не похоже на ссылку с amdm.ru")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	result, err := h.importer.Import(ctx, url)
	if err != nil {
		return b.SendMessage(chatID, "не получилось импортировать: "+err.Error())
	}

	song, err := h.deps.Library.Add(ctx, result.Text)
	if err != nil {
		return b.SendMessage(chatID, "не получилось сохранить: "+err.Error())
	}

	if err := b.SendMonospace(chatID, result.Text); err != nil {
		return err
	}
	return b.SendMessage(chatID, "добавили: "+h.deps.Library.FormatSongName(song))
}
