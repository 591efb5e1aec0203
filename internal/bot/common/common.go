// Package common holds the dependencies and handlers shared by the client
// and admin bots.
package common

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/chordbook/internal/bot"
	"github.com/sukalov/chordbook/internal/cache"
	"github.com/sukalov/chordbook/internal/library"
	"github.com/sukalov/chordbook/internal/sessions"
)

// Deps is everything a handler may need.
type Deps struct {
	Library  *library.Library
	Sessions *sessions.Manager
	Cache    *cache.Manager
}

type CommonHandlers struct {
	deps *Deps
}

func GetCommandHandlers(deps *Deps) map[string]bot.HandlerFunc {
	handlers := &CommonHandlers{deps: deps}
	return map[string]bot.HandlerFunc{
		"sessions": handlers.sessionsHandler,
	}
}

// GetCallbackHandlers returns common callback handlers
func GetCallbackHandlers() map[string]bot.HandlerFunc {
	return map[string]bot.HandlerFunc{}
}

// sessionsHandler lists who has which song open right now.
func (h *CommonHandlers) sessionsHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	open := h.deps.Sessions.All()

	if len(open) == 0 {
		return b.SendMessage(message.Chat.ID, "сейчас никто ничего не играет")
	}

	text := "открытые песни:\n\n"
	for idx, s := range open {
		sign := ""
		if s.Semitones > 0 {
			sign = "+"
		}
		text += fmt.Sprintf(
			"%d. %s\n   песня: %s\n   тональность: %s%d\n   открыта: %s\n\n",
			idx+1,
			s.Username,
			s.SongName,
			sign,
			s.Semitones,
			s.StartedAt.Format("15:04:05"),
		)
	}
	return b.SendMessage(message.Chat.ID, text)
}
