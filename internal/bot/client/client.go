// Package client implements the user-facing bot: opening songs, transposing
// them, copying chords between verses.
package client

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/chordbook/internal/bot"
	"github.com/sukalov/chordbook/internal/bot/common"
	"github.com/sukalov/chordbook/internal/chordpro"
	"github.com/sukalov/chordbook/internal/library"
	"github.com/sukalov/chordbook/internal/logger"
	"github.com/sukalov/chordbook/internal/sessions"
)

const maxSearchResults = 10

type ClientHandlers struct {
	deps *common.Deps
}

func NewClientHandlers(deps *common.Deps) *ClientHandlers {
	return &ClientHandlers{deps: deps}
}

var transposeRegex = regexp.MustCompile(`^([+-])(\d{1,2})$`)

func (h *ClientHandlers) startHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message

	if err := h.deps.Library.RegisterUser(update); err != nil {
		logger.Errorf("error registering user: %v", err)
	}

	// Deep links carry a song id: /start <songID>
	if len(message.Text) > 7 && strings.HasPrefix(message.Text, "/start ") {
		songID := strings.TrimSpace(message.Text[7:])
		song, found := h.deps.Library.FindSongByID(songID)
		if !found {
			return b.SendMessage(message.Chat.ID, "извините, песни с таким id нет")
		}
		return h.openSong(b, message.Chat.ID, message.From.UserName, song)
	}

	return b.SendMessage(
		message.Chat.ID,
		"привет! это сонгбук с аккордами\n\n"+
			"/song <название> — найти песню\n"+
			"/list — все песни\n"+
			"+2 или -1 — поменять тональность открытой песни\n"+
			"/copychords — скопировать аккорды первого куплета в остальные\n"+
			"/savekey — запомнить тональность\n"+
			"/done — закрыть песню",
	)
}

func (h *ClientHandlers) songHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	query := strings.TrimSpace(message.CommandArguments())
	if query == "" {
		return b.SendMessage(message.Chat.ID, "напишите название: /song кино")
	}

	if song, found := h.deps.Library.FindSongByID(query); found {
		return h.openSong(b, message.Chat.ID, message.From.UserName, song)
	}

	results := h.deps.Library.SearchSongs(query)
	if len(results) == 0 {
		return b.SendMessage(message.Chat.ID, "ничего не найдено")
	}
	if len(results) == 1 {
		return h.openSong(b, message.Chat.ID, message.From.UserName, results[0])
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, song := range results {
		if len(rows) >= maxSearchResults {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(h.deps.Library.FormatSongName(song), "open:"+song.ID),
		))
	}

	text := "найденные песни:"
	if len(results) > maxSearchResults {
		text += fmt.Sprintf("\n(показаны первые %d из %d)", maxSearchResults, len(results))
	}
	return b.SendMessageWithButtons(message.Chat.ID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (h *ClientHandlers) listHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	songs := h.deps.Library.All()
	if len(songs) == 0 {
		return b.SendMessage(message.Chat.ID, "сонгбук пока пуст")
	}

	var sb strings.Builder
	sb.WriteString("сонгбук:\n\n")
	for idx, song := range songs {
		sb.WriteString(fmt.Sprintf("%d. %s\n", idx+1, h.deps.Library.FormatSongName(song)))
	}
	sb.WriteString("\nоткрыть: /song <название>")
	return b.SendMessage(message.Chat.ID, sb.String())
}

func (h *ClientHandlers) openCallbackHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	songID := strings.TrimPrefix(query.Data, "open:")
	song, found := h.deps.Library.FindSongByID(songID)
	if !found {
		return b.SendMessage(query.Message.Chat.ID, "песня не найдена")
	}
	return h.openSong(b, query.Message.Chat.ID, query.From.UserName, song)
}

// openSong renders a song at the user's saved transposition, sends it and
// opens a viewing session.
func (h *ClientHandlers) openSong(b *bot.Bot, chatID int64, username string, song library.Song) error {
	ctx := context.Background()

	semitones := 0
	if user, err := h.deps.Library.GetUserByChatID(ctx, chatID); err == nil {
		semitones = user.SavedTranspose
	}

	text, err := h.renderSong(ctx, song, semitones)
	if err != nil {
		return err
	}

	if _, err := h.deps.Sessions.Add(ctx, sessions.Session{
		ChatID:    chatID,
		Username:  username,
		SongID:    song.ID,
		SongName:  h.deps.Library.FormatSongName(song),
		Semitones: semitones,
		Stage:     sessions.StageViewing,
		StartedAt: time.Now(),
	}); err != nil {
		logger.Errorf("failed to open session: %v", err)
	}

	if err := h.deps.Library.IncrementViews(ctx, song.ID); err != nil {
		logger.Errorf("failed to count view: %v", err)
	}
	if err := h.deps.Cache.IncrementViewCount(ctx, username, song.ID); err != nil {
		logger.Errorf("failed to count view in cache: %v", err)
	}

	return b.SendMonospace(chatID, text)
}

// renderSong serializes a song at a transposition, through the redis cache.
func (h *ClientHandlers) renderSong(ctx context.Context, song library.Song, semitones int) (string, error) {
	if cached, ok, err := h.deps.Cache.GetRender(ctx, song.ID, semitones); err == nil && ok {
		return cached, nil
	}

	parsed := chordpro.Parse(song.Text)
	if semitones != 0 {
		parsed = chordpro.TransposeSong(parsed, semitones)
	}
	text := chordpro.Format(parsed)

	if err := h.deps.Cache.SetRender(ctx, song.ID, semitones, text); err != nil {
		logger.Errorf("failed to cache rendering: %v", err)
	}
	return text, nil
}

// transposeHandler reacts to "+2" / "-1" messages by shifting the active
// session's song.
func (h *ClientHandlers) transposeHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	match := transposeRegex.FindStringSubmatch(strings.TrimSpace(message.Text))
	if match == nil {
		return nil
	}

	session, ok := h.deps.Sessions.Active(message.Chat.ID)
	if !ok {
		return b.SendMessage(message.Chat.ID, "сначала откройте песню: /song <название>")
	}
	song, found := h.deps.Library.FindSongByID(session.SongID)
	if !found {
		return b.SendMessage(message.Chat.ID, "песня из вашей сессии пропала из сонгбука")
	}

	delta, _ := strconv.Atoi(match[2])
	if match[1] == "-" {
		delta = -delta
	}
	session.Semitones += delta

	ctx := context.Background()
	text, err := h.renderSong(ctx, song, session.Semitones)
	if err != nil {
		return err
	}
	if err := h.deps.Sessions.Edit(ctx, session.ID, session); err != nil {
		logger.Errorf("failed to save session transpose: %v", err)
	}
	return b.SendMonospace(message.Chat.ID, text)
}

// copychordsHandler previews the copy-chords transform on the open song.
func (h *ClientHandlers) copychordsHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	session, ok := h.deps.Sessions.Active(message.Chat.ID)
	if !ok {
		return b.SendMessage(message.Chat.ID, "сначала откройте песню: /song <название>")
	}
	song, found := h.deps.Library.FindSongByID(session.SongID)
	if !found {
		return b.SendMessage(message.Chat.ID, "песня из вашей сессии пропала из сонгбука")
	}

	copied := chordpro.CopyChords(song.Text)
	if copied == song.Text {
		return b.SendMessage(message.Chat.ID, "копировать нечего: все куплеты уже с аккордами")
	}

	if err := b.SendMonospace(message.Chat.ID, copied); err != nil {
		return err
	}
	return b.SendMessageWithButtons(message.Chat.ID, "сохранить так?",
		tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("сохранить", "copysave:"+song.ID),
				tgbotapi.NewInlineKeyboardButtonData("отмена", "copyabort"),
			),
		),
	)
}

func (h *ClientHandlers) copySaveHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	songID := strings.TrimPrefix(query.Data, "copysave:")
	song, found := h.deps.Library.FindSongByID(songID)
	if !found {
		return b.SendMessage(query.Message.Chat.ID, "песня не найдена")
	}

	ctx := context.Background()
	if _, err := h.deps.Library.SaveText(ctx, song.ID, chordpro.CopyChords(song.Text)); err != nil {
		logger.Errorf("failed to save copied chords: %v", err)
		return b.SendMessage(query.Message.Chat.ID, "не получилось сохранить")
	}
	if err := h.deps.Cache.InvalidateRenders(ctx, song.ID); err != nil {
		logger.Errorf("failed to invalidate renders: %v", err)
	}
	return b.SendMessage(query.Message.Chat.ID, "сохранено")
}

func (h *ClientHandlers) copyAbortHandler(b *bot.Bot, update tgbotapi.Update) error {
	return b.SendMessage(update.CallbackQuery.Message.Chat.ID, "ок, не сохраняем")
}

// saveKeyHandler remembers the current transposition for future opens.
func (h *ClientHandlers) saveKeyHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	session, ok := h.deps.Sessions.Active(message.Chat.ID)
	if !ok {
		return b.SendMessage(message.Chat.ID, "сначала откройте песню: /song <название>")
	}

	ctx := context.Background()
	if err := h.deps.Library.SetSavedTranspose(ctx, message.Chat.ID, session.Semitones); err != nil {
		logger.Errorf("failed to save transpose: %v", err)
		return b.SendMessage(message.Chat.ID, "не получилось запомнить")
	}
	sign := ""
	if session.Semitones > 0 {
		sign = "+"
	}
	return b.SendMessage(message.Chat.ID,
		fmt.Sprintf("запомнили: все песни теперь будут открываться в %s%d", sign, session.Semitones))
}

func (h *ClientHandlers) doneHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if _, ok := h.deps.Sessions.Active(message.Chat.ID); !ok {
		return b.SendMessage(message.Chat.ID, "у вас и так ничего не открыто")
	}
	if err := h.deps.Sessions.RemoveByChatID(context.Background(), message.Chat.ID); err != nil {
		return err
	}
	return b.SendMessage(message.Chat.ID, "закрыли. хорошо поиграли!")
}

func randomMessageHandler(b *bot.Bot, update tgbotapi.Update) error {
	return b.SendMessage(
		update.Message.Chat.ID,
		"этого я не понимаю...\n\nпоиск песен: /song <название>",
	)
}

func SetupHandlers(clientBot *bot.Bot, deps *common.Deps) {
	handlers := NewClientHandlers(deps)

	messageHandlers := []bot.HandlerFunc{
		func(b *bot.Bot, update tgbotapi.Update) error {
			if update.Message == nil || update.Message.Text == "" {
				return nil
			}
			if transposeRegex.MatchString(strings.TrimSpace(update.Message.Text)) {
				return handlers.transposeHandler(b, update)
			}
			return randomMessageHandler(b, update)
		},
	}

	commandHandlers := common.GetCommandHandlers(deps)
	commandHandlers["start"] = handlers.startHandler
	commandHandlers["song"] = handlers.songHandler
	commandHandlers["list"] = handlers.listHandler
	commandHandlers["copychords"] = handlers.copychordsHandler
	commandHandlers["savekey"] = handlers.saveKeyHandler
	commandHandlers["done"] = handlers.doneHandler

	callbackHandlers := common.GetCallbackHandlers()
	callbackHandlers["open:"] = handlers.openCallbackHandler
	callbackHandlers["copysave:"] = handlers.copySaveHandler
	callbackHandlers["copyabort"] = handlers.copyAbortHandler

	go clientBot.Start(commandHandlers, messageHandlers, callbackHandlers)
}
