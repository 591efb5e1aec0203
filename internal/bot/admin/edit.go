package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/chordbook/internal/bot"
	"github.com/sukalov/chordbook/internal/bot/common"
	"github.com/sukalov/chordbook/internal/editor"
)

// EditHandlers drives the structured editing flow: /findsong picks a song,
// then plain-text commands mutate an editable draft until save or cancel.
type EditHandlers struct {
	deps   *common.Deps
	admins map[string]bool

	mu     sync.Mutex
	drafts map[int64]*draft
}

type draft struct {
	songID string
	doc    editor.Song
}

func NewEditHandlers(deps *common.Deps, adminUsernames []string) *EditHandlers {
	admins := make(map[string]bool)
	for _, username := range adminUsernames {
		admins[username] = true
	}

	return &EditHandlers{
		deps:   deps,
		admins: admins,
		drafts: make(map[int64]*draft),
	}
}

func (h *EditHandlers) findSongHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.admins[message.From.UserName] {
		return b.SendMessage(message.Chat.ID, "вы не админ")
	}

	query := strings.TrimSpace(message.CommandArguments())
	if query == "" {
		return b.SendMessage(message.Chat.ID, "напишите название: /findsong кино")
	}

	results := h.deps.Library.SearchSongs(query)
	if len(results) == 0 {
		return b.SendMessage(message.Chat.ID, "ничего не найдено")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, song := range results {
		if len(rows) >= 10 {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(h.deps.Library.FormatSongName(song), "edit:"+song.ID),
		))
	}
	return b.SendMessageWithButtons(message.Chat.ID, "что редактируем?", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (h *EditHandlers) editCallbackHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	songID := strings.TrimPrefix(query.Data, "edit:")
	song, found := h.deps.Library.FindSongByID(songID)
	if !found {
		return b.SendMessage(query.Message.Chat.ID, "песня не найдена")
	}

	h.mu.Lock()
	h.drafts[query.Message.Chat.ID] = &draft{
		songID: song.ID,
		doc:    editor.ParseText(song.Text),
	}
	h.mu.Unlock()

	if err := b.SendMessage(query.Message.Chat.ID,
		"редактируем «"+h.deps.Library.FormatSongName(song)+"»\n\n"+
			"show — строки и их id\n"+
			"transpose <N> — сдвинуть тональность\n"+
			"lyrics <line-id> <текст> — заменить строку\n"+
			"chord <line-id> <аккорд> <позиция> — добавить аккорд\n"+
			"delchord <chord-id> / delline <line-id>\n"+
			"save / cancel"); err != nil {
		return err
	}
	return h.sendOverview(b, query.Message.Chat.ID)
}

func (h *EditHandlers) editing(chatID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.drafts[chatID]
	return ok
}

func (h *EditHandlers) commandHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	chatID := message.Chat.ID

	h.mu.Lock()
	d, ok := h.drafts[chatID]
	h.mu.Unlock()
	if !ok {
		return nil
	}

	fields := strings.Fields(message.Text)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "show":
		return h.sendOverview(b, chatID)

	case "transpose":
		if len(fields) != 2 {
			return b.SendMessage(chatID, "нужно: transpose <N>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return b.SendMessage(chatID, "не число: "+fields[1])
		}
		h.update(chatID, d.doc.Transpose(n))
		return h.sendPreview(b, chatID)

	case "lyrics":
		if len(fields) < 3 {
			return b.SendMessage(chatID, "нужно: lyrics <line-id> <текст>")
		}
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(message.Text, "lyrics"), " "+fields[1]))
		h.update(chatID, d.doc.SetLyrics(fields[1], text))
		return h.sendPreview(b, chatID)

	case "chord":
		if len(fields) != 4 {
			return b.SendMessage(chatID, "нужно: chord <line-id> <аккорд> <позиция>")
		}
		pos, err := strconv.Atoi(fields[3])
		if err != nil {
			return b.SendMessage(chatID, "не число: "+fields[3])
		}
		doc, _ := d.doc.AddChord(fields[1], fields[2], pos)
		h.update(chatID, doc)
		return h.sendPreview(b, chatID)

	case "delchord":
		if len(fields) != 2 {
			return b.SendMessage(chatID, "нужно: delchord <chord-id>")
		}
		h.update(chatID, d.doc.DeleteChord(fields[1]))
		return h.sendPreview(b, chatID)

	case "delline":
		if len(fields) != 2 {
			return b.SendMessage(chatID, "нужно: delline <line-id>")
		}
		h.update(chatID, d.doc.DeleteLine(fields[1]))
		return h.sendPreview(b, chatID)

	case "save":
		ctx := context.Background()
		if _, err := h.deps.Library.SaveText(ctx, d.songID, d.doc.Text()); err != nil {
			return b.SendMessage(chatID, "не получилось сохранить: "+err.Error())
		}
		if err := h.deps.Cache.InvalidateRenders(ctx, d.songID); err != nil {
			return b.SendMessage(chatID, "сохранено, но кеш не сбросился: "+err.Error())
		}
		h.drop(chatID)
		return b.SendMessage(chatID, "сохранено")

	case "cancel":
		h.drop(chatID)
		return b.SendMessage(chatID, "ок, ничего не меняем")
	}

	return b.SendMessage(chatID, "не понимаю. команды: show, transpose, lyrics, chord, delchord, delline, save, cancel")
}

func (h *EditHandlers) update(chatID int64, doc editor.Song) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if d, ok := h.drafts[chatID]; ok {
		d.doc = doc
	}
}

func (h *EditHandlers) drop(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.drafts, chatID)
}

func (h *EditHandlers) sendPreview(b *bot.Bot, chatID int64) error {
	h.mu.Lock()
	d, ok := h.drafts[chatID]
	h.mu.Unlock()
	if !ok {
		return nil
	}
	return b.SendMonospace(chatID, d.doc.Text())
}

// sendOverview lists every line with its id so edit commands have targets.
func (h *EditHandlers) sendOverview(b *bot.Bot, chatID int64) error {
	h.mu.Lock()
	d, ok := h.drafts[chatID]
	h.mu.Unlock()
	if !ok {
		return nil
	}

	var sb strings.Builder
	for _, section := range d.doc.Sections {
		sb.WriteString(fmt.Sprintf("%s [%s]\n", section.Type, section.ID))
		for _, line := range section.Lines {
			sb.WriteString(fmt.Sprintf("  [%s] %s\n", line.ID, line.Lyrics))
			for _, chord := range line.Chords {
				sb.WriteString(fmt.Sprintf("    [%s] %s @%d\n", chord.ID, chord.Chord, chord.Position))
			}
		}
	}
	if sb.Len() == 0 {
		return b.SendMessage(chatID, "в песне нет секций")
	}
	return b.SendMonospace(chatID, sb.String())
}
