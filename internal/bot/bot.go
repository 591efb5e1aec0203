// Package bot is a thin wrapper over the telegram API: long-poll loop,
// handler maps, send helpers. Domain logic lives in the client and admin
// subpackages.
package bot

import (
	"log"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/chordbook/internal/logger"
)

// HandlerFunc processes one update.
type HandlerFunc func(b *Bot, update tgbotapi.Update) error

// Bot represents a configurable Telegram bot
type Bot struct {
	Client     *tgbotapi.BotAPI
	updateChan tgbotapi.UpdatesChannel
	stopChan   chan struct{}
	name       string
	mu         sync.Mutex
}

// New creates a new bot instance
func New(name, token string) (*Bot, error) {
	botClient, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updateChan := botClient.GetUpdatesChan(updateConfig)

	return &Bot{
		Client:     botClient,
		updateChan: updateChan,
		stopChan:   make(chan struct{}),
		name:       name,
	}, nil
}

// Start begins processing updates with the given handlers. Callback keys
// ending in ":" match any callback data with that prefix.
func (b *Bot) Start(
	commandHandlers map[string]HandlerFunc,
	messageHandlers []HandlerFunc,
	callbackHandlers map[string]HandlerFunc,
) {
	log.Printf("[%s] authorized on account %s", b.name, b.Client.Self.UserName)

	for {
		select {
		case update := <-b.updateChan:
			go b.processUpdate(update, commandHandlers, messageHandlers, callbackHandlers)
		case <-b.stopChan:
			return
		}
	}
}

func (b *Bot) processUpdate(
	update tgbotapi.Update,
	commandHandlers map[string]HandlerFunc,
	messageHandlers []HandlerFunc,
	callbackHandlers map[string]HandlerFunc,
) {
	if update.Message != nil && update.Message.IsCommand() {
		if handler, exists := commandHandlers[update.Message.Command()]; exists {
			if err := handler(b, update); err != nil {
				logger.Errorf("[%s] command handler error: %v", b.name, err)
			}
			return
		}
	}

	if update.CallbackQuery != nil {
		data := update.CallbackQuery.Data
		handler, exists := callbackHandlers[data]
		if !exists {
			for key, h := range callbackHandlers {
				if strings.HasSuffix(key, ":") && strings.HasPrefix(data, key) {
					handler, exists = h, true
					break
				}
			}
		}
		if exists {
			if err := handler(b, update); err != nil {
				logger.Errorf("[%s] callback handler error: %v", b.name, err)
			}
		}
		return
	}

	for _, handler := range messageHandlers {
		if err := handler(b, update); err != nil {
			logger.Errorf("[%s] message handler error: %v", b.name, err)
		}
	}
}

// Stop halts the bot
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopChan <- struct{}{}
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.Client.Send(msg)
	return err
}

func (b *Bot) SendMessageWithMarkdown(chatID int64, text string, disableLinks bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.DisableWebPagePreview = disableLinks
	_, err := b.Client.Send(msg)
	return err
}

func (b *Bot) SendMessageWithButtons(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := b.Client.Send(msg)
	return err
}

// SendMonospace wraps text in a code block so chord columns line up.
func (b *Bot) SendMonospace(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, "```\n"+text+"\n```")
	msg.ParseMode = "Markdown"
	_, err := b.Client.Send(msg)
	return err
}
