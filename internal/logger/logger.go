// Package logger sends leveled log lines to a Telegram log channel when a
// sink is wired in, and to stderr otherwise. Channel sends run async so a
// slow Telegram API never blocks a handler.
package logger

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/sukalov/chordbook/internal/config"
)

// Sink is anything that can deliver a log line to a chat. The bot client
// satisfies this.
type Sink interface {
	SendMessage(chatID int64, text string) error
}

var (
	mu        sync.RWMutex
	channelID int64
	sink      Sink
)

// Init wires the channel sink. LOG_CHANNEL_ID must be set; until Init is
// called (or when it fails), everything falls back to stderr.
func Init(s Sink) error {
	env, err := config.Load("LOG_CHANNEL_ID")
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	id, err := strconv.ParseInt(env["LOG_CHANNEL_ID"], 10, 64)
	if err != nil {
		return fmt.Errorf("logger init: bad LOG_CHANNEL_ID: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	channelID = id
	sink = s
	return nil
}

func Info(message string) {
	send("ℹ️ INFO", message)
}

func Error(message string) {
	send("❌ ERROR", message)
}

func Debug(message string) {
	send("🔍 DEBUG", message)
}

func Success(message string) {
	send("✅ SUCCESS", message)
}

// Errorf is Error with formatting.
func Errorf(format string, args ...any) {
	Error(fmt.Sprintf(format, args...))
}

func send(prefix, message string) {
	mu.RLock()
	s, id := sink, channelID
	mu.RUnlock()

	if s == nil {
		log.Printf("%s %s", prefix, message)
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %s\n%s", timestamp, prefix, message)
	go func() {
		if err := s.SendMessage(id, line); err != nil {
			log.Printf("failed to send log to channel: %v\nlog was: %s", err, line)
		}
	}()
}
