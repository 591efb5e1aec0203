package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sukalov/chordbook/internal/bot"
	"github.com/sukalov/chordbook/internal/bot/admin"
	"github.com/sukalov/chordbook/internal/bot/client"
	"github.com/sukalov/chordbook/internal/bot/common"
	"github.com/sukalov/chordbook/internal/cache"
	"github.com/sukalov/chordbook/internal/config"
	"github.com/sukalov/chordbook/internal/library"
	"github.com/sukalov/chordbook/internal/logger"
	"github.com/sukalov/chordbook/internal/sessions"
)

func main() {
	env, err := config.Load("BOT_TOKEN", "ADMIN_BOT_TOKEN")
	if err != nil {
		log.Fatalf("required env missing: %v", err)
	}

	ctx := context.Background()

	db, err := library.Open()
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	lib := library.New(db)
	if err := lib.Init(ctx); err != nil {
		log.Fatalf("failed to load songbook: %v", err)
	}

	cacheManager, err := cache.NewManager()
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	sessionManager := sessions.NewManager(cacheManager)
	if err := sessionManager.Init(ctx); err != nil {
		log.Printf("failed to restore sessions: %v", err)
	}

	clientBot, err := bot.New("chordbook", env["BOT_TOKEN"])
	if err != nil {
		log.Fatalf("failed to start client bot: %v", err)
	}
	adminBot, err := bot.New("chordbook-admin", env["ADMIN_BOT_TOKEN"])
	if err != nil {
		log.Fatalf("failed to start admin bot: %v", err)
	}

	if err := logger.Init(adminBot); err != nil {
		log.Printf("log channel not configured, logging to stderr: %v", err)
	}

	admins := strings.Split(config.Optional("ADMIN_USERNAMES", "sukalov"), ",")

	deps := &common.Deps{
		Library:  lib,
		Sessions: sessionManager,
		Cache:    cacheManager,
	}
	client.SetupHandlers(clientBot, deps)
	admin.SetupHandlers(adminBot, deps, admins)

	logger.Info("chordbook is up")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	clientBot.Stop()
	adminBot.Stop()
}
