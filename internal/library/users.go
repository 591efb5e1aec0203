package library

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// User is a registered bot user. SavedTranspose is the transposition they
// last asked to keep, applied automatically when they open a song.
type User struct {
	ID             int64
	ChatID         int64
	Username       sql.NullString
	TgName         sql.NullString
	SavedTranspose int
	AddedAt        time.Time
}

// RegisterUser records a first-time user; repeat calls are no-ops.
func (l *Library) RegisterUser(update tgbotapi.Update) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	message := update.Message
	userName := sql.NullString{
		String: message.From.UserName,
		Valid:  message.From.UserName != "",
	}
	tgName := sql.NullString{
		String: message.From.FirstName + " " + message.From.LastName,
		Valid:  message.From.FirstName+message.From.LastName != "",
	}

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE chat_id = ?)`
	err := l.db.QueryRowContext(ctx, checkQuery, message.Chat.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking user existence: %v", err)
	}

	if !exists {
		insertQuery := `
			INSERT INTO users (
				chat_id,
				username,
				tg_name,
				saved_transpose,
				added_at
			) VALUES (?, ?, ?, 0, ?)
		`

		_, err = l.db.ExecContext(ctx, insertQuery,
			message.Chat.ID,
			userName,
			tgName,
			time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert new user: %v", err)
		}

		log.Printf("new user registered: ID: %d, username: %s",
			message.Chat.ID,
			userName.String,
		)
	}

	return nil
}

// GetUserByChatID loads one user row.
func (l *Library) GetUserByChatID(ctx context.Context, chatID int64) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user User
	query := `SELECT id, chat_id, username, tg_name, saved_transpose, added_at FROM users WHERE chat_id = ?`
	err := l.db.QueryRowContext(ctx, query, chatID).Scan(
		&user.ID,
		&user.ChatID,
		&user.Username,
		&user.TgName,
		&user.SavedTranspose,
		&user.AddedAt,
	)
	if err != nil {
		return User{}, fmt.Errorf("failed to get user %d: %w", chatID, err)
	}
	return user, nil
}

// SetSavedTranspose stores the user's preferred transposition.
func (l *Library) SetSavedTranspose(ctx context.Context, chatID int64, semitones int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := l.db.ExecContext(ctx,
		"UPDATE users SET saved_transpose = ? WHERE chat_id = ?",
		semitones, chatID)
	if err != nil {
		return fmt.Errorf("failed to save transpose for %d: %w", chatID, err)
	}
	return nil
}
