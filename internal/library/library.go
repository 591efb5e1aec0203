// Package library is the songbook storage layer. Songs live in a libsql
// database as raw ChordPro text plus a filename; metadata shown in lists is
// parsed out of the text, never stored separately, so the text file stays
// the single source of truth.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sukalov/chordbook/internal/chordpro"
	"github.com/sukalov/chordbook/internal/config"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Song is one stored songbook entry. Text is the persisted ChordPro source;
// Filename follows the .pro convention and is derived from the title.
type Song struct {
	ID       string
	Filename string
	Text     string
	Views    int
}

// Library keeps the song list cached in memory behind a lock, reloading
// from the database on demand. Reads are frequent (every bot message),
// writes rare.
type Library struct {
	db    *sql.DB
	mu    sync.RWMutex
	songs []Song
}

// Open connects to the libsql database named by LIBSQL_DATABASE_URL and
// LIBSQL_AUTH_TOKEN.
func Open() (*sql.DB, error) {
	env, err := config.Load("LIBSQL_DATABASE_URL", "LIBSQL_AUTH_TOKEN")
	if err != nil {
		return nil, fmt.Errorf("library: %w", err)
	}
	url := fmt.Sprintf("%s?authToken=%s", env["LIBSQL_DATABASE_URL"], env["LIBSQL_AUTH_TOKEN"])

	db, err := sql.Open("libsql", url)
	if err != nil {
		return nil, fmt.Errorf("library: open db: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("library: ping: %w", err)
	}
	return db, nil
}

// New wraps an open database. Call Init before use.
func New(db *sql.DB) *Library {
	return &Library{db: db}
}

// Init loads the full song list into the cache.
func (l *Library) Init(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reload(ctx)
}

// reload refreshes the cache. Callers hold the write lock.
func (l *Library) reload(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := l.db.QueryContext(ctx, "SELECT id, filename, text, views FROM songs")
	if err != nil {
		return fmt.Errorf("failed to load songs: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Filename, &song.Text, &song.Views); err != nil {
			return fmt.Errorf("error scanning song row: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error during rows iteration: %w", err)
	}

	l.songs = songs
	return nil
}

// Reload re-reads the song list, for the admin /reload command.
func (l *Library) Reload(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reload(ctx)
}

// FindSongByID looks a song up in the cache.
func (l *Library) FindSongByID(id string) (Song, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, song := range l.songs {
		if song.ID == id {
			return song, true
		}
	}
	return Song{}, false
}

// All returns a copy of the cached song list.
func (l *Library) All() []Song {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]Song(nil), l.songs...)
}

// SearchSongs matches the query against parsed titles, artists and
// filenames, case-insensitively.
func (l *Library) SearchSongs(query string) []Song {
	l.mu.RLock()
	defer l.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var results []Song
	for _, song := range l.songs {
		meta := chordpro.Parse(song.Text)
		if strings.Contains(strings.ToLower(meta.Title), query) ||
			strings.Contains(strings.ToLower(meta.Artist), query) ||
			strings.Contains(strings.ToLower(song.Filename), query) {
			results = append(results, song)
		}
	}
	return results
}

// FormatSongName renders "Artist - Title" for lists, falling back to the
// filename when the text carries no title directive.
func (l *Library) FormatSongName(song Song) string {
	meta := chordpro.Parse(song.Text)
	if meta.Title == "" {
		return strings.TrimSuffix(song.Filename, ".pro")
	}
	if meta.Artist != "" {
		return meta.Artist + " - " + meta.Title
	}
	return meta.Title
}

// Add stores new ChordPro text as a song, deriving the filename from the
// parsed title.
func (l *Library) Add(ctx context.Context, text string) (Song, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	filename, err := l.uniqueFilename(baseFilename(text))
	if err != nil {
		return Song{}, err
	}

	song := Song{ID: uuid.NewString(), Filename: filename, Text: text}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err = l.db.ExecContext(ctx,
		"INSERT INTO songs (id, filename, text, views) VALUES (?, ?, ?, 0)",
		song.ID, song.Filename, song.Text)
	if err != nil {
		return Song{}, fmt.Errorf("failed to insert song: %w", err)
	}

	l.songs = append(l.songs, song)
	return song, nil
}

// SaveText persists edited text. When the title directive changed, the song
// is renamed to a fresh unique filename derived from it.
func (l *Library) SaveText(ctx context.Context, id, text string) (Song, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, song := range l.songs {
		if song.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Song{}, fmt.Errorf("no song with id %s", id)
	}

	song := l.songs[idx]
	wantBase := baseFilename(text)
	if wantBase != baseFilename(song.Text) {
		filename, err := l.uniqueFilename(wantBase)
		if err != nil {
			return Song{}, err
		}
		song.Filename = filename
	}
	song.Text = text

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := l.db.ExecContext(ctx,
		"UPDATE songs SET filename = ?, text = ? WHERE id = ?",
		song.Filename, song.Text, song.ID)
	if err != nil {
		return Song{}, fmt.Errorf("failed to save song %s: %w", id, err)
	}

	l.songs[idx] = song
	return song, nil
}

// IncrementViews bumps the song's view counter.
func (l *Library) IncrementViews(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := l.db.ExecContext(ctx, "UPDATE songs SET views = views + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no song found with id: %s", id)
	}

	l.mu.Lock()
	for i := range l.songs {
		if l.songs[i].ID == id {
			l.songs[i].Views++
			break
		}
	}
	l.mu.Unlock()
	return nil
}
