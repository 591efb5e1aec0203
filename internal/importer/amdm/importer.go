// Package amdm imports songs from amdm.ru, converting the site's
// chords-over-lyrics layout into ChordPro text.
package amdm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ImportResult is one finished import.
type ImportResult struct {
	URL       string    `json:"url"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Importer fetches AmDm pages and turns them into ChordPro songs.
type Importer struct {
	client *Client
}

// NewImporter creates an importer with its own HTTP client.
func NewImporter() *Importer {
	return &Importer{client: NewClient()}
}

// Import downloads a song page and returns it as ChordPro text.
func (im *Importer) Import(ctx context.Context, url string) (ImportResult, error) {
	html, err := im.client.FetchPage(ctx, url)
	if err != nil {
		return ImportResult{}, fmt.Errorf("amdm: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ImportResult{}, fmt.Errorf("amdm: failed to parse HTML: %w", err)
	}

	// The song body lives in <pre itemprop="chordsBlock" class="field__podbor_new podbor__text">.
	selection := doc.Find(`pre[itemprop="chordsBlock"].field__podbor_new.podbor__text`)
	if selection.Length() == 0 {
		return ImportResult{}, fmt.Errorf("amdm: no chords block on %s", url)
	}

	// Author comments are noise; chords stay in place so their column
	// offsets survive into the plain text.
	selection.Find("span.podbor__author-comment").Remove()
	raw := selection.Text()

	meta := extractMeta(doc)
	text := ToChordPro(raw, meta)

	return ImportResult{URL: url, Text: text, FetchedAt: time.Now()}, nil
}

// Meta is the song metadata scraped from the page around the chords block.
type Meta struct {
	Title  string
	Artist string
}

func extractMeta(doc *goquery.Document) Meta {
	var meta Meta
	meta.Artist = strings.TrimSpace(doc.Find(`[itemprop="byArtist"]`).First().Text())
	meta.Title = strings.TrimSpace(doc.Find(`[itemprop="name"]`).First().Text())

	// Fall back to the page title, usually "Artist - Song, аккорды".
	if meta.Title == "" {
		full := strings.TrimSpace(doc.Find("title").Text())
		full = strings.TrimSuffix(full, ", аккорды")
		if artist, title, ok := strings.Cut(full, " - "); ok {
			meta.Artist = strings.TrimSpace(artist)
			meta.Title = strings.TrimSpace(title)
		} else {
			meta.Title = full
		}
	}
	return meta
}
