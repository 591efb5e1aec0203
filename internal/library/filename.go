package library

import (
	"fmt"
	"strings"

	"github.com/sukalov/chordbook/internal/chordpro"
)

// baseFilename derives the stored filename from the title directive of the
// text. Untitled songs all compete for "untitled.pro" and get suffixed.
func baseFilename(text string) string {
	title := chordpro.Parse(text).Title
	slug := slugify(title)
	if slug == "" {
		slug = "untitled"
	}
	return slug + ".pro"
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r > 127:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// maxFilenameSuffix bounds the rename loop; running past it means something
// is generating duplicate titles in bulk and deserves a hard error.
const maxFilenameSuffix = 99

// uniqueFilename returns base, or base with a numeric suffix, whichever is
// first not taken by another song. Callers hold the write lock.
func (l *Library) uniqueFilename(base string) (string, error) {
	taken := make(map[string]bool, len(l.songs))
	for _, song := range l.songs {
		taken[song.Filename] = true
	}

	if !taken[base] {
		return base, nil
	}
	stem := strings.TrimSuffix(base, ".pro")
	for n := 2; n <= maxFilenameSuffix; n++ {
		candidate := fmt.Sprintf("%s-%d.pro", stem, n)
		if !taken[candidate] {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free filename for %s after %d tries", base, maxFilenameSuffix)
}
