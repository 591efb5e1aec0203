// Package editor holds the mutable-friendly mirror of a parsed song used by
// editing surfaces. Every section, line and chord carries a stable opaque id
// so edits can target elements directly instead of re-deriving positions.
// The editable song is the single source of truth during an edit session;
// text is derived from it on demand and never edited directly.
package editor

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sukalov/chordbook/internal/chordpro"
)

// Chord is a chord token plus its session-stable id.
type Chord struct {
	ID       string `json:"id"`
	Chord    string `json:"chord"`
	Position int    `json:"position"`
}

// Line is one lyric line of an editable song.
type Line struct {
	ID     string  `json:"id"`
	Lyrics string  `json:"lyrics"`
	Chords []Chord `json:"chords"`
}

// Section mirrors chordpro.Section with ids down the tree.
type Section struct {
	ID    string               `json:"id"`
	Type  chordpro.SectionType `json:"type"`
	Label string               `json:"label,omitempty"`
	Lines []Line               `json:"lines"`
}

// Song is the editable mirror of chordpro.Song.
type Song struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Key      string `json:"key,omitempty"`
	Capo     *int   `json:"capo,omitempty"`
	Tempo    *int   `json:"tempo,omitempty"`

	Sections []Section `json:"sections"`
}

// FromSong deep-copies a parsed song into its editable form. Ids are
// deterministic in the element's position, so two parses of the same text
// produce the same ids. They do not survive a round trip through text: a
// re-parse after serialization assigns ids from scratch.
func FromSong(song chordpro.Song) Song {
	out := Song{
		Title:    song.Title,
		Subtitle: song.Subtitle,
		Artist:   song.Artist,
		Key:      song.Key,
		Capo:     copyInt(song.Capo),
		Tempo:    copyInt(song.Tempo),
	}

	out.Sections = make([]Section, len(song.Sections))
	for i, section := range song.Sections {
		editable := Section{
			ID:    fmt.Sprintf("section-%d", i),
			Type:  section.Type,
			Label: section.Label,
			Lines: make([]Line, len(section.Lines)),
		}
		for j, line := range section.Lines {
			editableLine := Line{
				ID:     fmt.Sprintf("line-%d-%d", i, j),
				Lyrics: line.Lyrics,
				Chords: make([]Chord, len(line.Chords)),
			}
			for k, token := range line.Chords {
				editableLine.Chords[k] = Chord{
					ID:       fmt.Sprintf("chord-%d-%d-%d", i, j, k),
					Chord:    token.Chord,
					Position: token.Position,
				}
			}
			editable.Lines[j] = editableLine
		}
		out.Sections[i] = editable
	}
	return out
}

// ParseText is a convenience for entering edit mode straight from raw text.
func ParseText(text string) Song {
	return FromSong(chordpro.Parse(text))
}

// Song strips the ids back off, producing the plain parsed form.
func (s Song) Song() chordpro.Song {
	out := chordpro.Song{
		Title:    s.Title,
		Subtitle: s.Subtitle,
		Artist:   s.Artist,
		Key:      s.Key,
		Capo:     copyInt(s.Capo),
		Tempo:    copyInt(s.Tempo),
	}
	out.Sections = make([]chordpro.Section, len(s.Sections))
	for i, section := range s.Sections {
		plain := chordpro.Section{
			Type:  section.Type,
			Label: section.Label,
			Lines: make([]chordpro.Line, len(section.Lines)),
		}
		for j, line := range section.Lines {
			plainLine := chordpro.Line{
				Lyrics: line.Lyrics,
				Chords: make([]chordpro.ChordToken, len(line.Chords)),
			}
			for k, chord := range line.Chords {
				plainLine.Chords[k] = chordpro.ChordToken{Chord: chord.Chord, Position: chord.Position}
			}
			plain.Lines[j] = plainLine
		}
		out.Sections[i] = plain
	}
	return out
}

// Text serializes the editable song back to ChordPro.
func (s Song) Text() string {
	return chordpro.Format(s.Song())
}

func copyInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

// newID labels user-added elements. Parse-derived ids are positional;
// anything created mid-session gets a random one so it cannot collide.
func newID(kind string) string {
	return kind + "-" + uuid.NewString()
}
