package chordpro

import "strings"

// ChordToken is a chord annotation anchored to a character offset within the
// plain lyrics of its line. Position counts lyric characters, not raw-line
// bytes: rendering layers decide pixels on their own.
type ChordToken struct {
	Chord    string `json:"chord"`
	Position int    `json:"position"`
}

// Line is one lyric line with its chords. Lyrics holds the text with all
// bracket annotations removed.
type Line struct {
	Lyrics string       `json:"lyrics"`
	Chords []ChordToken `json:"chords"`
}

// IsChordOnly reports whether the line carries chords but no lyric text
// (instrumental passages). Such lines are still serialized through the
// regular insertion path, the positions just all land past the text.
func (l Line) IsChordOnly() bool {
	return len(l.Chords) > 0 && strings.TrimSpace(l.Lyrics) == ""
}

// SectionType classifies a section of a song.
type SectionType string

const (
	SectionVerse  SectionType = "verse"
	SectionChorus SectionType = "chorus"
	SectionBridge SectionType = "bridge"
	SectionIntro  SectionType = "intro"
	SectionOutro  SectionType = "outro"
	SectionTab    SectionType = "tab"
	SectionGrid   SectionType = "grid"
	// SectionNone marks lines that no directive wraps.
	SectionNone SectionType = "none"
)

// Section is a contiguous run of lines under one section directive (or an
// implicit run when Type is SectionNone). Label keeps the directive argument,
// e.g. {start_of_verse: Verse 2}.
type Section struct {
	Type  SectionType `json:"type"`
	Label string      `json:"label,omitempty"`
	Lines []Line      `json:"lines"`
}

// Song is the parsed form of a ChordPro document. Section order is document
// order and therefore performance order.
type Song struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Key      string `json:"key,omitempty"`
	Capo     *int   `json:"capo,omitempty"`
	Tempo    *int   `json:"tempo,omitempty"`

	Sections []Section `json:"sections"`
}
