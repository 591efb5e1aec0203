package chordpro

import (
	"strconv"
	"strings"
)

// Format reconstructs canonical ChordPro text from a Song. Metadata comes
// first in a fixed order, then each section wrapped in its short-form
// directive pair, with one blank line between blocks. Parsing the output
// again yields a structurally equivalent song: same metadata, same section
// types and labels, same chord text and order per line. Byte identity with
// whatever text the song was parsed from is deliberately not promised; the
// separators here are a convention of the serializer.
func Format(song Song) string {
	var out []string

	meta := metadataLines(song)
	out = append(out, meta...)
	if len(meta) > 0 && len(song.Sections) > 0 {
		out = append(out, "")
	}

	for i, section := range song.Sections {
		if i > 0 {
			out = append(out, "")
		}
		start, end := startDirective(section.Type)
		if section.Type != SectionNone {
			if section.Label != "" {
				out = append(out, "{"+start+": "+section.Label+"}")
			} else {
				out = append(out, "{"+start+"}")
			}
		}
		for _, line := range section.Lines {
			out = append(out, InsertChords(line.Lyrics, line.Chords))
		}
		if section.Type != SectionNone {
			out = append(out, "{"+end+"}")
		}
	}

	return strings.Join(out, "\n")
}

// metadataLines renders the defined metadata fields in the fixed order
// title, subtitle, artist, key, capo, tempo.
func metadataLines(song Song) []string {
	var out []string
	if song.Title != "" {
		out = append(out, "{title: "+song.Title+"}")
	}
	if song.Subtitle != "" {
		out = append(out, "{subtitle: "+song.Subtitle+"}")
	}
	if song.Artist != "" {
		out = append(out, "{artist: "+song.Artist+"}")
	}
	if song.Key != "" {
		out = append(out, "{key: "+song.Key+"}")
	}
	if song.Capo != nil {
		out = append(out, "{capo: "+strconv.Itoa(*song.Capo)+"}")
	}
	if song.Tempo != nil {
		out = append(out, "{tempo: "+strconv.Itoa(*song.Tempo)+"}")
	}
	return out
}

// TransposeSong returns a copy of the song with every chord shifted by the
// given number of semitones. The input song is left untouched.
func TransposeSong(song Song, semitones int) Song {
	if semitones%12 == 0 {
		return song
	}
	out := song
	out.Sections = make([]Section, len(song.Sections))
	for i, section := range song.Sections {
		lines := make([]Line, len(section.Lines))
		for j, line := range section.Lines {
			chords := make([]ChordToken, len(line.Chords))
			for k, token := range line.Chords {
				chords[k] = ChordToken{Chord: Transpose(token.Chord, semitones), Position: token.Position}
			}
			lines[j] = Line{Lyrics: line.Lyrics, Chords: chords}
		}
		out.Sections[i] = Section{Type: section.Type, Label: section.Label, Lines: lines}
	}
	return out
}
