package chordpro

import (
	"strconv"
	"strings"
)

// Parse scans a full ChordPro document into a Song. The scanner is a small
// state machine over physical lines: it is either accumulating into an
// explicit section (opened by a start directive) or into an implicit,
// untyped one. Comments and unrecognized directives are dropped without
// touching the state; the format is user-authored text, so nothing here
// fails, it only degrades.
func Parse(text string) Song {
	var song Song

	current := Section{Type: SectionNone}
	flush := func() {
		// Sections without lines are never emitted, so back-to-back
		// directives cannot leave empty records behind.
		if len(current.Lines) > 0 {
			song.Sections = append(song.Sections, current)
		}
	}
	// Blank lines that end an implicit section at a directive boundary are
	// separator spacing, not content. Keeping them would grow the section by
	// one line on every parse/format cycle. Explicit sections keep theirs.
	trimSeparator := func() {
		if current.Type != SectionNone {
			return
		}
		for len(current.Lines) > 0 {
			last := current.Lines[len(current.Lines)-1]
			if last.Lyrics != "" || len(last.Chords) > 0 {
				break
			}
			current.Lines = current.Lines[:len(current.Lines)-1]
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		trimmed := strings.TrimSpace(raw)

		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		if name, value, ok := parseDirective(raw); ok {
			switch {
			case applyMetadata(&song, name, value):
			case isSectionStart(name):
				typ, _ := sectionStart(name)
				trimSeparator()
				flush()
				current = Section{Type: typ, Label: value}
			case sectionEnd(name):
				trimSeparator()
				flush()
				current = Section{Type: SectionNone}
			}
			continue
		}

		if trimmed == "" {
			// Blank lines inside an open section, or after the implicit
			// accumulator has content, are intentional spacing. Leading
			// blanks before any content are swallowed.
			if current.Type != SectionNone || len(current.Lines) > 0 {
				current.Lines = append(current.Lines, Line{Chords: []ChordToken{}})
			}
			continue
		}

		current.Lines = append(current.Lines, ParseLine(raw))
	}

	flush()
	return song
}

func isSectionStart(name string) bool {
	_, ok := sectionStart(name)
	return ok
}

// applyMetadata sets the matching Song scalar for a metadata directive and
// reports whether the name was one. Metadata lines produce no Line and do
// not open or close sections. Capo and tempo values that fail to parse as
// integers are dropped silently.
func applyMetadata(song *Song, name, value string) bool {
	switch name {
	case "title", "t":
		song.Title = value
	case "subtitle", "st", "su":
		song.Subtitle = value
	case "artist":
		song.Artist = value
	case "key":
		song.Key = value
	case "capo":
		if n, err := strconv.Atoi(value); err == nil {
			song.Capo = &n
		}
	case "tempo":
		if n, err := strconv.Atoi(value); err == nil {
			song.Tempo = &n
		}
	default:
		return false
	}
	return true
}
