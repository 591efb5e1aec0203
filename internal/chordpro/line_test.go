package chordpro

import (
	"reflect"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		lyrics string
		chords []ChordToken
	}{
		{
			name:   "basic",
			in:     "[C]Hello [G]World",
			lyrics: "Hello World",
			chords: []ChordToken{{Chord: "C", Position: 0}, {Chord: "G", Position: 6}},
		},
		{
			name:   "mid-word chord keeps hyphens adjacent",
			in:     "Be-[C]-fore",
			lyrics: "Be--fore",
			chords: []ChordToken{{Chord: "C", Position: 3}},
		},
		{
			name:   "adjacent chords stack on one position",
			in:     "[C] [G] [Am]",
			lyrics: "",
			chords: []ChordToken{{Chord: "C", Position: 0}, {Chord: "G", Position: 0}, {Chord: "Am", Position: 0}},
		},
		{
			name:   "doubled spaces spread chord-only line",
			in:     "[C]  [G]  [Am]",
			lyrics: "  ",
			chords: []ChordToken{{Chord: "C", Position: 0}, {Chord: "G", Position: 1}, {Chord: "Am", Position: 2}},
		},
		{
			name:   "trailing space after bracket is consumed",
			in:     "[Am] down by the river",
			lyrics: "down by the river",
			chords: []ChordToken{{Chord: "Am", Position: 0}},
		},
		{
			name:   "chord at line end",
			in:     "fading out [Em]",
			lyrics: "fading out ",
			chords: []ChordToken{{Chord: "Em", Position: 11}},
		},
		{
			name:   "empty brackets are literal",
			in:     "an [] empty pair",
			lyrics: "an [] empty pair",
			chords: []ChordToken{},
		},
		{
			name:   "unclosed bracket is literal",
			in:     "broken [Am line",
			lyrics: "broken [Am line",
			chords: []ChordToken{},
		},
		{
			name:   "complex chord names pass through",
			in:     "[Am7/E]slash and [F#dim]more",
			lyrics: "slash and more",
			chords: []ChordToken{{Chord: "Am7/E", Position: 0}, {Chord: "F#dim", Position: 10}},
		},
		{
			name:   "multibyte lyrics count characters not bytes",
			in:     "[Am]группа [D]крови",
			lyrics: "группа крови",
			chords: []ChordToken{{Chord: "Am", Position: 0}, {Chord: "D", Position: 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := ParseLine(tt.in)
			if line.Lyrics != tt.lyrics {
				t.Errorf("lyrics = %q, want %q", line.Lyrics, tt.lyrics)
			}
			if !reflect.DeepEqual(line.Chords, tt.chords) {
				t.Errorf("chords = %+v, want %+v", line.Chords, tt.chords)
			}
		})
	}
}

// Lines without a bracket come back exactly as they went in.
func TestParseLineNoChordIdempotent(t *testing.T) {
	for _, s := range []string{"", "plain text", "   indented", "with ] stray close", "trailing spaces   "} {
		line := ParseLine(s)
		if line.Lyrics != s {
			t.Errorf("ParseLine(%q).Lyrics = %q, want input back", s, line.Lyrics)
		}
		if len(line.Chords) != 0 {
			t.Errorf("ParseLine(%q).Chords = %+v, want none", s, line.Chords)
		}
	}
}

func TestIsChordOnly(t *testing.T) {
	chordOnly := ParseLine("[C]  [G]")
	if !chordOnly.IsChordOnly() {
		t.Errorf("line %+v should be chord-only", chordOnly)
	}
	withLyrics := ParseLine("[C]some words")
	if withLyrics.IsChordOnly() {
		t.Errorf("line %+v should not be chord-only", withLyrics)
	}
	empty := ParseLine("")
	if empty.IsChordOnly() {
		t.Errorf("empty line should not be chord-only")
	}
}

func TestInsertChords(t *testing.T) {
	tests := []struct {
		name   string
		lyrics string
		chords []ChordToken
		want   string
	}{
		{
			name:   "no chords",
			lyrics: "just words",
			chords: nil,
			want:   "just words",
		},
		{
			name:   "space added before non-space",
			lyrics: "Hello World",
			chords: []ChordToken{{Chord: "C", Position: 0}, {Chord: "G", Position: 6}},
			want:   "[C] Hello [G] World",
		},
		{
			name:   "no space added before existing space",
			lyrics: "Hello World",
			chords: []ChordToken{{Chord: "G", Position: 5}},
			want:   "Hello[G] World",
		},
		{
			name:   "position past end is clamped",
			lyrics: "short",
			chords: []ChordToken{{Chord: "Em", Position: 40}},
			want:   "short[Em]",
		},
		{
			name:   "stacked chords keep stored order",
			lyrics: "x",
			chords: []ChordToken{{Chord: "C", Position: 0}, {Chord: "G", Position: 0}},
			want:   "[C] [G] x",
		},
		{
			name:   "unsorted input handled",
			lyrics: "one two three",
			chords: []ChordToken{{Chord: "G", Position: 8}, {Chord: "C", Position: 0}},
			want:   "[C] one two [G] three",
		},
		{
			name:   "chord-only line",
			lyrics: "",
			chords: []ChordToken{{Chord: "C", Position: 0}, {Chord: "G", Position: 1}},
			want:   "[C] [G]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InsertChords(tt.lyrics, tt.chords); got != tt.want {
				t.Errorf("InsertChords(%q, %+v) = %q, want %q", tt.lyrics, tt.chords, got, tt.want)
			}
		})
	}
}
