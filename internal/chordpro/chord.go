package chordpro

import "strings"

// Chord is a parsed chord symbol. Quality is kept verbatim and never
// interpreted ("m7", "maj9", "sus4" are all just strings to us). Bass is the
// part after the first slash, if any.
type Chord struct {
	Root    string
	Quality string
	Bass    string
}

// The twelve pitch classes in their sharp spelling, starting from A.
var chromaticScale = [12]string{"A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#", "G", "G#"}

// Five pitch classes have an alternate flat spelling.
var flatSpelling = map[string]string{
	"A#": "Bb",
	"C#": "Db",
	"D#": "Eb",
	"F#": "Gb",
	"G#": "Ab",
}

// Semitone offsets of the natural notes from A.
var naturalOffset = map[byte]int{
	'A': 0, 'B': 2, 'C': 3, 'D': 5, 'E': 7, 'F': 8, 'G': 10,
}

// ParseChord splits a chord symbol into root, quality and optional bass.
// It returns false for empty input or input that does not start with a note
// letter A-G. The bass part is whatever follows the first slash, verbatim.
func ParseChord(text string) (Chord, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Chord{}, false
	}

	var chord Chord
	head := text
	if idx := strings.Index(text, "/"); idx >= 0 {
		head = text[:idx]
		chord.Bass = text[idx+1:]
	}

	root, rest, ok := splitNote(head)
	if !ok {
		return Chord{}, false
	}
	chord.Root = root
	chord.Quality = rest
	return chord, true
}

// splitNote peels a leading note (letter A-G plus optional # or b) off text.
func splitNote(text string) (note, rest string, ok bool) {
	if text == "" {
		return "", "", false
	}
	letter := text[0]
	if letter < 'A' || letter > 'G' {
		return "", "", false
	}
	end := 1
	if len(text) > 1 && (text[1] == '#' || text[1] == 'b') {
		end = 2
	}
	return text[:end], text[end:], true
}

// noteIndex maps a note spelling to its pitch class on the 0-11 wheel.
func noteIndex(note string) (int, bool) {
	if note == "" {
		return 0, false
	}
	offset, ok := naturalOffset[note[0]]
	if !ok {
		return 0, false
	}
	switch {
	case len(note) == 1:
		return offset, true
	case len(note) == 2 && note[1] == '#':
		return (offset + 1) % 12, true
	case len(note) == 2 && note[1] == 'b':
		return (offset + 11) % 12, true
	}
	return 0, false
}

// spellNote renders a pitch class, keeping the flat spelling when the input
// note was flat-spelled and the target pitch class has a flat form. This is a
// per-note decision, there is no key-signature logic here.
func spellNote(index int, flat bool) string {
	sharp := chromaticScale[((index%12)+12)%12]
	if flat {
		if alt, ok := flatSpelling[sharp]; ok {
			return alt
		}
	}
	return sharp
}

// transposeNote shifts one note spelling by steps semitones (steps already
// reduced to 0-11). Unparseable notes come back unchanged.
func transposeNote(note string, steps int) string {
	index, ok := noteIndex(note)
	if !ok {
		return note
	}
	flat := strings.HasSuffix(note, "b")
	return spellNote(index+steps, flat)
}

// Transpose shifts the chord's root (and bass, when present) by the given
// number of semitones along the chromatic wheel. A zero shift or an
// unparseable chord returns the input unchanged; callers never see an error
// from here.
func Transpose(chord string, semitones int) string {
	steps := ((semitones % 12) + 12) % 12
	if steps == 0 {
		return chord
	}
	parsed, ok := ParseChord(chord)
	if !ok {
		return chord
	}

	out := transposeNote(parsed.Root, steps) + parsed.Quality
	if parsed.Bass != "" {
		bass := parsed.Bass
		if note, rest, ok := splitNote(bass); ok && rest == "" {
			bass = transposeNote(note, steps)
		}
		out += "/" + bass
	}
	return out
}
