package chordpro

import "strings"

// CopyChords repeats the chord pattern of the first verse (and, separately,
// the first chorus) onto every later verse or chorus whose lines have no
// chords of their own. Songwriters usually annotate only the first verse;
// this fills in the rest.
//
// The transform is line-oriented and minimally invasive: it recognizes only
// the verse and chorus directive pairs, rewrites only chordless lines inside
// later blocks, and copies every other line through byte for byte. Bridges,
// tabs, metadata and anything else pass unmodified.
func CopyChords(text string) string {
	lines := strings.Split(text, "\n")

	const (
		blockVerse = iota
		blockChorus
	)

	// Per-line-index chord patterns of the first verse and first chorus.
	var patterns [2][][]ChordToken
	var recorded [2]bool

	open := -1
	var blockStart int

	closeBlock := func(endExclusive int) {
		if open < 0 {
			return
		}
		kind := open
		open = -1

		if !recorded[kind] {
			// First block of this kind: remember its chords per line index.
			pattern := make([][]ChordToken, 0, endExclusive-blockStart)
			for i := blockStart; i < endExclusive; i++ {
				pattern = append(pattern, ParseLine(lines[i]).Chords)
			}
			patterns[kind] = pattern
			recorded[kind] = true
			return
		}

		// Later block: fill chordless lines from the recorded pattern.
		pattern := patterns[kind]
		for i := blockStart; i < endExclusive; i++ {
			idx := i - blockStart
			if idx >= len(pattern) || len(pattern[idx]) == 0 {
				continue
			}
			if len(ParseLine(lines[i]).Chords) > 0 {
				continue
			}
			lines[i] = InsertChords(lines[i], pattern[idx])
		}
	}

	for i, raw := range lines {
		name, _, ok := parseDirective(raw)
		if !ok {
			continue
		}
		switch name {
		case "sov", "start_of_verse":
			closeBlock(i)
			open = blockVerse
			blockStart = i + 1
		case "soc", "start_of_chorus":
			closeBlock(i)
			open = blockChorus
			blockStart = i + 1
		case "eov", "end_of_verse", "eoc", "end_of_chorus":
			closeBlock(i)
		}
	}
	// A block left open at end of input is still processed.
	closeBlock(len(lines))

	return strings.Join(lines, "\n")
}
