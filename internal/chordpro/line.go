package chordpro

// ParseLine extracts the chord tokens from one raw line of ChordPro text.
// A token is "[", one or more non-"]" characters, "]", plus at most one
// trailing space consumed by the token itself. The consumed space is what
// lets authors keep adjacent chords stacked ("[C] [G]text" puts C and G on
// the same offset) or spread ("[C]  [G]text" leaves a real space between
// them). Chord positions count lyric characters emitted so far, so they
// survive any later re-rendering width.
//
// A line with no brackets comes back untouched: ParseLine(s).Lyrics == s.
func ParseLine(raw string) Line {
	line := Line{Chords: []ChordToken{}}

	runes := []rune(raw)
	lyrics := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); {
		if runes[i] == '[' {
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == ']' {
					end = j
					break
				}
			}
			// "[]" and an unclosed "[" are literal text, not chords.
			if end > i+1 {
				line.Chords = append(line.Chords, ChordToken{
					Chord:    string(runes[i+1 : end]),
					Position: len(lyrics),
				})
				i = end + 1
				if i < len(runes) && runes[i] == ' ' {
					i++
				}
				continue
			}
		}
		lyrics = append(lyrics, runes[i])
		i++
	}

	line.Lyrics = string(lyrics)
	return line
}

// InsertChords is the inverse of ParseLine for a single line: it re-inserts
// every chord as "[chord]" at its recorded position in the plain lyrics.
// Chords go in rightmost-first so earlier insertions cannot shift offsets
// that are still pending. A trailing space follows the bracket only when the
// next character is neither a space nor the end of the (already
// chord-extended) string, mirroring ParseLine's consumption rule. Positions
// past the end of the line are clamped to append.
func InsertChords(lyrics string, chords []ChordToken) string {
	if len(chords) == 0 {
		return lyrics
	}

	// Stable order by position, then walk from the right. Chords sharing a
	// position keep their stored order in the output.
	order := make([]int, len(chords))
	for i := range order {
		order[i] = i
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && chords[order[j-1]].Position > chords[order[j]].Position; j-- {
			order[j-1], order[j] = order[j], order[j-1]
		}
	}

	runes := []rune(lyrics)
	for k := len(order) - 1; k >= 0; k-- {
		token := chords[order[k]]
		pos := token.Position
		if pos < 0 {
			pos = 0
		}
		if pos > len(runes) {
			pos = len(runes)
		}
		insert := []rune("[" + token.Chord + "]")
		if pos < len(runes) && runes[pos] != ' ' {
			insert = append(insert, ' ')
		}
		runes = append(runes[:pos], append(insert, runes[pos:]...)...)
	}
	return string(runes)
}
