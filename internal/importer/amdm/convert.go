package amdm

import (
	"regexp"
	"strings"

	"github.com/sukalov/chordbook/internal/chordpro"
)

// AmDm section names and the directive pairs they map to.
var sectionDirectives = map[string][2]string{
	"Куплет":     {"sov", "eov"},
	"Припев":     {"soc", "eoc"},
	"Переход":    {"sob", "eob"},
	"Вступление": {"sot", "eot"},
	"Проигрыш":   {"sot", "eot"},
	"Кода":       {"sot", "eot"},
}

var sectionMarkerRegex = regexp.MustCompile(`^\[([^\]]+)\]:?$`)

// ToChordPro converts chords-over-lyrics text into ChordPro. A line whose
// every token parses as a chord is merged into the following lyric line,
// each chord landing at its column offset. Section markers like
// "[Куплет 2]:" become the matching directive pair.
func ToChordPro(raw string, meta Meta) string {
	var out []string
	if meta.Title != "" {
		out = append(out, "{title: "+meta.Title+"}")
	}
	if meta.Artist != "" {
		out = append(out, "{artist: "+meta.Artist+"}")
	}
	if len(out) > 0 {
		out = append(out, "")
	}

	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	openEnd := ""

	closeSection := func() {
		if openEnd != "" {
			out = append(out, "{"+openEnd+"}", "")
			openEnd = ""
		}
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if name, ok := sectionName(trimmed); ok {
			closeSection()
			pair := directivesFor(name)
			start := "{" + pair[0]
			if label := sectionLabel(name); label != "" {
				start += ": " + label
			}
			out = append(out, start+"}")
			openEnd = pair[1]
			continue
		}

		if isChordLine(trimmed) {
			tokens := chordTokens(line)
			if j := i + 1; j < len(lines) {
				next := strings.TrimRight(lines[j], " \t")
				nextTrimmed := strings.TrimSpace(next)
				if nextTrimmed != "" && !isChordLine(nextTrimmed) {
					if _, marker := sectionName(nextTrimmed); !marker {
						out = append(out, chordpro.InsertChords(next, tokens))
						i = j
						continue
					}
				}
			}
			// Standalone chord row, kept as a chord-only line. Column
			// offsets mean nothing without a lyric underneath.
			for k := range tokens {
				tokens[k].Position = 0
			}
			out = append(out, chordpro.InsertChords("", tokens))
			continue
		}

		out = append(out, line)
	}
	closeSection()

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

func sectionName(line string) (string, bool) {
	match := sectionMarkerRegex.FindStringSubmatch(line)
	if match == nil {
		return "", false
	}
	name := strings.TrimSuffix(strings.TrimSpace(match[1]), ":")
	for base := range sectionDirectives {
		if strings.HasPrefix(name, base) {
			return name, true
		}
	}
	return "", false
}

func directivesFor(name string) [2]string {
	for base, pair := range sectionDirectives {
		if strings.HasPrefix(name, base) {
			return pair
		}
	}
	return [2]string{"sov", "eov"}
}

// sectionLabel keeps the qualifier of numbered markers, so "Куплет 2"
// becomes {sov: Куплет 2} while a bare "Припев" maps to a plain {soc}.
func sectionLabel(name string) string {
	if _, exact := sectionDirectives[name]; exact {
		return ""
	}
	return name
}

// normalizeChord maps the German H notation AmDm uses onto B.
func normalizeChord(token string) string {
	if strings.HasPrefix(token, "H") {
		return "B" + token[1:]
	}
	return token
}

// isChordLine reports whether every token on the line parses as a chord.
func isChordLine(line string) bool {
	fields := strings.Fields(strings.Map(func(r rune) rune {
		if r == '|' {
			return ' '
		}
		return r
	}, line))
	if len(fields) == 0 {
		return false
	}
	for _, field := range fields {
		if _, ok := chordpro.ParseChord(normalizeChord(field)); !ok {
			return false
		}
	}
	return true
}

// chordTokens reads a chord row into tokens positioned at their rune
// columns, which line up with the lyric line underneath.
func chordTokens(line string) []chordpro.ChordToken {
	var tokens []chordpro.ChordToken
	runes := []rune(line)
	for i := 0; i < len(runes); {
		if runes[i] == ' ' || runes[i] == '\t' || runes[i] == '|' {
			i++
			continue
		}
		start := i
		for i < len(runes) && runes[i] != ' ' && runes[i] != '\t' && runes[i] != '|' {
			i++
		}
		tokens = append(tokens, chordpro.ChordToken{
			Chord:    normalizeChord(string(runes[start:i])),
			Position: start,
		})
	}
	return tokens
}
