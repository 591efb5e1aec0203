package chordpro

import (
	"regexp"
	"strings"
)

// A directive occupies a whole line: optional surrounding whitespace, "{",
// a name with no ":" or "}", optionally ":" and a value running to the final
// "}", and nothing after. Lines with stray text after "}" are not directives
// and fall through to the lyric path.
var directiveRegex = regexp.MustCompile(`^\s*\{\s*([^:}]*?)\s*(?::\s*(.*?)\s*)?\}\s*$`)

// parseDirective classifies a physical line as a directive. The name comes
// back lowercased; value keeps its inner text with surrounding whitespace
// trimmed.
func parseDirective(line string) (name, value string, ok bool) {
	match := directiveRegex.FindStringSubmatch(line)
	if match == nil {
		return "", "", false
	}
	name = strings.ToLower(match[1])
	if name == "" {
		return "", "", false
	}
	return name, match[2], true
}

var sectionStarts = map[string]SectionType{
	"sov":             SectionVerse,
	"start_of_verse":  SectionVerse,
	"soc":             SectionChorus,
	"start_of_chorus": SectionChorus,
	"sob":             SectionBridge,
	"start_of_bridge": SectionBridge,
	"sot":             SectionTab,
	"start_of_tab":    SectionTab,
}

var sectionEnds = map[string]bool{
	"eov":           true,
	"end_of_verse":  true,
	"eoc":           true,
	"end_of_chorus": true,
	"eob":           true,
	"end_of_bridge": true,
	"eot":           true,
	"end_of_tab":    true,
}

// sectionStart resolves a directive name to the section type it opens.
func sectionStart(name string) (SectionType, bool) {
	typ, ok := sectionStarts[name]
	return typ, ok
}

// sectionEnd reports whether the directive name closes a section. Which
// section is not checked: the format is permissive and any end directive
// closes whatever is open.
func sectionEnd(name string) bool {
	return sectionEnds[name]
}

// startDirective gives the canonical short-form start/end directive pair for
// a section type. Intro, outro and grid sections have no directive pair of
// their own in this dialect and are written as tab sections.
func startDirective(typ SectionType) (start, end string) {
	switch typ {
	case SectionVerse:
		return "sov", "eov"
	case SectionChorus:
		return "soc", "eoc"
	case SectionBridge:
		return "sob", "eob"
	default:
		return "sot", "eot"
	}
}
