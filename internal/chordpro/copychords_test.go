package chordpro

import (
	"strings"
	"testing"
)

func TestCopyChordsToLaterVerses(t *testing.T) {
	input := strings.Join([]string{
		"{title: Pattern}",
		"{sov}",
		"[C]first verse [G]line",
		"[Am]second line",
		"{eov}",
		"",
		"{sov}",
		"later verse line",
		"another line",
		"{eov}",
	}, "\n")

	got := CopyChords(input)
	lines := strings.Split(got, "\n")

	if lines[7] != "[C] later verse [G] line" {
		t.Errorf("line 7 = %q", lines[7])
	}
	if lines[8] != "[Am] another line" {
		t.Errorf("line 8 = %q", lines[8])
	}
	// First block and everything outside stays byte-identical.
	if lines[0] != "{title: Pattern}" || lines[2] != "[C]first verse [G]line" || lines[5] != "" {
		t.Errorf("untouched lines changed: %q", got)
	}
}

// A line that already has any chord bracket is never rewritten.
func TestCopyChordsNoOpOnChordedLines(t *testing.T) {
	input := strings.Join([]string{
		"{sov}",
		"[C] First",
		"{eov}",
		"{sov}",
		"[D] Already has chord",
		"{eov}",
	}, "\n")

	got := CopyChords(input)
	if !strings.Contains(got, "[D] Already has chord") {
		t.Errorf("chorded line was rewritten:\n%s", got)
	}
	if strings.Contains(got, "[C] [D]") || strings.Contains(got, "[C] Already") {
		t.Errorf("pattern leaked onto chorded line:\n%s", got)
	}
}

func TestCopyChordsVerseAndChorusTrackedSeparately(t *testing.T) {
	input := strings.Join([]string{
		"{sov}",
		"[C]verse",
		"{eov}",
		"{soc}",
		"[F]chorus",
		"{eoc}",
		"{sov}",
		"verse again",
		"{eov}",
		"{soc}",
		"chorus again",
		"{eoc}",
	}, "\n")

	lines := strings.Split(CopyChords(input), "\n")
	if lines[7] != "[C] verse again" {
		t.Errorf("second verse = %q", lines[7])
	}
	if lines[10] != "[F] chorus again" {
		t.Errorf("second chorus = %q", lines[10])
	}
}

// Bridges and everything outside verse/chorus blocks pass through verbatim.
func TestCopyChordsLeavesOtherBlocksAlone(t *testing.T) {
	input := strings.Join([]string{
		"{sov}",
		"[C]verse",
		"{eov}",
		"{sob}",
		"bridge line",
		"{eob}",
		"free line",
	}, "\n")

	if got := CopyChords(input); got != input {
		t.Errorf("text outside verse/chorus changed:\n%s", got)
	}
}

// Later blocks longer than the recorded pattern keep their extra lines.
func TestCopyChordsShorterPattern(t *testing.T) {
	input := strings.Join([]string{
		"{sov}",
		"[C]one line only",
		"{eov}",
		"{sov}",
		"first",
		"extra line beyond the pattern",
		"{eov}",
	}, "\n")

	lines := strings.Split(CopyChords(input), "\n")
	if lines[4] != "[C] first" {
		t.Errorf("line 4 = %q", lines[4])
	}
	if lines[5] != "extra line beyond the pattern" {
		t.Errorf("line 5 = %q", lines[5])
	}
}

// Blank pattern lines copy nothing onto the matching line.
func TestCopyChordsBlankPatternLines(t *testing.T) {
	input := strings.Join([]string{
		"{sov}",
		"[C]top",
		"",
		"[G]bottom",
		"{eov}",
		"{sov}",
		"top again",
		"",
		"bottom again",
		"{eov}",
	}, "\n")

	lines := strings.Split(CopyChords(input), "\n")
	if lines[6] != "[C] top again" {
		t.Errorf("line 6 = %q", lines[6])
	}
	if lines[7] != "" {
		t.Errorf("line 7 = %q, want empty", lines[7])
	}
	if lines[8] != "[G] bottom again" {
		t.Errorf("line 8 = %q", lines[8])
	}
}

// A block still open at end of input is processed like a closed one.
func TestCopyChordsUnclosedFinalBlock(t *testing.T) {
	input := strings.Join([]string{
		"{sov}",
		"[C]pattern",
		"{eov}",
		"{sov}",
		"no chords here",
	}, "\n")

	lines := strings.Split(CopyChords(input), "\n")
	if lines[4] != "[C] no chords here" {
		t.Errorf("line 4 = %q", lines[4])
	}
}

// With no verse or chorus at all, the transform is the identity.
func TestCopyChordsIdentityWithoutBlocks(t *testing.T) {
	input := "{title: T}\n\nplain [C]line\nmore text"
	if got := CopyChords(input); got != input {
		t.Errorf("identity violated:\n%s", got)
	}
}

// The full-name directives work the same as the short forms.
func TestCopyChordsFullNameDirectives(t *testing.T) {
	input := strings.Join([]string{
		"{start_of_verse}",
		"[Em]pattern line",
		"{end_of_verse}",
		"{start_of_verse}",
		"bare line",
		"{end_of_verse}",
	}, "\n")

	lines := strings.Split(CopyChords(input), "\n")
	if lines[4] != "[Em] bare line" {
		t.Errorf("line 4 = %q", lines[4])
	}
}
