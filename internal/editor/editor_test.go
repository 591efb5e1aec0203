package editor

import (
	"testing"

	"github.com/sukalov/chordbook/internal/chordpro"
)

const sample = `{title: Sample}
{sov}
[C]Hello [G]World
plain line
{eov}
{soc}
[F]oh oh
{eoc}`

func TestFromSongIDs(t *testing.T) {
	song := ParseText(sample)

	if len(song.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(song.Sections))
	}
	if song.Sections[0].ID != "section-0" || song.Sections[1].ID != "section-1" {
		t.Errorf("section ids = %q, %q", song.Sections[0].ID, song.Sections[1].ID)
	}
	if song.Sections[0].Lines[1].ID != "line-0-1" {
		t.Errorf("line id = %q", song.Sections[0].Lines[1].ID)
	}
	if song.Sections[0].Lines[0].Chords[1].ID != "chord-0-0-1" {
		t.Errorf("chord id = %q", song.Sections[0].Lines[0].Chords[1].ID)
	}

	// Same input, same ids.
	again := ParseText(sample)
	if again.Sections[0].Lines[0].Chords[0].ID != song.Sections[0].Lines[0].Chords[0].ID {
		t.Errorf("ids not deterministic across parses of identical text")
	}
}

func TestSongRoundTrip(t *testing.T) {
	parsed := chordpro.Parse(sample)
	back := FromSong(parsed).Song()

	if back.Title != parsed.Title {
		t.Errorf("title = %q, want %q", back.Title, parsed.Title)
	}
	if len(back.Sections) != len(parsed.Sections) {
		t.Fatalf("section count = %d, want %d", len(back.Sections), len(parsed.Sections))
	}
	for i := range parsed.Sections {
		if back.Sections[i].Type != parsed.Sections[i].Type {
			t.Errorf("section %d type = %s", i, back.Sections[i].Type)
		}
		if len(back.Sections[i].Lines) != len(parsed.Sections[i].Lines) {
			t.Errorf("section %d line count differs", i)
		}
	}

	reparsed := chordpro.Parse(FromSong(parsed).Text())
	if len(reparsed.Sections) != len(parsed.Sections) {
		t.Errorf("text round trip changed section count: %d vs %d", len(reparsed.Sections), len(parsed.Sections))
	}
}

func TestMutationsAreCopyOnWrite(t *testing.T) {
	song := ParseText(sample)

	moved := song.MoveChord("chord-0-0-0", 5)
	if song.Sections[0].Lines[0].Chords[0].Position != 0 {
		t.Errorf("MoveChord mutated the receiver")
	}
	if moved.Sections[0].Lines[0].Chords[0].Position != 5 {
		t.Errorf("MoveChord had no effect on the copy")
	}

	deleted := song.DeleteLine("line-0-1")
	if len(song.Sections[0].Lines) != 2 {
		t.Errorf("DeleteLine mutated the receiver")
	}
	if len(deleted.Sections[0].Lines) != 1 {
		t.Errorf("DeleteLine had no effect on the copy")
	}
}

func TestAddChord(t *testing.T) {
	song := ParseText(sample)

	updated, id := song.AddChord("line-0-1", "Am", 3)
	if id == "" {
		t.Fatal("AddChord returned empty id")
	}
	chords := updated.Sections[0].Lines[1].Chords
	if len(chords) != 1 || chords[0].Chord != "Am" || chords[0].Position != 3 {
		t.Errorf("chords = %+v", chords)
	}

	// Unknown line: no-op with empty id.
	same, id := song.AddChord("line-9-9", "Am", 0)
	if id != "" {
		t.Errorf("AddChord on unknown line returned id %q", id)
	}
	if len(same.Sections[0].Lines[1].Chords) != 0 {
		t.Errorf("AddChord on unknown line changed the song")
	}
}

func TestSetAndDeleteChord(t *testing.T) {
	song := ParseText(sample)

	renamed := song.SetChord("chord-0-0-0", "Cmaj7")
	if renamed.Sections[0].Lines[0].Chords[0].Chord != "Cmaj7" {
		t.Errorf("SetChord failed: %+v", renamed.Sections[0].Lines[0].Chords)
	}

	removed := song.DeleteChord("chord-0-0-0")
	chords := removed.Sections[0].Lines[0].Chords
	if len(chords) != 1 || chords[0].Chord != "G" {
		t.Errorf("DeleteChord left %+v", chords)
	}

	// Unknown ids are no-ops.
	unchanged := song.SetChord("chord-bogus", "X").DeleteChord("also-bogus")
	if unchanged.Sections[0].Lines[0].Chords[0].Chord != "C" {
		t.Errorf("mutations with unknown ids changed the song")
	}
}

func TestAddDeleteLine(t *testing.T) {
	song := ParseText(sample)

	updated, id := song.AddLine("section-1", 0, "new first line")
	if id == "" {
		t.Fatal("AddLine returned empty id")
	}
	if updated.Sections[1].Lines[0].Lyrics != "new first line" {
		t.Errorf("lines = %+v", updated.Sections[1].Lines)
	}
	if len(updated.Sections[1].Lines) != 2 {
		t.Errorf("line count = %d, want 2", len(updated.Sections[1].Lines))
	}

	// Index is clamped.
	clamped, _ := song.AddLine("section-1", 99, "appended")
	last := clamped.Sections[1].Lines[len(clamped.Sections[1].Lines)-1]
	if last.Lyrics != "appended" {
		t.Errorf("clamped add put line at wrong place: %+v", clamped.Sections[1].Lines)
	}
}

func TestAddDeleteSection(t *testing.T) {
	song := ParseText(sample)

	updated, id := song.AddSection(chordpro.SectionBridge, "Bridge")
	if len(updated.Sections) != 3 {
		t.Fatalf("section count = %d, want 3", len(updated.Sections))
	}
	added := updated.Sections[2]
	if added.ID != id || added.Type != chordpro.SectionBridge || added.Label != "Bridge" {
		t.Errorf("added section = %+v", added)
	}

	removed := updated.DeleteSection(id)
	if len(removed.Sections) != 2 {
		t.Errorf("DeleteSection left %d sections", len(removed.Sections))
	}
}

func TestEditorTranspose(t *testing.T) {
	song := ParseText(sample)
	up := song.Transpose(2)

	chords := up.Sections[0].Lines[0].Chords
	if chords[0].Chord != "D" || chords[1].Chord != "A" {
		t.Errorf("transposed chords = %+v", chords)
	}
	if chords[0].ID != "chord-0-0-0" {
		t.Errorf("transpose must keep ids, got %q", chords[0].ID)
	}
	if song.Sections[0].Lines[0].Chords[0].Chord != "C" {
		t.Errorf("receiver mutated")
	}
}

func TestSetLyricsKeepsChords(t *testing.T) {
	song := ParseText(sample)
	updated := song.SetLyrics("line-0-0", "Goodbye World")

	line := updated.Sections[0].Lines[0]
	if line.Lyrics != "Goodbye World" {
		t.Errorf("lyrics = %q", line.Lyrics)
	}
	if len(line.Chords) != 2 {
		t.Errorf("chords lost: %+v", line.Chords)
	}
}
