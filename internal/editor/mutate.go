package editor

import "github.com/sukalov/chordbook/internal/chordpro"

// All mutations are copy-on-write: the receiver stays untouched and a new
// Song comes back. Targets that no longer exist make the mutation a no-op,
// never an error; by the time an edit lands, the element it aimed at may
// already be gone, and the edit surface just reapplies on fresh state.

// clone deep-copies the song so mutations never alias the receiver.
func (s Song) clone() Song {
	out := s
	out.Capo = copyInt(s.Capo)
	out.Tempo = copyInt(s.Tempo)
	out.Sections = make([]Section, len(s.Sections))
	for i, section := range s.Sections {
		cloned := section
		cloned.Lines = make([]Line, len(section.Lines))
		for j, line := range section.Lines {
			clonedLine := line
			clonedLine.Chords = append([]Chord(nil), line.Chords...)
			cloned.Lines[j] = clonedLine
		}
		out.Sections[i] = cloned
	}
	return out
}

func (s *Song) findLine(lineID string) *Line {
	for i := range s.Sections {
		for j := range s.Sections[i].Lines {
			if s.Sections[i].Lines[j].ID == lineID {
				return &s.Sections[i].Lines[j]
			}
		}
	}
	return nil
}

// AddChord appends a chord to the line and returns the new song plus the
// fresh chord id ("" when the line does not exist).
func (s Song) AddChord(lineID, chord string, position int) (Song, string) {
	out := s.clone()
	line := out.findLine(lineID)
	if line == nil {
		return out, ""
	}
	id := newID("chord")
	line.Chords = append(line.Chords, Chord{ID: id, Chord: chord, Position: position})
	return out, id
}

// SetChord replaces the chord text of an existing chord.
func (s Song) SetChord(chordID, chord string) Song {
	out := s.clone()
	for i := range out.Sections {
		for j := range out.Sections[i].Lines {
			for k := range out.Sections[i].Lines[j].Chords {
				if out.Sections[i].Lines[j].Chords[k].ID == chordID {
					out.Sections[i].Lines[j].Chords[k].Chord = chord
					return out
				}
			}
		}
	}
	return out
}

// MoveChord changes the lyric offset of an existing chord. Positions past
// the end of the line are allowed; serialization clamps them.
func (s Song) MoveChord(chordID string, position int) Song {
	out := s.clone()
	for i := range out.Sections {
		for j := range out.Sections[i].Lines {
			for k := range out.Sections[i].Lines[j].Chords {
				if out.Sections[i].Lines[j].Chords[k].ID == chordID {
					out.Sections[i].Lines[j].Chords[k].Position = position
					return out
				}
			}
		}
	}
	return out
}

// DeleteChord removes a chord by id.
func (s Song) DeleteChord(chordID string) Song {
	out := s.clone()
	for i := range out.Sections {
		for j := range out.Sections[i].Lines {
			chords := out.Sections[i].Lines[j].Chords
			for k := range chords {
				if chords[k].ID == chordID {
					out.Sections[i].Lines[j].Chords = append(chords[:k:k], chords[k+1:]...)
					return out
				}
			}
		}
	}
	return out
}

// SetLyrics replaces the lyric text of a line, keeping its chords.
func (s Song) SetLyrics(lineID, lyrics string) Song {
	out := s.clone()
	if line := out.findLine(lineID); line != nil {
		line.Lyrics = lyrics
	}
	return out
}

// AddLine inserts a new line into a section at the given index (clamped to
// the section's bounds) and returns the new song plus the line id.
func (s Song) AddLine(sectionID string, index int, lyrics string) (Song, string) {
	out := s.clone()
	for i := range out.Sections {
		if out.Sections[i].ID != sectionID {
			continue
		}
		lines := out.Sections[i].Lines
		if index < 0 {
			index = 0
		}
		if index > len(lines) {
			index = len(lines)
		}
		id := newID("line")
		line := Line{ID: id, Lyrics: lyrics, Chords: []Chord{}}
		lines = append(lines[:index:index], append([]Line{line}, lines[index:]...)...)
		out.Sections[i].Lines = lines
		return out, id
	}
	return out, ""
}

// DeleteLine removes a line by id.
func (s Song) DeleteLine(lineID string) Song {
	out := s.clone()
	for i := range out.Sections {
		lines := out.Sections[i].Lines
		for j := range lines {
			if lines[j].ID == lineID {
				out.Sections[i].Lines = append(lines[:j:j], lines[j+1:]...)
				return out
			}
		}
	}
	return out
}

// AddSection appends a new empty section and returns the new song plus the
// section id.
func (s Song) AddSection(typ chordpro.SectionType, label string) (Song, string) {
	out := s.clone()
	id := newID("section")
	out.Sections = append(out.Sections, Section{ID: id, Type: typ, Label: label, Lines: []Line{}})
	return out, id
}

// DeleteSection removes a section by id.
func (s Song) DeleteSection(sectionID string) Song {
	out := s.clone()
	for i := range out.Sections {
		if out.Sections[i].ID == sectionID {
			out.Sections = append(out.Sections[:i:i], out.Sections[i+1:]...)
			return out
		}
	}
	return out
}

// Transpose shifts every chord in the song, keeping ids and positions.
func (s Song) Transpose(semitones int) Song {
	out := s.clone()
	for i := range out.Sections {
		for j := range out.Sections[i].Lines {
			for k := range out.Sections[i].Lines[j].Chords {
				chord := &out.Sections[i].Lines[j].Chords[k]
				chord.Chord = chordpro.Transpose(chord.Chord, semitones)
			}
		}
	}
	return out
}
