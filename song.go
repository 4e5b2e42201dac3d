package main

// Chord is a chord symbol as found in a score. Root and BassRoot hold tonal
// pitch class codes (see chordNames) as strings, Modifier is free text such
// as "m7" or "sus4".
type Chord struct {
	Root     string
	BassRoot string
	Modifier string
}

// Lyric is a single syllable sung on a beat by one verse
type Lyric struct {
	Text                  string // punctuation stripped, apostrophes kept
	SyllableFollows       bool   // the next syllable of this verse continues the same word
	HyphenatedWordFollows bool   // the next syllable starts the other half of a hyphenated compound
}

// Continues reports whether the next syllable joins this one without a space
func (l Lyric) Continues() bool {
	return l.SyllableFollows || l.HyphenatedWordFollows
}

// Beat is one slot of the score timeline. Lyrics is indexed by verse number,
// a nil entry means that verse has no syllable on this beat.
type Beat struct {
	Chord        Chord
	MeasureStart bool
	Lyrics       []*Lyric
}

// Lyric returns the syllable for the given verse or nil
func (b *Beat) Lyric(verse int) *Lyric {
	if verse < 0 || verse >= len(b.Lyrics) {
		return nil
	}
	return b.Lyrics[verse]
}

// SetLyric stores a copy of lyric in the verse slot, growing the slice as needed
func (b *Beat) SetLyric(verse int, lyric Lyric) {
	for len(b.Lyrics) <= verse {
		b.Lyrics = append(b.Lyrics, nil)
	}
	l := lyric
	b.Lyrics[verse] = &l
}

// HasLyrics reports whether any verse sings on this beat
func (b *Beat) HasLyrics() bool {
	for _, l := range b.Lyrics {
		if l != nil && l.Text != "" {
			return true
		}
	}
	return false
}

// VerseBeat is the view of a Beat from a single verse
type VerseBeat struct {
	Lyric        Lyric
	Chord        string // encoded chord label, empty when there is no chord
	MeasureStart bool
}

// NewVerseBeat projects beat onto verse. A negative verse yields a chord-only cell.
func NewVerseBeat(beat *Beat, verse int) VerseBeat {
	vb := VerseBeat{
		Chord:        EncodeChord(beat.Chord),
		MeasureStart: beat.MeasureStart,
	}
	if l := beat.Lyric(verse); l != nil {
		vb.Lyric = *l
	}
	return vb
}

// MusicSection is a named part of the song, made of lines of beat cells
type MusicSection struct {
	Name  string
	Lines [][]VerseBeat
}

// SongMetadata holds the descriptive fields gathered while reading a score
type SongMetadata struct {
	Title  string
	Author string
	Key    string
	Tempo  string
	Time   string
}

// Song is the finished chord sheet
type Song struct {
	Name     string
	Metadata SongMetadata
	Sections []MusicSection
}
