package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

// chordWidthFactor approximates how much wider a chord label renders than
// lyric text of the same length
const chordWidthFactor = 1.3

// lineWriter renders one line of beat cells as inline chord text
type lineWriter struct {
	out         strings.Builder
	budget      int
	lastChord   string
	lastBracket int // offset of the last '[' written, -1 before the first chord
	lastSpaces  int // offset just past the last space run, -1 before the first
}

func newLineWriter() *lineWriter {
	return &lineWriter{lastBracket: -1, lastSpaces: -1}
}

func (w *lineWriter) space() {
	w.out.WriteByte(' ')
	w.lastSpaces = w.out.Len()
}

// pad makes room for the previous chord before the next one is written. When
// a space was written since the last chord the space grows, otherwise a held
// syllable is shown as a dash.
func (w *lineWriter) pad() {
	if w.budget <= 1 {
		return
	}

	if w.lastSpaces > w.lastBracket {
		s := w.out.String()
		w.out.Reset()
		w.out.WriteString(s[:w.lastSpaces])
		w.out.WriteString(strings.Repeat(" ", w.budget))
		w.out.WriteString(s[w.lastSpaces:])
		w.lastSpaces += w.budget
		return
	}

	half := strings.Repeat(" ", w.budget/2)
	w.out.WriteString(half + "-" + half)
	w.lastSpaces = w.out.Len()
}

func (w *lineWriter) cell(vb VerseBeat, spaceBefore bool) {
	if spaceBefore {
		w.space()
	}

	text := vb.Lyric.Text
	textLen := utf8.RuneCountInString(text)

	if vb.Chord != "" && vb.Chord != w.lastChord {
		w.pad()
		w.lastBracket = w.out.Len()
		fmt.Fprintf(&w.out, "[%s]", vb.Chord)
		w.lastChord = vb.Chord
		w.budget = int(math.Round(float64(utf8.RuneCountInString(vb.Chord))*chordWidthFactor)) - textLen + 4
	} else {
		w.budget -= textLen
		if !vb.Lyric.Continues() {
			w.budget--
		}
	}

	w.out.WriteString(text)
	if vb.Lyric.HyphenatedWordFollows {
		w.out.WriteByte('-')
	}
}

// FormatLine renders a line of cells as "[C]lyric [G]text"
func FormatLine(cells []VerseBeat) string {
	w := newLineWriter()
	continues := true
	for _, vb := range cells {
		w.cell(vb, !continues)
		continues = vb.Lyric.Continues()
	}
	return strings.TrimRight(w.out.String(), " ")
}

// FormatChordPro renders a song as a ChordPro document
func FormatChordPro(song *Song) string {
	var b strings.Builder

	directives := []struct{ name, value string }{
		{"title", song.Metadata.Title},
		{"artist", song.Metadata.Author},
		{"key", song.Metadata.Key},
		{"tempo", song.Metadata.Tempo},
		{"time", song.Metadata.Time},
	}
	if song.Metadata.Title == "" {
		directives[0].value = song.Name
	}

	header := false
	for _, d := range directives {
		if d.value == "" {
			continue
		}
		fmt.Fprintf(&b, "{%s: %s}\n", d.name, d.value)
		header = true
	}

	for i, section := range song.Sections {
		if i > 0 || header {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "{comment: %s}\n", section.Name)
		for _, line := range section.Lines {
			b.WriteString(FormatLine(line))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// WriteChordPro writes the ChordPro rendering of song to w
func WriteChordPro(w io.Writer, song *Song) error {
	_, err := io.WriteString(w, FormatChordPro(song))
	return err
}

// BlankRepeatedChords clears a chord label that repeats the previous chord of
// the same line
func BlankRepeatedChords(sections []MusicSection) {
	for s := range sections {
		for _, line := range sections[s].Lines {
			last := ""
			for i := range line {
				if line[i].Chord == "" {
					continue
				}
				if line[i].Chord == last {
					line[i].Chord = ""
					continue
				}
				last = line[i].Chord
			}
		}
	}
}
