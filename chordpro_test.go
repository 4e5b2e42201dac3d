package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cell(chord, text string) VerseBeat {
	return VerseBeat{Chord: chord, Lyric: *syllable(text)}
}

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name  string
		cells []VerseBeat
		want  string
	}{
		{
			name:  "single word",
			cells: []VerseBeat{cell("C", "Amazing")},
			want:  "[C]Amazing",
		},
		{
			name:  "held syllable gets a dash",
			cells: []VerseBeat{cell("C", "A-"), cell("G", "mazing")},
			want:  "[C]A  -  [G]mazing",
		},
		{
			name:  "short word gets extra spaces",
			cells: []VerseBeat{cell("C", "I"), cell("G", "see")},
			want:  "[C]I     [G]see",
		},
		{
			name:  "long word needs no padding",
			cells: []VerseBeat{cell("C", "Amazing"), cell("G", "grace")},
			want:  "[C]Amazing [G]grace",
		},
		{
			name:  "repeated chord is written once",
			cells: []VerseBeat{cell("C", "one"), cell("C", "two")},
			want:  "[C]one two",
		},
		{
			name:  "hyphenated word",
			cells: []VerseBeat{cell("C", "twen-"), cell("", "ty="), cell("", "one")},
			want:  "[C]twenty-one",
		},
		{
			name:  "trailing chord",
			cells: []VerseBeat{cell("C", "Amazing"), cell("F", "")},
			want:  "[C]Amazing [F]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLine(tt.cells))
		})
	}
}

func testSong() *Song {
	return &Song{
		Name:     "amazing_grace",
		Metadata: SongMetadata{
			Title: "Amazing Grace",
			Key:   "G",
			Time:  "3/4",
		},
		Sections: []MusicSection{
			{Name: "Verse 1", Lines: [][]VerseBeat{
				{cell("C", "Amazing")},
				{cell("G", "I"), cell("D", "see")},
			}},
			{Name: "Chorus", Lines: [][]VerseBeat{
				{cell("G", "sing")},
			}},
		},
	}
}

func TestFormatChordPro(t *testing.T) {
	want := "{title: Amazing Grace}\n" +
		"{key: G}\n" +
		"{time: 3/4}\n" +
		"\n" +
		"{comment: Verse 1}\n" +
		"[C]Amazing\n" +
		"[G]I     [D]see\n" +
		"\n" +
		"{comment: Chorus}\n" +
		"[G]sing\n"

	assert.Equal(t, want, FormatChordPro(testSong()))
}

func TestFormatChordProTitleFallback(t *testing.T) {
	song := &Song{
		Name:     "hymn",
		Sections: []MusicSection{
			{Name: "Chorus", Lines: [][]VerseBeat{{cell("C", "la")}}},
		},
	}
	assert.Equal(t, "{title: hymn}\n\n{comment: Chorus}\n[C]la\n", FormatChordPro(song))
}

func TestWriteChordPro(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChordPro(&buf, testSong()))
	assert.Equal(t, FormatChordPro(testSong()), buf.String())
}

func TestBlankRepeatedChords(t *testing.T) {
	sections := []MusicSection{{
		Name:  "Verse 1",
		Lines: [][]VerseBeat{
			{cell("C", "one"), cell("", "two"), cell("C", "three"), cell("G", "four"), cell("C", "five")},
			{cell("C", "six")},
		},
	}}

	BlankRepeatedChords(sections)

	var chords []string
	for _, vb := range sections[0].Lines[0] {
		chords = append(chords, vb.Chord)
	}
	assert.Equal(t, []string{"C", "", "", "G", "C"}, chords)
	// each line starts fresh
	assert.Equal(t, "C", sections[0].Lines[1][0].Chord)
}
