package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectionNames(sections []MusicSection) []string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name
	}
	return names
}

func lineText(line []VerseBeat) string {
	var b wordBuilder
	text := ""
	for _, vb := range line {
		if w, ok := b.add(vb.Lyric); ok {
			if text != "" {
				text += " "
			}
			text += w.String()
		}
	}
	return text
}

func TestSegmentSections(t *testing.T) {
	sections := lyricSections("Verse 1\nAmazing grace\nhow sweet\n\nChorus\nsing it now")
	beats := []Beat{
		beat("14", true),
		beat("", true),
		beat("14", true, "A-"),
		beat("", false, "ma-"),
		beat("15", false, "zing"),
		beat("", true, "grace"),
		beat("13", false),
		beat("", true, "how"),
		beat("", false, "sweet"),
		beat("14", true),
		beat("", true),
		beat("15", false, "sing"),
		beat("", false, "it"),
		beat("", false, "now"),
		beat("14", true),
		beat("", true),
	}

	result, err := SegmentSections(beats, sections)
	require.NoError(t, err)
	require.Equal(t, []string{"Introduction", "Verse 1", "Instrumental", "Chorus", "Instrumental"}, sectionNames(result))

	intro := result[0]
	require.Len(t, intro.Lines, 1)
	require.Len(t, intro.Lines[0], 2)
	assert.Equal(t, "C", intro.Lines[0][0].Chord)

	verse := result[1]
	require.Len(t, verse.Lines, 2)
	assert.Equal(t, "Amazing grace", lineText(verse.Lines[0]))
	assert.Equal(t, "how sweet", lineText(verse.Lines[1]))

	// the chord after "grace" stays on the first line, the measure start ends it
	require.Len(t, verse.Lines[0], 5)
	assert.Equal(t, "F", verse.Lines[0][4].Chord)
	assert.Equal(t, "", verse.Lines[0][4].Lyric.Text)
	require.Len(t, verse.Lines[1], 2)
	assert.True(t, verse.Lines[1][0].MeasureStart)

	instrumental := result[2]
	require.Len(t, instrumental.Lines, 1)
	assert.Len(t, instrumental.Lines[0], 2)

	chorus := result[3]
	require.Len(t, chorus.Lines, 1)
	assert.Equal(t, "sing it now", lineText(chorus.Lines[0]))
	assert.Equal(t, "G", chorus.Lines[0][0].Chord)

	assert.Len(t, result[4].Lines[0], 2)
}

func TestSegmentSectionsLeadingChordJoinsSection(t *testing.T) {
	beats := []Beat{
		beat("15", true),
		beat("14", false, "la"),
		beat("", false, "la"),
	}

	result, err := SegmentSections(beats, lyricSections("Chorus\nla la"))
	require.NoError(t, err)
	require.Equal(t, []string{"Chorus"}, sectionNames(result))

	line := result[0].Lines[0]
	require.Len(t, line, 3)
	assert.Equal(t, "G", line[0].Chord)
	assert.Equal(t, "", line[0].Lyric.Text)
	assert.Equal(t, "C", line[1].Chord)
}

func TestSegmentSectionsLyricsFileOrder(t *testing.T) {
	sections := lyricSections("Verse 1\none two\nChorus\nla la\nVerse 2\nthree four")
	beats := []Beat{
		beat("14", true, "la"),
		beat("", false, "la"),
		beat("15", true, "one"),
		beat("", false, "two"),
		beat("13", true, "three"),
		beat("", false, "four"),
	}

	result, err := SegmentSections(beats, sections)
	require.NoError(t, err)
	assert.Equal(t, []string{"Verse 1", "Chorus", "Verse 2"}, sectionNames(result))
}

func TestSegmentSectionsHyphenatedWords(t *testing.T) {
	sections := lyricSections("Chorus\ntwenty-one guns")
	beats := []Beat{
		beat("14", true, "twen-"),
		beat("", false, "ty="),
		beat("", false, "one"),
		beat("", false, "guns"),
	}

	result, err := SegmentSections(beats, sections)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "twenty-one guns", lineText(result[0].Lines[0]))
}

func TestSegmentSectionsFailure(t *testing.T) {
	sections := lyricSections("Verse 1\none two\nChorus\nla la")
	beats := []Beat{
		beat("14", true, "one"),
		beat("", false, "two"),
		beat("15", true, "la"),
		beat("", false, "lo"),
	}

	result, err := SegmentSections(beats, sections)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrSegmentation))

	var segErr *SegmentationError
	require.True(t, errors.As(err, &segErr))
	require.Len(t, segErr.Diagnostics, 1)

	d := segErr.Diagnostics[0]
	assert.Equal(t, "Chorus", d.Section)
	assert.Equal(t, 1, d.WordIndex)
	assert.Equal(t, "lo", d.Got)
	assert.Equal(t, "la", d.Want)
	assert.Equal(t, []string{"Chorus"}, segErr.Unmatched)
}

func TestSegmentSectionsMissingSection(t *testing.T) {
	sections := lyricSections("Verse 1\none two\nBridge\nla la")
	beats := []Beat{
		beat("14", true, "one"),
		beat("", false, "two"),
	}

	_, err := SegmentSections(beats, sections)

	var segErr *SegmentationError
	require.True(t, errors.As(err, &segErr))
	assert.Empty(t, segErr.Diagnostics)
	assert.Equal(t, []string{"Bridge"}, segErr.Unmatched)
}

func TestSplitLines(t *testing.T) {
	section := lyricSections("Verse 1\none\ntwo three")[0]
	cells := []VerseBeat{
		{Lyric: Lyric{Text: "one"}, Chord: "C", MeasureStart: true},
		{Chord: "G"},
		{Chord: "F", MeasureStart: true},
		{Lyric: Lyric{Text: "two"}},
		{Lyric: Lyric{Text: "three"}},
		{Chord: "C"},
	}

	words, ends, pending := verseWords(cells)
	require.False(t, pending)

	lines, ok := splitLines(cells, words, ends, section)
	require.True(t, ok)
	require.Len(t, lines, 2)
	assert.Len(t, lines[0], 2)
	assert.Len(t, lines[1], 4)
	assert.Equal(t, "C", lines[1][3].Chord)
}

func TestSegmentSectionsSingleWord(t *testing.T) {
	beats := []Beat{
		beat("14", true, "A-"),
		beat("", false, "ma-"),
		beat("", false, "zing"),
	}

	result, err := SegmentSections(beats, lyricSections("Verse 1\nAmazing"))
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Verse 1", result[0].Name)
	require.Len(t, result[0].Lines, 1)

	line := result[0].Lines[0]
	require.Len(t, line, 3)
	assert.Equal(t, "C", line[0].Chord)
	assert.Equal(t, "", line[1].Chord)
	assert.Equal(t, "", line[2].Chord)
	assert.Equal(t, "Amazing", lineText(line))
	assert.Equal(t, "[C]Amazing", FormatLine(line))
}

func TestSegmentSectionsOneVerseFailsAll(t *testing.T) {
	sections := lyricSections("Verse 1\none two\nVerse 2\nthree four")
	beats := []Beat{
		beat("14", true, "one", "three"),
		beat("", false, "two", "fore"),
	}

	result, err := SegmentSections(beats, sections)
	assert.Empty(t, result)

	var segErr *SegmentationError
	require.True(t, errors.As(err, &segErr))
	require.Len(t, segErr.Diagnostics, 1)
	assert.Equal(t, 1, segErr.Diagnostics[0].Verse)
	assert.Equal(t, []string{"Verse 2"}, segErr.Unmatched)
}
