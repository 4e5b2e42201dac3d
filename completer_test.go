package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoVerseLyrics = `Verse 1
one two
Verse 2
three four
Chorus
sing it now
Chorus 2
sing it now`

// verse 2 is missing the last word of the second chorus
func twoVerseBeats() []Beat {
	return []Beat{
		beat("14", true, "one", "three"),
		beat("15", false, "two", "four"),
		beat("13", true, "sing", "sing"),
		beat("", false, "it", "it"),
		beat("14", false, "now"),
	}
}

func TestCompleteVersesFromNeighbor(t *testing.T) {
	beats := twoVerseBeats()

	diagnostics := CompleteVerses(beats, lyricSections(twoVerseLyrics))
	assert.Empty(t, diagnostics)

	require.Len(t, beats[4].Lyrics, 2)
	completed := beats[4].Lyric(1)
	require.NotNil(t, completed)
	assert.Equal(t, Lyric{Text: "now"}, *completed)

	// the syllable is a copy, not shared with verse 1
	assert.NotSame(t, beats[4].Lyric(0), completed)
	beats[4].Lyric(0).Text = "later"
	assert.Equal(t, "now", completed.Text)

	// nothing else moved
	assert.Equal(t, "it", beats[3].Lyric(1).Text)
	assert.Equal(t, "four", beats[1].Lyric(1).Text)
}

func TestCompleteVersesThenSegment(t *testing.T) {
	beats := twoVerseBeats()
	sections := lyricSections(twoVerseLyrics)

	require.Empty(t, CompleteVerses(beats, sections))

	result, err := SegmentSections(beats, sections)
	require.NoError(t, err)

	var names []string
	for _, s := range result {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Verse 1", "Verse 2", "Chorus", "Chorus 2"}, names)
	assert.Equal(t, "now", result[3].Lines[0][2].Lyric.Text)
}

func TestCompleteVersesReportsShortVerse(t *testing.T) {
	beats := []Beat{
		beat("14", true, "one"),
		beat("", false, "two"),
	}

	diagnostics := CompleteVerses(beats, lyricSections("Verse 1\none two three"))
	require.Len(t, diagnostics, 1)

	d := diagnostics[0]
	assert.Equal(t, 0, d.Verse)
	assert.Equal(t, "Verse 1", d.Section)
	assert.Equal(t, 2, d.Words)
	assert.Equal(t, 3, d.Expected)
	assert.Equal(t, -1, d.WordIndex)
	assert.Equal(t, `verse 1: closest section "Verse 1" has 3 words, verse has 2`, d.String())
}

func TestCompleteVersesReportsWrongWord(t *testing.T) {
	beats := []Beat{
		beat("14", true, "one"),
		beat("", false, "too"),
		beat("", false, "three"),
	}

	diagnostics := CompleteVerses(beats, lyricSections("Verse 1\none two three"))
	require.Len(t, diagnostics, 1)

	d := diagnostics[0]
	assert.Equal(t, 1, d.WordIndex)
	assert.Equal(t, "too", d.Got)
	assert.Equal(t, "two", d.Want)
	assert.Equal(t, `verse 1: closest section "Verse 1", word 2 is "too" but lyrics have "two"`, d.String())
}

func TestCompleteVersesNeedsMatchingResult(t *testing.T) {
	// verse 1 sings further but its words would not complete verse 2
	beats := []Beat{
		beat("14", true, "sing", "sing"),
		beat("", false, "it", "it"),
		beat("", false, "loud"),
	}
	sections := lyricSections("Chorus\nsing it loud\nChorus 2\nsing it now")

	diagnostics := CompleteVerses(beats, sections)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, 1, diagnostics[0].Verse)
	assert.Len(t, beats[2].Lyrics, 1)
}

func TestWordsMatchSection(t *testing.T) {
	written := []FullWord{{"one"}, {"two"}}
	assert.Equal(t, -1, wordsMatchSection([]FullWord{{"One"}, {"two"}}, written))
	assert.Equal(t, 1, wordsMatchSection([]FullWord{{"one"}}, written))
	assert.Equal(t, 1, wordsMatchSection([]FullWord{{"one"}, {"three"}}, written))
	assert.Equal(t, 2, wordsMatchSection([]FullWord{{"one"}, {"two"}, {"three"}}, written))
}

func TestCompleteVersesCopiesMissingWords(t *testing.T) {
	sections := lyricSections("Chorus\none two three four five six\nChorus 2\none two three four five six")
	beats := []Beat{
		beat("14", true, "one", "one"),
		beat("", false, "two", "two"),
		beat("15", false, "three", "three"),
		beat("", false, "four", "four"),
		beat("13", true, "five"),
		beat("", false, "six"),
	}

	require.Empty(t, CompleteVerses(beats, sections))

	for i := 4; i < 6; i++ {
		a, b := beats[i].Lyric(0), beats[i].Lyric(1)
		require.NotNil(t, b)
		assert.Equal(t, *a, *b)
		assert.NotSame(t, a, b)
	}

	result, err := SegmentSections(beats, sections)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chorus", "Chorus 2"}, sectionNames(result))
}

func TestCompleteVersesPrefersPreviousNeighbor(t *testing.T) {
	sections := lyricSections("Chorus\nsing it now\nChorus 2\nsing it now\nChorus 3\nsing it now")
	beats := []Beat{
		beat("14", true, "sing", "sing", "sing"),
		beat("", false, "it", "it", "it"),
		beat("15", false, "now", "", "NOW"),
	}

	require.Empty(t, CompleteVerses(beats, sections))

	completed := beats[2].Lyric(1)
	require.NotNil(t, completed)
	assert.Equal(t, Lyric{Text: "now"}, *completed)
	assert.NotSame(t, beats[2].Lyric(0), completed)
	assert.Equal(t, "NOW", beats[2].Lyric(2).Text)
}
