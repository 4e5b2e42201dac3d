package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeChord(t *testing.T) {
	tests := []struct {
		name  string
		chord Chord
		want  string
	}{
		{"natural root", Chord{Root: "14"}, "C"},
		{"lowest code", Chord{Root: "6"}, "F♭"},
		{"highest code", Chord{Root: "26"}, "B♯"},
		{"modifier", Chord{Root: "17", Modifier: "m7"}, "Am7"},
		{"slash chord", Chord{Root: "14", BassRoot: "17"}, "C/A"},
		{"unknown bass dropped", Chord{Root: "14", Modifier: "maj7", BassRoot: "99"}, "Cmaj7"},
		{"below range", Chord{Root: "5"}, ""},
		{"above range", Chord{Root: "27"}, ""},
		{"not a number", Chord{Root: "x"}, ""},
		{"empty", Chord{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeChord(tt.chord))
		})
	}
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "C", KeyName(0))
	assert.Equal(t, "G", KeyName(1))
	assert.Equal(t, "F", KeyName(-1))
	assert.Equal(t, "E♭", KeyName(-3))
	assert.Equal(t, "F♯", KeyName(6))
	assert.Equal(t, "", KeyName(-9))
}

func TestParseChordSymbol(t *testing.T) {
	tests := []struct {
		text    string
		want    Chord
		encoded string
	}{
		{"C", Chord{Root: "14"}, "C"},
		{"Am", Chord{Root: "17", Modifier: "m"}, "Am"},
		{"F#m7/C#", Chord{Root: "20", Modifier: "m7", BassRoot: "21"}, "F♯m7/C♯"},
		{"Bb7", Chord{Root: "12", Modifier: "7"}, "B♭7"},
		{"G/B", Chord{Root: "15", BassRoot: "19"}, "G/B"},
		{"Dsus4", Chord{Root: "16", Modifier: "sus4"}, "Dsus4"},
		{" E♭maj7 ", Chord{Root: "11", Modifier: "maj7"}, "E♭maj7"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			chord, ok := ParseChordSymbol(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, chord)
			assert.Equal(t, tt.encoded, EncodeChord(chord))
		})
	}
}

func TestParseChordSymbolRejectsText(t *testing.T) {
	for _, text := range []string{"", "Hello", "Dance", "section Verse 1", "H7", "phrase_start"} {
		_, ok := ParseChordSymbol(text)
		assert.False(t, ok, text)
	}
}
