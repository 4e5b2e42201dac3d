package main

import (
	"regexp"
	"strconv"
	"strings"
)

// chordNames maps tonal pitch class codes to note names. Codes walk the
// circle of fifths: 14 is C, each step of +1 is a fifth up, each step of +7
// adds a sharp. Double flats (below 6) and double sharps (above 26) are not
// used in chord symbols.
var chordNames = map[int]string{
	6:  "F♭",
	7:  "C♭",
	8:  "G♭",
	9:  "D♭",
	10: "A♭",
	11: "E♭",
	12: "B♭",
	13: "F",
	14: "C",
	15: "G",
	16: "D",
	17: "A",
	18: "E",
	19: "B",
	20: "F♯",
	21: "C♯",
	22: "G♯",
	23: "D♯",
	24: "A♯",
	25: "E♯",
	26: "B♯",
}

const (
	tpcC          = 14
	tpcAccidental = 7
	minChordCode  = 6
	maxChordCode  = 26
)

// naturalCodes gives the code of each natural note letter
var naturalCodes = map[byte]int{
	'F': 13,
	'C': 14,
	'G': 15,
	'D': 16,
	'A': 17,
	'E': 18,
	'B': 19,
}

// pitchName returns the note name for a code string, or "" when the code is
// not a number in the known range.
func pitchName(code string) string {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return ""
	}
	return chordNames[n]
}

// EncodeChord renders a chord as "<root><modifier>[/<bass>]". A chord whose
// root is missing or outside the table encodes to "" and is simply left off
// the sheet. An unknown bass is dropped without affecting the root.
func EncodeChord(chord Chord) string {
	root := pitchName(chord.Root)
	if root == "" {
		return ""
	}

	result := root + chord.Modifier
	if bass := pitchName(chord.BassRoot); bass != "" {
		result += "/" + bass
	}
	return result
}

// KeyName converts a key signature given as a count of fifths (negative for
// flats) to the name of its major key.
func KeyName(fifths int) string {
	return chordNames[tpcC+fifths]
}

var chordSymbolPattern = regexp.MustCompile(
	`^([A-G])(b|#|♭|♯)?((?:maj|min|dim|aug|sus|add|m|M|[0-9]|[b#♭♯+ø°()^,-])*)(?:/([A-G])(b|#|♭|♯)?)?$`)

// ParseChordSymbol converts a textual chord symbol such as "F#m7/C#" into a
// Chord in the same code space used by scores. The second return value is
// false when text does not look like a chord symbol.
func ParseChordSymbol(text string) (Chord, bool) {
	m := chordSymbolPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return Chord{}, false
	}

	root, ok := noteCode(m[1], m[2])
	if !ok {
		return Chord{}, false
	}

	chord := Chord{
		Root:     strconv.Itoa(root),
		Modifier: m[3],
	}

	if m[4] != "" {
		if bass, ok := noteCode(m[4], m[5]); ok {
			chord.BassRoot = strconv.Itoa(bass)
		}
	}

	return chord, true
}

func noteCode(letter, accidental string) (int, bool) {
	code, ok := naturalCodes[letter[0]]
	if !ok {
		return 0, false
	}

	switch accidental {
	case "b", "♭":
		code -= tpcAccidental
	case "#", "♯":
		code += tpcAccidental
	}

	if code < minChordCode || code > maxChordCode {
		return 0, false
	}
	return code, true
}
