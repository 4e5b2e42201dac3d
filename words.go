package main

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// apostrophes that may show up in lyrics depending on the editor that
// produced them
const apostrophes = "'’‘ʼ`"

var caseFolder = cases.Fold()

// StripPunctuation keeps letters, digits, whitespace and apostrophes
func StripPunctuation(s string) string {
	s = norm.NFC.String(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || strings.ContainsRune(apostrophes, r) {
			return r
		}
		return -1
	}, s)
}

func hasApostrophe(s string) bool {
	return strings.ContainsAny(s, apostrophes)
}

// StringsMatch compares two words ignoring case
func StringsMatch(a, b string) bool {
	return caseFolder.String(norm.NFC.String(a)) == caseFolder.String(norm.NFC.String(b))
}

// WordsMatch compares a word from the score with a word from the lyrics
// file. Words carrying an apostrophe match anything: scores and lyric files
// disagree too often on how (and whether) to write them.
func WordsMatch(a, b string) bool {
	return StringsMatch(a, b) || hasApostrophe(a) || hasApostrophe(b)
}

// FullWord is a complete word as a list of its hyphen separated parts.
// Most words have a single part.
type FullWord []string

func (w FullWord) String() string {
	return strings.Join(w, "-")
}

// joined returns the word with its parts run together
func (w FullWord) joined() string {
	return strings.Join(w, "")
}

// fullWordsMatch compares a word assembled from beats with one from the
// lyrics file. When both split into the same number of hyphen parts each part
// is compared on its own, otherwise the parts are run together first.
func fullWordsMatch(sung, written FullWord) bool {
	if len(sung) == len(written) {
		for i := range sung {
			if !WordsMatch(sung[i], written[i]) {
				return false
			}
		}
		return true
	}
	return WordsMatch(sung.joined(), written.joined())
}

// wordBuilder assembles full words from a stream of syllables
type wordBuilder struct {
	parts   []string
	current strings.Builder
	started bool
}

// add feeds one syllable. It returns the completed word when the syllable
// ends one. Syllables without text are ignored.
func (w *wordBuilder) add(l Lyric) (FullWord, bool) {
	text := StripPunctuation(l.Text)
	if text == "" {
		return nil, false
	}

	w.started = true
	w.current.WriteString(text)

	switch {
	case l.SyllableFollows:
		return nil, false
	case l.HyphenatedWordFollows:
		w.parts = append(w.parts, w.current.String())
		w.current.Reset()
		return nil, false
	}

	word := FullWord(append(w.parts, w.current.String()))
	w.parts = nil
	w.current.Reset()
	w.started = false
	return word, true
}

// pending reports whether a word has been started but not finished
func (w *wordBuilder) pending() bool {
	return w.started
}
