package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// sectionHeaders are the prefixes that open a new section in a lyrics file
var sectionHeaders = []string{"Verse", "Chorus", "Refrain", "Tag", "Bridge"}

// Word is one token of a lyrics file line. A token written with hyphens
// ("twenty-one") becomes several Words, all but the last flagged with
// HyphenatedWordFollows.
type Word struct {
	Text                  string
	SyllableFollows       bool
	HyphenatedWordFollows bool
}

// Line is a line of the lyrics file
type Line struct {
	Words []Word
}

// FullWords groups hyphen linked words into complete words
func (l Line) FullWords() []FullWord {
	var result []FullWord
	var current FullWord
	for _, w := range l.Words {
		current = append(current, w.Text)
		if w.HyphenatedWordFollows || w.SyllableFollows {
			continue
		}
		result = append(result, current)
		current = nil
	}
	if len(current) > 0 {
		result = append(result, current)
	}
	return result
}

// WordCount is the number of complete words on the line
func (l Line) WordCount() int {
	count := 0
	for i, w := range l.Words {
		if !(w.HyphenatedWordFollows || w.SyllableFollows) || i == len(l.Words)-1 {
			count++
		}
	}
	return count
}

func (l Line) String() string {
	words := l.FullWords()
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.String()
	}
	return strings.Join(parts, " ")
}

// LyricSection is a named block of the lyrics file (Verse 1, Chorus, ...)
type LyricSection struct {
	Name  string
	Lines []Line
}

// WordCount is the total number of complete words in the section, the key
// used to decide whether a run of beats can be this section at all.
func (s LyricSection) WordCount() int {
	total := 0
	for _, line := range s.Lines {
		total += line.WordCount()
	}
	return total
}

// FullWords returns every complete word of the section in order
func (s LyricSection) FullWords() []FullWord {
	var words []FullWord
	for _, line := range s.Lines {
		words = append(words, line.FullWords()...)
	}
	return words
}

func isSectionHeader(line string) bool {
	for _, prefix := range sectionHeaders {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// StructureLyrics splits raw lyrics file lines into sections. Blank lines are
// skipped and anything before the first section header is discarded.
func StructureLyrics(lines []string) []LyricSection {
	var result []LyricSection
	var current *LyricSection

	for _, raw := range lines {
		line := strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
		if line == "" {
			continue
		}

		if isSectionHeader(line) {
			if current != nil {
				result = append(result, *current)
			}
			current = &LyricSection{Name: line}
			continue
		}

		if current == nil {
			continue
		}

		if parsed := parseLyricLine(line); len(parsed.Words) > 0 {
			current.Lines = append(current.Lines, parsed)
		}
	}

	if current != nil {
		result = append(result, *current)
	}

	return result
}

// parseLyricLine splits a line on whitespace and each token on hyphens
func parseLyricLine(line string) Line {
	var result Line
	for _, token := range strings.Fields(line) {
		var parts []string
		for _, part := range strings.Split(token, "-") {
			if stripped := StripPunctuation(part); stripped != "" {
				parts = append(parts, stripped)
			}
		}

		for i, part := range parts {
			result.Words = append(result.Words, Word{
				Text:                  part,
				HyphenatedWordFollows: i < len(parts)-1,
			})
		}
	}
	return result
}

// ReadLyricsLines reads all lines of a lyrics text
func ReadLyricsLines(reader io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading lyrics: %w", err)
	}
	return lines, nil
}

// ReadLyricsFile reads the lines of the lyrics file at path
func ReadLyricsFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	lines, err := ReadLyricsLines(file)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return lines, nil
}
