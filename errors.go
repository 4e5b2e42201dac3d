package main

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for score files with an unknown extension or content
	ErrUnsupportedFormat = errors.New("unsupported score format")
	// ErrScoreNotFound is returned when a container holds no score
	ErrScoreNotFound = errors.New("score not found")
	// ErrSegmentation is returned when the beats could not be split into the lyric sections
	ErrSegmentation = errors.New("segmentation failed")
	// ErrInvalidLyrics is returned when a lyrics file has no usable sections
	ErrInvalidLyrics = errors.New("invalid lyrics file")
)

// IOError is a failed file operation at the edge of the program
type IOError struct {
	Op   string // open, read, write, ...
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError is malformed score content
type ParseError struct {
	Format  string // MSCX, MIDI, container.xml, ...
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupportedFormat
}

// Diagnostic explains why a verse could not be matched to the lyrics file
type Diagnostic struct {
	Verse     int    // verse number, 0 based
	Section   string // closest lyrics file section, empty if there was none
	Words     int    // complete words sung by the verse
	Expected  int    // complete words in Section
	WordIndex int    // first mismatching word, -1 when only the counts differ
	Got       string
	Want      string
}

func (d Diagnostic) String() string {
	switch {
	case d.Section == "":
		return fmt.Sprintf("verse %d: %d words, no lyric section left to match", d.Verse+1, d.Words)
	case d.WordIndex >= 0:
		return fmt.Sprintf("verse %d: closest section %q, word %d is %q but lyrics have %q",
			d.Verse+1, d.Section, d.WordIndex+1, d.Got, d.Want)
	default:
		return fmt.Sprintf("verse %d: closest section %q has %d words, verse has %d",
			d.Verse+1, d.Section, d.Expected, d.Words)
	}
}

// SegmentationError collects everything that stopped a song from being split
// into sections. No sections are produced when it is returned.
type SegmentationError struct {
	Diagnostics []Diagnostic
	Unmatched   []string     // lyrics file sections never found in the score
	Completion  []Diagnostic // verses the cross verse pass could not repair
}

func (e *SegmentationError) Error() string {
	var parts []string
	for _, d := range e.Diagnostics {
		parts = append(parts, d.String())
	}
	if len(e.Unmatched) > 0 {
		parts = append(parts, "unmatched sections: "+strings.Join(e.Unmatched, ", "))
	}
	return fmt.Sprintf("%s: %s", ErrSegmentation, strings.Join(parts, "; "))
}

func (e *SegmentationError) Unwrap() error {
	return ErrSegmentation
}
