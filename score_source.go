package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScoreTimeline is everything read from a score: the beats in playing order
// and the descriptive metadata found along the way
type ScoreTimeline struct {
	Beats    []Beat
	Metadata SongMetadata
}

// ScoreSource is a score file that can produce a beat timeline
type ScoreSource interface {
	Extract() (*ScoreTimeline, error)
}

// OpenScore picks a reader for the score at path by its extension. With
// noBass set, bass notes of slash chords are not captured.
func OpenScore(path string, noBass bool) (ScoreSource, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".mscx":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &IOError{Op: "read", Path: path, Err: err}
		}
		return &MscxScore{Path: path, Data: data, NoBass: noBass}, nil

	case ".mscz":
		container, err := OpenMsczFile(path)
		if err != nil {
			return nil, err
		}
		defer container.Close()

		data, err := container.ReadScore()
		if err != nil {
			return nil, err
		}
		return &MscxScore{Path: path, Data: data, NoBass: noBass}, nil

	case ".mid", ".midi", ".kar":
		score, err := OpenMidiScore(path, noBass)
		if err != nil {
			return nil, err
		}
		return score, nil

	case ".chart":
		chart, err := OpenChartFile(path, noBass)
		if err != nil {
			return nil, err
		}
		return chart, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// scoreName is the file name of path without its extension
func scoreName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
