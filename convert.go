package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ConvertOptions are the switches that shape a conversion
type ConvertOptions struct {
	NoBass   bool   // drop slash chord bass notes and blank repeated chords
	ChordPro bool   // write <score>.cho
	HTML     bool   // write <score>.html
	OutDir   string // defaults to the directory of the score
}

// BuildSong aligns the beats of a score with the lyrics file and splits them
// into sections. The beats are updated in place by hyphen reconciliation and
// cross verse completion.
func BuildSong(name string, timeline *ScoreTimeline, lyricLines []string, noBass bool) (*Song, error) {
	sections := StructureLyrics(lyricLines)

	words := 0
	for _, section := range sections {
		words += section.WordCount()
	}
	if words == 0 {
		return nil, fmt.Errorf("%w: no sections with lyrics", ErrInvalidLyrics)
	}

	beats := timeline.Beats

	if n := ReconcileHyphenation(beats, sections); n > 0 {
		logger.Debug("reconciled hyphenated words", "syllables", n)
	}

	unrepaired := CompleteVerses(beats, sections)

	musicSections, err := SegmentSections(beats, sections)
	if err != nil {
		var segErr *SegmentationError
		if errors.As(err, &segErr) {
			segErr.Completion = unrepaired
		}
		return nil, err
	}

	if noBass {
		BlankRepeatedChords(musicSections)
	}

	return &Song{
		Name:     name,
		Metadata: timeline.Metadata,
		Sections: musicSections,
	}, nil
}

// Convert reads a score and a lyrics file and writes the requested chord
// sheets. Nothing is written unless the whole song could be segmented.
// Returns the paths of the files written.
func Convert(scorePath, lyricsPath string, opts ConvertOptions) ([]string, error) {
	source, err := OpenScore(scorePath, opts.NoBass)
	if err != nil {
		return nil, err
	}

	timeline, err := source.Extract()
	if err != nil {
		return nil, err
	}

	lines, err := ReadLyricsFile(lyricsPath)
	if err != nil {
		return nil, err
	}

	song, err := BuildSong(scoreName(scorePath), timeline, lines, opts.NoBass)
	if err != nil {
		return nil, err
	}

	logger.Info("segmented song", "score", scorePath, "sections", len(song.Sections))
	return writeOutputs(song, scorePath, opts)
}

func writeOutputs(song *Song, scorePath string, opts ConvertOptions) ([]string, error) {
	dir := opts.OutDir
	if dir == "" {
		dir = filepath.Dir(scorePath)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &IOError{Op: "create", Path: dir, Err: err}
	}

	base := filepath.Join(dir, scoreName(scorePath))
	var written []string

	if opts.ChordPro {
		path := base + ".cho"
		if err := writeFile(path, song, WriteChordPro); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if opts.HTML {
		path := base + ".html"
		if err := writeFile(path, song, WriteHTML); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func writeFile(path string, song *Song, render func(io.Writer, *Song) error) error {
	file, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}

	if err := render(file, song); err != nil {
		file.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}

	if err := file.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}

	logger.Info("wrote chord sheet", "path", path)
	return nil
}
