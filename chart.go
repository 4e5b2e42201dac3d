package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ChartFile is a rhythm game .chart file. Only the parts that carry timing,
// metadata and vocals are kept.
type ChartFile struct {
	Song      ChartSong
	SyncTrack ChartSyncTrack
	Events    []ChartEvent
	Filename  string
	NoBass    bool
}

// ChartSong is the [Song] section
type ChartSong struct {
	Name       string
	Artist     string
	Charter    string
	Resolution int
}

// ChartSyncTrack is the [SyncTrack] section
type ChartSyncTrack struct {
	BPMEvents     []BPMEvent
	TimeSigEvents []TimeSigEvent
}

// BPMEvent is a tempo change
type BPMEvent struct {
	Tick uint32
	BPM  uint32 // BPM * 1000
}

// ChartEvent is a global event such as "lyric Hel-" or "phrase_start"
type ChartEvent struct {
	Tick uint32
	Text string
}

const (
	chartLyricPrefix  = "lyric "
	defaultResolution = 192
)

// OpenChartFile reads the chart at filename
func OpenChartFile(filename string, noBass bool) (*ChartFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &IOError{Op: "open", Path: filename, Err: err}
	}
	defer file.Close()

	chart, err := ParseChartFile(file)
	if err != nil {
		return nil, &ParseError{Format: "chart", Path: filename, Message: err.Error(), Err: err}
	}

	chart.Filename = filename
	chart.NoBass = noBass
	return chart, nil
}

// ParseChartFile parses the sections of a .chart file
func ParseChartFile(reader io.Reader) (*ChartFile, error) {
	chart := &ChartFile{}

	scanner := bufio.NewScanner(reader)
	var currentSection string
	var inSection bool

	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = line[1 : len(line)-1]
			if strings.TrimSpace(currentSection) == "" {
				return nil, fmt.Errorf("empty section name at line: %s", line)
			}
			inSection = false
			continue
		}

		if line == "{" {
			inSection = true
			continue
		}

		if line == "}" {
			inSection = false
			currentSection = ""
			continue
		}

		if !inSection || currentSection == "" {
			continue
		}

		if err := parseSectionLine(chart, currentSection, line); err != nil {
			return nil, fmt.Errorf("error parsing line '%s' in section '%s': %w", line, currentSection, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading chart file: %w", err)
	}

	if chart.Song.Resolution <= 0 {
		chart.Song.Resolution = defaultResolution
	}

	return chart, nil
}

func parseSectionLine(chart *ChartFile, section, line string) error {
	switch section {
	case "Song":
		parseSongLine(chart, line)
	case "SyncTrack":
		return parseSyncTrackLine(chart, line)
	case "Events":
		return parseEventsLine(chart, line)
	}
	return nil
}

func parseSongLine(chart *ChartFile, line string) {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return
	}

	key := strings.TrimSpace(parts[0])
	value := unquote(strings.TrimSpace(parts[1]))

	switch key {
	case "Name":
		chart.Song.Name = value
	case "Artist":
		chart.Song.Artist = value
	case "Charter":
		chart.Song.Charter = value
	case "Resolution":
		if val, err := strconv.Atoi(value); err == nil {
			chart.Song.Resolution = val
		}
	}
}

func parseSyncTrackLine(chart *ChartFile, line string) error {
	tick, fields, err := splitTickLine(line)
	if err != nil || len(fields) < 2 {
		return err
	}

	switch fields[0] {
	case "B":
		if bpm, err := strconv.ParseUint(fields[1], 10, 32); err == nil {
			chart.SyncTrack.BPMEvents = append(chart.SyncTrack.BPMEvents, BPMEvent{
				Tick: tick,
				BPM:  uint32(bpm),
			})
		}
	case "TS":
		if num, err := strconv.ParseUint(fields[1], 10, 8); err == nil {
			// the denominator is stored as a power of two, 4/4 when missing
			denomPower := uint64(2)
			if len(fields) >= 3 {
				if d, err := strconv.ParseUint(fields[2], 10, 8); err == nil && d < 8 {
					denomPower = d
				}
			}
			chart.SyncTrack.TimeSigEvents = append(chart.SyncTrack.TimeSigEvents, TimeSigEvent{
				Time:        tick,
				Numerator:   uint8(num),
				Denominator: uint8(1 << denomPower),
			})
		}
	}

	return nil
}

func parseEventsLine(chart *ChartFile, line string) error {
	tick, fields, err := splitTickLine(line)
	if err != nil || len(fields) < 2 || fields[0] != "E" {
		return err
	}

	// keep the spacing inside the quotes, lyrics depend on it
	_, rest, _ := strings.Cut(line, "=")
	rest = strings.TrimSpace(rest)
	text := unquote(strings.TrimSpace(strings.TrimPrefix(rest, "E")))

	chart.Events = append(chart.Events, ChartEvent{Tick: tick, Text: text})
	return nil
}

// splitTickLine splits "1920 = TS 4" into its tick and fields
func splitTickLine(line string) (uint32, []string, error) {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return 0, nil, nil
	}

	tickStr := strings.TrimSpace(parts[0])
	tick, err := strconv.ParseUint(tickStr, 10, 32)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid tick value '%s': %w", tickStr, err)
	}

	return uint32(tick), strings.Fields(strings.TrimSpace(parts[1])), nil
}

func unquote(value string) string {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}
	return value
}

// Extract builds a single verse timeline from the lyric events. Global
// events that read as chord symbols become chords.
func (c *ChartFile) Extract() (*ScoreTimeline, error) {
	var lyrics []lyricEvent
	type tickChord struct {
		tick  uint32
		chord Chord
	}
	var chords []tickChord
	var end uint32

	for _, event := range c.Events {
		if event.Tick > end {
			end = event.Tick
		}
		if text, ok := strings.CutPrefix(event.Text, chartLyricPrefix); ok {
			lyrics = append(lyrics, lyricEvent{Time: event.Tick, Text: text})
			continue
		}
		if chord, ok := ParseChordSymbol(event.Text); ok {
			if c.NoBass {
				chord.BassRoot = ""
			}
			chords = append(chords, tickChord{tick: event.Tick, chord: chord})
		}
	}

	if len(lyrics) == 0 {
		return nil, &ParseError{Format: "chart", Path: c.Filename, Message: "no lyric events"}
	}

	grid := measuresFromTimeSigs(c.SyncTrack.TimeSigEvents, float64(c.Song.Resolution), end)
	timeline := &ScoreTimeline{Metadata: c.metadata()}

	syllables := parseChartSyllables(lyrics)
	ci, si := 0, 0
	lastMeasure := -1
	for ci < len(chords) || si < len(syllables) {
		var beat Beat
		var tick uint32

		switch {
		case si >= len(syllables) || (ci < len(chords) && chords[ci].tick < syllables[si].Time):
			tick = chords[ci].tick
			beat.Chord = chords[ci].chord
			ci++
		default:
			tick = syllables[si].Time
			if ci < len(chords) && chords[ci].tick == tick {
				beat.Chord = chords[ci].chord
				ci++
			}
			beat.SetLyric(0, syllables[si].Lyric)
			si++
		}

		measure := grid.MeasureAt(tick)
		beat.MeasureStart = measure != lastMeasure
		lastMeasure = measure
		timeline.Beats = append(timeline.Beats, beat)
	}

	return timeline, nil
}

func (c *ChartFile) metadata() SongMetadata {
	meta := SongMetadata{
		Title:  c.Song.Name,
		Author: c.Song.Artist,
	}
	if meta.Title == "" {
		meta.Title = scoreName(c.Filename)
	}
	if len(c.SyncTrack.BPMEvents) > 0 {
		meta.Tempo = strconv.Itoa(int(math.Round(float64(c.SyncTrack.BPMEvents[0].BPM) / 1000)))
	}
	if len(c.SyncTrack.TimeSigEvents) > 0 {
		ts := c.SyncTrack.TimeSigEvents[0]
		meta.Time = fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
	}
	return meta
}
