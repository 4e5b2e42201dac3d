package main

import (
	"fmt"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	beatTrackName = "BEAT"
	downbeatKey   = 12 // C-1
	upbeatKey     = 13 // C#-1
)

// BeatNote represents a beat event from the BEAT track
type BeatNote struct {
	Time       uint32 // Absolute time in ticks
	IsDownbeat bool
}

// TimeSigEvent is a time signature change
type TimeSigEvent struct {
	Time        uint32
	Numerator   uint8
	Denominator uint8
}

// TempoEvent represents a tempo change in the MIDI file
type TempoEvent struct {
	Time uint32  // Absolute time in ticks
	BPM  float64 // Beats per minute
}

// MeasureGrid knows where each measure of a MIDI file starts
type MeasureGrid struct {
	Starts []uint32 // ascending start ticks of every measure
}

// MeasureAt returns the 0 based measure containing tick
func (g *MeasureGrid) MeasureAt(tick uint32) int {
	// first start after tick, minus one
	return sort.Search(len(g.Starts), func(i int) bool { return g.Starts[i] > tick }) - 1
}

// NewMeasureGrid builds the measure grid of a MIDI file. Downbeats of a BEAT
// track are used when there is one, otherwise measures are laid out from the
// time signature events (4/4 until the first one) up to end, the last tick of
// interest.
func NewMeasureGrid(smfData *smf.SMF, end uint32) (*MeasureGrid, error) {
	for _, track := range smfData.Tracks {
		if getTrackName(track) != beatTrackName {
			continue
		}

		beatNotes, err := extractBeatNotes(track)
		if err != nil {
			return nil, fmt.Errorf("failed to extract beat notes: %w", err)
		}

		grid := &MeasureGrid{}
		for _, beat := range beatNotes {
			if beat.IsDownbeat {
				grid.Starts = append(grid.Starts, beat.Time)
			}
		}
		if len(grid.Starts) > 0 {
			return grid, nil
		}
		logger.Warn("BEAT track has no downbeats, using time signatures")
	}

	ticksPerQuarter, ok := smfData.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported time format, expected MetricTicks")
	}

	return measuresFromTimeSigs(extractTimeSigs(smfData), float64(ticksPerQuarter), end), nil
}

// measuresFromTimeSigs lays out measure starts from 0 through end
func measuresFromTimeSigs(sigs []TimeSigEvent, ticksPerQuarter float64, end uint32) *MeasureGrid {
	grid := &MeasureGrid{}

	num, den := 4.0, 4.0
	next := 0
	for pos := 0.0; pos <= float64(end); {
		// a time signature takes effect at the next bar line
		for next < len(sigs) && float64(sigs[next].Time) <= pos {
			num, den = float64(sigs[next].Numerator), float64(sigs[next].Denominator)
			next++
		}

		grid.Starts = append(grid.Starts, uint32(math.Round(pos)))

		length := ticksPerQuarter * 4 * num / den
		if length <= 0 {
			break
		}
		pos += length
	}

	return grid
}

// extractBeatNotes extracts beat events from the BEAT track
func extractBeatNotes(beatTrack smf.Track) ([]BeatNote, error) {
	var beatNotes []BeatNote
	var currentTime uint32

	for _, event := range beatTrack {
		currentTime += event.Delta

		msg := event.Message
		var ch, key, vel uint8

		if msg.GetNoteOn(&ch, &key, &vel) {
			// noteoff events encoded as note on with velocity 0
			if vel == 0 {
				continue
			}

			var isDownbeat bool
			switch key {
			case downbeatKey:
				isDownbeat = true
			case upbeatKey:
				isDownbeat = false
			default:
				logger.Debug("invalid beat note", "time", currentTime, "key", key)
				continue
			}

			beatNotes = append(beatNotes, BeatNote{
				Time:       currentTime,
				IsDownbeat: isDownbeat,
			})
		}
	}

	sort.Slice(beatNotes, func(i, j int) bool {
		return beatNotes[i].Time < beatNotes[j].Time
	})

	return beatNotes, nil
}

// extractTimeSigs collects time signature changes from all tracks
func extractTimeSigs(smfData *smf.SMF) []TimeSigEvent {
	var sigs []TimeSigEvent

	for _, track := range smfData.Tracks {
		var currentTime uint32
		for _, event := range track {
			currentTime += event.Delta

			var num, den, clocks, demi uint8
			if event.Message.GetMetaTimeSig(&num, &den, &clocks, &demi) && num > 0 && den > 0 {
				sigs = append(sigs, TimeSigEvent{Time: currentTime, Numerator: num, Denominator: den})
			}
		}
	}

	sort.SliceStable(sigs, func(i, j int) bool {
		return sigs[i].Time < sigs[j].Time
	})
	return sigs
}

// extractTempoMap extracts tempo changes from all tracks in the MIDI file
func extractTempoMap(smfData *smf.SMF) []TempoEvent {
	var tempoEvents []TempoEvent

	for _, track := range smfData.Tracks {
		var currentTime uint32

		for _, event := range track {
			currentTime += event.Delta

			var bpm float64
			if event.Message.GetMetaTempo(&bpm) {
				tempoEvents = append(tempoEvents, TempoEvent{
					Time: currentTime,
					BPM:  bpm,
				})
			}
		}
	}

	sort.SliceStable(tempoEvents, func(i, j int) bool {
		return tempoEvents[i].Time < tempoEvents[j].Time
	})

	return tempoEvents
}
