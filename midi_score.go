package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gitlab.com/gomidi/midi/v2/smf"
)

// MidiScore is a standard MIDI file with lyric events, one lyric track per
// verse. Both game charts ("Hel- lo") and karaoke files ("/Hel", "lo", " world")
// are understood.
type MidiScore struct {
	Path   string
	SMF    *smf.SMF
	NoBass bool
}

// lyricEvent is a raw lyric or text event with its absolute time
type lyricEvent struct {
	Time uint32
	Text string
}

// midiSyllable is a cleaned up syllable ready to be placed on a beat
type midiSyllable struct {
	Time  uint32
	Lyric Lyric
}

type midiChord struct {
	Time  uint32
	Chord Chord
}

// karaoke files mark line and paragraph starts with these
const karaokeBreaks = "/\\"

// vocal chart markers that carry no text: pitchless (#, ^), range divider (%), hidden ($)
var chartMarkers = strings.NewReplacer("#", "", "^", "", "%", "", "$", "")

// OpenMidiScore reads the MIDI file at path
func OpenMidiScore(path string, noBass bool) (*MidiScore, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	return ReadMidiScore(path, file, noBass)
}

// ReadMidiScore reads a MIDI file from r, name is used in messages and as fallback title
func ReadMidiScore(name string, r io.Reader, noBass bool) (*MidiScore, error) {
	midiFile, err := smf.ReadFrom(r)
	if err != nil {
		return nil, &ParseError{Format: "MIDI", Path: name, Message: err.Error(), Err: err}
	}
	return &MidiScore{Path: name, SMF: midiFile, NoBass: noBass}, nil
}

// Extract merges the lyric tracks and chord symbols into one beat timeline
func (m *MidiScore) Extract() (*ScoreTimeline, error) {
	verses, textLyrics := m.lyricTracks()
	if len(verses) == 0 {
		return nil, &ParseError{Format: "MIDI", Path: m.Path, Message: "no lyric events"}
	}

	var syllables [][]midiSyllable
	for _, events := range verses {
		syllables = append(syllables, parseSyllables(events))
	}
	chords := m.chords(textLyrics)

	beatsByTime := make(map[uint32]*Beat)
	var times []uint32
	beatAt := func(t uint32) *Beat {
		if b, ok := beatsByTime[t]; ok {
			return b
		}
		b := &Beat{}
		beatsByTime[t] = b
		times = append(times, t)
		return b
	}

	for verse, verseSyllables := range syllables {
		for _, s := range verseSyllables {
			b := beatAt(s.Time)
			if b.Lyric(verse) == nil {
				b.SetLyric(verse, s.Lyric)
			}
		}
	}
	for _, c := range chords {
		beatAt(c.Time).Chord = c.Chord
	}

	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	var end uint32
	if len(times) > 0 {
		end = times[len(times)-1]
	}
	grid, err := NewMeasureGrid(m.SMF, end)
	if err != nil {
		return nil, &ParseError{Format: "MIDI", Path: m.Path, Message: err.Error(), Err: err}
	}

	timeline := &ScoreTimeline{Metadata: m.metadata()}
	lastMeasure := -1
	for _, t := range times {
		b := beatsByTime[t]
		measure := grid.MeasureAt(t)
		b.MeasureStart = measure != lastMeasure
		lastMeasure = measure
		timeline.Beats = append(timeline.Beats, *b)
	}

	logger.Debug("extracted midi score",
		"path", m.Path,
		"verses", len(verses),
		"chords", len(chords),
		"beats", len(timeline.Beats))
	return timeline, nil
}

// lyricTracks returns the lyric events of every track that has some, in
// track order. Files without lyric events fall back to karaoke style text
// events, textLyrics reports when that happened.
func (m *MidiScore) lyricTracks() (verses [][]lyricEvent, textLyrics bool) {
	for _, track := range m.SMF.Tracks {
		if events := trackLyrics(track, false); len(events) > 0 {
			verses = append(verses, events)
		}
	}
	if len(verses) > 0 {
		return verses, false
	}

	for _, track := range m.SMF.Tracks {
		events := trackLyrics(track, true)
		if isKaraoke(events) {
			verses = append(verses, events)
		}
	}
	return verses, true
}

// trackLyrics collects the lyric events of a track, or its text events when
// useText is set. Karaoke headers (@T, @L, ...) and bracketed animation
// markers are skipped.
func trackLyrics(track smf.Track, useText bool) []lyricEvent {
	var events []lyricEvent
	var currentTime uint32

	for _, event := range track {
		currentTime += event.Delta
		msg := event.Message

		var text string
		if useText {
			if !msg.GetMetaText(&text) {
				continue
			}
		} else if !msg.GetMetaLyric(&text) {
			continue
		}

		if text == "" || text[0] == '@' || text[0] == '[' {
			continue
		}
		events = append(events, lyricEvent{Time: currentTime, Text: text})
	}

	return events
}

// isKaraoke reports whether events use leading spaces or slashes to start words
func isKaraoke(events []lyricEvent) bool {
	for _, e := range events {
		if strings.HasPrefix(e.Text, " ") || strings.ContainsAny(e.Text[:1], karaokeBreaks) {
			return true
		}
	}
	return false
}

// parseSyllables turns raw lyric events into syllables with continuation flags
func parseSyllables(events []lyricEvent) []midiSyllable {
	if isKaraoke(events) {
		return parseKaraokeSyllables(events)
	}
	return parseChartSyllables(events)
}

// parseChartSyllables handles the vocal chart conventions: "Hel-" continues
// into the next syllable, "Ex=" is the first half of a hyphenated word, a
// lone "+" extends the previous syllable over another note.
func parseChartSyllables(events []lyricEvent) []midiSyllable {
	var result []midiSyllable

	for _, e := range events {
		text := strings.TrimSpace(chartMarkers.Replace(e.Text))
		if text == "" || text == "+" {
			continue
		}
		text = strings.TrimSuffix(text, "+")

		var lyric Lyric
		switch {
		case strings.HasSuffix(text, "="):
			lyric.HyphenatedWordFollows = true
			text = strings.TrimSuffix(text, "=")
		case strings.HasSuffix(text, "-"):
			lyric.SyllableFollows = true
			text = strings.TrimSuffix(text, "-")
		}

		lyric.Text = StripPunctuation(strings.Trim(text, karaokeBreaks))
		if lyric.Text == "" {
			continue
		}
		result = append(result, midiSyllable{Time: e.Time, Lyric: lyric})
	}

	return result
}

// parseKaraokeSyllables handles karaoke text where a syllable starting with a
// space or line break starts a new word and everything else continues the
// previous one
func parseKaraokeSyllables(events []lyricEvent) []midiSyllable {
	var result []midiSyllable
	var endsWord []bool

	for _, e := range events {
		raw := e.Text
		startsWord := strings.HasPrefix(raw, " ") || strings.ContainsAny(raw[:1], karaokeBreaks)
		text := strings.TrimLeft(raw, " "+karaokeBreaks)
		trailingSpace := strings.HasSuffix(text, " ")

		text = StripPunctuation(strings.TrimSpace(text))
		if text == "" {
			continue
		}

		if startsWord && len(endsWord) > 0 {
			endsWord[len(endsWord)-1] = true
		}

		result = append(result, midiSyllable{Time: e.Time, Lyric: Lyric{Text: text}})
		endsWord = append(endsWord, trailingSpace)
	}

	for i := range result {
		last := i == len(result)-1
		result[i].Lyric.SyllableFollows = !last && !endsWord[i]
	}

	return result
}

// chords collects text and marker events that read as chord symbols. Text
// events on tracks used for karaoke lyrics are not considered.
func (m *MidiScore) chords(textLyrics bool) []midiChord {
	var result []midiChord

	for _, track := range m.SMF.Tracks {
		skipText := textLyrics && isKaraoke(trackLyrics(track, true))

		var currentTime uint32
		for _, event := range track {
			currentTime += event.Delta
			msg := event.Message

			var text string
			if !msg.GetMetaMarker(&text) && (skipText || !msg.GetMetaText(&text)) {
				continue
			}

			chord, ok := ParseChordSymbol(text)
			if !ok {
				continue
			}
			if m.NoBass {
				chord.BassRoot = ""
			}
			result = append(result, midiChord{Time: currentTime, Chord: chord})
		}
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Time < result[j].Time })
	return result
}

func (m *MidiScore) metadata() SongMetadata {
	var meta SongMetadata

	for _, track := range m.SMF.Tracks {
		for _, event := range track {
			var text string
			if event.Message.GetMetaText(&text) && strings.HasPrefix(text, "@T") && meta.Title == "" {
				meta.Title = strings.TrimSpace(text[2:])
			}
		}
	}

	if meta.Title == "" && len(m.SMF.Tracks) > 0 {
		meta.Title = getTrackName(m.SMF.Tracks[0])
	}
	if meta.Title == "" {
		meta.Title = scoreName(m.Path)
	}

	if tempos := extractTempoMap(m.SMF); len(tempos) > 0 {
		meta.Tempo = strconv.Itoa(int(math.Round(tempos[0].BPM)))
	}
	if sigs := extractTimeSigs(m.SMF); len(sigs) > 0 {
		meta.Time = fmt.Sprintf("%d/%d", sigs[0].Numerator, sigs[0].Denominator)
	}

	return meta
}

// getTrackName returns the name of a track
func getTrackName(track smf.Track) string {
	for _, event := range track {
		var name string
		if event.Message.GetMetaTrackName(&name) {
			return strings.TrimSpace(name)
		}
	}
	return ""
}
