package main

const (
	introductionName = "Introduction"
	instrumentalName = "Instrumental"
)

// foundSection is a finished section in the order it was found in the score
type foundSection struct {
	section MusicSection
	lyric   int // index into the lyrics file sections, -1 for instrumentals
}

// segmenter splits a beat timeline into the sections of a lyrics file. Every
// verse sung on a beat gets its own accumulator, and an accumulator becomes a
// section as soon as its words equal one of the sections still unmatched.
type segmenter struct {
	sections []LyricSection
	matched  []bool
	open     [][]VerseBeat // indexed by verse, nil when no section is being built

	instrumental      []VerseBeat
	instrumentalName  string
	instrumentalStart bool // the instrumental run has seen a measure start

	found []foundSection
}

// SegmentSections partitions beats into sections named after the lyrics file.
// Sections come back in lyrics file order, instrumentals placed after the
// section they followed in the score. When any verse cannot be matched, or
// any lyrics file section never shows up, no sections are returned and the
// error is a *SegmentationError describing each problem.
func SegmentSections(beats []Beat, sections []LyricSection) ([]MusicSection, error) {
	s := &segmenter{
		sections: sections,
		matched:  make([]bool, len(sections)),
	}

	for i := range beats {
		beat := &beats[i]
		if beat.HasLyrics() {
			s.addLyricBeat(beat)
		} else {
			s.addInstrumentalBeat(beat)
		}
	}

	s.finish()

	if err := s.failure(); err != nil {
		return nil, err
	}
	return s.ordered(), nil
}

func (s *segmenter) addInstrumentalBeat(beat *Beat) {
	if beat.MeasureStart && s.instrumentalStart {
		if len(s.found) == 0 && !s.hasOpen() {
			s.instrumentalName = introductionName
		} else {
			s.instrumentalName = instrumentalName
		}
	} else if beat.MeasureStart {
		s.instrumentalStart = true
	}
	s.instrumental = append(s.instrumental, NewVerseBeat(beat, -1))
}

func (s *segmenter) hasOpen() bool {
	for _, acc := range s.open {
		if acc != nil {
			return true
		}
	}
	return false
}

func (s *segmenter) addLyricBeat(beat *Beat) {
	lead := s.flushInstrumental()
	s.finishSections()

	verses := len(beat.Lyrics)
	if len(s.open) > verses {
		verses = len(s.open)
	}
	for len(s.open) < verses {
		s.open = append(s.open, nil)
	}

	for v := 0; v < verses; v++ {
		l := beat.Lyric(v)
		if s.open[v] == nil {
			if l == nil || l.Text == "" {
				continue
			}
			s.open[v] = append(make([]VerseBeat, 0, len(lead)+1), lead...)
		}
		s.open[v] = append(s.open[v], NewVerseBeat(beat, v))
	}
}

// flushInstrumental ends the current instrumental run. A named run becomes a
// section of its own, otherwise the beats ride along with the open verses.
// Beats with no open verse to join are returned so the next verse can lead
// with them.
func (s *segmenter) flushInstrumental() []VerseBeat {
	run, name := s.instrumental, s.instrumentalName
	s.instrumental = nil
	s.instrumentalName = ""
	s.instrumentalStart = false

	if len(run) == 0 {
		return nil
	}

	if name != "" {
		s.finishSections()
		s.addInstrumentalSection(name, run)
		return nil
	}

	joined := false
	for v, acc := range s.open {
		if acc != nil {
			s.open[v] = append(acc, run...)
			joined = true
		}
	}
	if joined {
		return nil
	}
	return run
}

func (s *segmenter) addInstrumentalSection(name string, run []VerseBeat) {
	s.found = append(s.found, foundSection{
		section: MusicSection{Name: name, Lines: [][]VerseBeat{run}},
		lyric:   -1,
	})
}

// finishSections closes every open verse whose words make up a section
func (s *segmenter) finishSections() {
	for v, acc := range s.open {
		if acc == nil {
			continue
		}
		section, idx, ok := s.matchAccumulator(acc)
		if !ok {
			continue
		}
		s.matched[idx] = true
		s.open[v] = nil
		s.found = append(s.found, foundSection{section: section, lyric: idx})
		logger.Debug("found section", "verse", v+1, "section", section.Name, "lines", len(section.Lines))
	}
}

func (s *segmenter) finish() {
	lead := s.flushInstrumental()
	s.finishSections()
	if len(lead) > 0 {
		s.addInstrumentalSection(instrumentalName, lead)
	}
}

func (s *segmenter) available(i int) bool {
	return !s.matched[i] && s.sections[i].WordCount() > 0
}

// verseWords returns the complete words of an accumulator and the beat where
// each of them ends. pending is true when the last word is unfinished.
func verseWords(beats []VerseBeat) (words []FullWord, ends []int, pending bool) {
	var builder wordBuilder
	for i, vb := range beats {
		if word, ok := builder.add(vb.Lyric); ok {
			words = append(words, word)
			ends = append(ends, i)
		}
	}
	return words, ends, builder.pending()
}

// matchAccumulator tests the beats of one verse against each available section
func (s *segmenter) matchAccumulator(beats []VerseBeat) (MusicSection, int, bool) {
	words, ends, pending := verseWords(beats)
	if pending || len(words) == 0 {
		return MusicSection{}, -1, false
	}

	for i, section := range s.sections {
		if !s.available(i) || section.WordCount() != len(words) {
			continue
		}
		if lines, ok := splitLines(beats, words, ends, section); ok {
			return MusicSection{Name: section.Name, Lines: lines}, i, true
		}
	}
	return MusicSection{}, -1, false
}

// splitLines cuts beats into the lines of section. A line runs to its last
// word plus any following beats without lyrics, up to the next measure start.
// The last line takes everything that is left.
func splitLines(beats []VerseBeat, words []FullWord, ends []int, section LyricSection) ([][]VerseBeat, bool) {
	lines := make([][]VerseBeat, 0, len(section.Lines))
	wordIdx := 0
	start := 0

	for n, line := range section.Lines {
		for _, written := range line.FullWords() {
			if wordIdx >= len(words) || !fullWordsMatch(words[wordIdx], written) {
				return nil, false
			}
			wordIdx++
		}

		end := ends[wordIdx-1]
		if n == len(section.Lines)-1 {
			end = len(beats) - 1
		} else {
			for end+1 < len(beats) && beats[end+1].Lyric.Text == "" && !beats[end+1].MeasureStart {
				end++
			}
		}

		lines = append(lines, beats[start:end+1])
		start = end + 1
	}

	return lines, wordIdx == len(words) && len(lines) == len(section.Lines)
}

// failure reports open verses and sections that were never found
func (s *segmenter) failure() error {
	err := &SegmentationError{}

	for v, acc := range s.open {
		if acc == nil {
			continue
		}
		words, _, _ := verseWords(acc)
		err.Diagnostics = append(err.Diagnostics, diagnose(v, words, s.sections, s.available))
	}

	for i, section := range s.sections {
		if s.available(i) {
			err.Unmatched = append(err.Unmatched, section.Name)
		}
	}

	if len(err.Diagnostics) == 0 && len(err.Unmatched) == 0 {
		return nil
	}

	for _, d := range err.Diagnostics {
		logger.Error("segmentation failed", "diagnostic", d.String())
	}
	if len(err.Unmatched) > 0 {
		logger.Error("sections missing from the score", "sections", err.Unmatched)
	}
	return err
}

// ordered puts the found sections in lyrics file order. Instrumentals found
// before any lyrics lead the song, the rest follow the section found just
// before them.
func (s *segmenter) ordered() []MusicSection {
	var leading []MusicSection
	byLyric := make(map[int]MusicSection)
	after := make(map[int][]MusicSection)

	current := -1
	for _, f := range s.found {
		if f.lyric >= 0 {
			byLyric[f.lyric] = f.section
			current = f.lyric
			continue
		}
		if current < 0 {
			leading = append(leading, f.section)
		} else {
			after[current] = append(after[current], f.section)
		}
	}

	result := leading
	for i := range s.sections {
		section, ok := byLyric[i]
		if !ok {
			continue
		}
		result = append(result, section)
		result = append(result, after[i]...)
	}
	return result
}
