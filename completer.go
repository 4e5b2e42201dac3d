package main

// verseTrack follows the words one verse has sung since the last time every
// verse found its section
type verseTrack struct {
	words     []FullWord
	builder   wordBuilder
	started   bool
	satisfied bool
	lastIdx   int // beat of the most recently completed word
	match     int // section index when satisfied
}

func newVerseTrack() *verseTrack {
	return &verseTrack{lastIdx: -1, match: -1}
}

// matchSection returns the index of the first available section whose
// complete words equal words, or -1
func matchSection(words []FullWord, sections []LyricSection, available func(int) bool) int {
	for i, section := range sections {
		if !available(i) || section.WordCount() != len(words) {
			continue
		}
		if wordsMatchSection(words, section.FullWords()) < 0 {
			return i
		}
	}
	return -1
}

// wordsMatchSection returns the index of the first word that differs, or -1
// when all of them match
func wordsMatchSection(sung, written []FullWord) int {
	for i := range written {
		if i >= len(sung) || !fullWordsMatch(sung[i], written[i]) {
			return i
		}
	}
	if len(sung) > len(written) {
		return len(written)
	}
	return -1
}

// diagnose explains why words matched none of the available sections, naming
// the section closest in length
func diagnose(verse int, words []FullWord, sections []LyricSection, available func(int) bool) Diagnostic {
	d := Diagnostic{Verse: verse, Words: len(words), WordIndex: -1}

	best := -1
	bestDistance := 0
	for i, section := range sections {
		if !available(i) {
			continue
		}
		distance := section.WordCount() - len(words)
		if distance < 0 {
			distance = -distance
		}
		if best < 0 || distance < bestDistance {
			best = i
			bestDistance = distance
		}
	}
	if best < 0 {
		return d
	}

	section := sections[best]
	written := section.FullWords()
	d.Section = section.Name
	d.Expected = len(written)

	if idx := wordsMatchSection(words, written); idx >= 0 {
		if idx < len(words) && idx < len(written) {
			d.WordIndex = idx
			d.Got = words[idx].String()
			d.Want = written[idx].String()
		}
	}
	return d
}

// completion is a verified repair of one verse, ready to be written into the beats
type completion struct {
	verse   int
	from    int // first beat replaced
	lyrics  []*Lyric
	words   []FullWord
	lastIdx int
	match   int
}

// tryComplete builds the words verse would sing if it had the neighbor's
// syllables on the beats after its own last word, up to the neighbor's last
// word, and tests them against the available sections. beats are not changed.
func tryComplete(beats []Beat, track, neighbor *verseTrack, verse, neighborVerse, from int,
	sections []LyricSection, available func(int) bool) (*completion, bool) {

	to := neighbor.lastIdx
	if to < from {
		return nil, false
	}

	words := append([]FullWord(nil), track.words...)
	var builder wordBuilder
	lyrics := make([]*Lyric, 0, to-from+1)

	for i := from; i <= to; i++ {
		src := beats[i].Lyric(neighborVerse)
		if src == nil {
			lyrics = append(lyrics, nil)
			continue
		}
		l := *src
		lyrics = append(lyrics, &l)
		if word, ok := builder.add(l); ok {
			words = append(words, word)
		}
	}
	if builder.pending() {
		return nil, false
	}

	match := matchSection(words, sections, available)
	if match < 0 {
		return nil, false
	}

	return &completion{
		verse:   verse,
		from:    from,
		lyrics:  lyrics,
		words:   words,
		lastIdx: to,
		match:   match,
	}, true
}

// commit copies the repaired syllables into the verse slots
func (c *completion) commit(beats []Beat) {
	for offset, l := range c.lyrics {
		b := &beats[c.from+offset]
		if l == nil {
			if c.verse < len(b.Lyrics) {
				b.Lyrics[c.verse] = nil
			}
			continue
		}
		b.SetLyric(c.verse, *l)
	}
}

// verseCompleter runs the cross verse pass. A window covers the beats from one
// point where every verse found its section to the next.
type verseCompleter struct {
	beats       []Beat
	sections    []LyricSection
	claimed     []bool // matched in an earlier window
	tracks      []*verseTrack
	windowStart int
	diagnostics []Diagnostic
}

// CompleteVerses repairs verses that are missing syllables their neighbors
// sing. Whenever a verse falls short of every section while the previous or
// next verse (tried in that order) has matched one and sung further, the
// neighbor's syllables are tried in its place and committed, as copies, when
// the result matches a section. Verses that stay short are reported.
func CompleteVerses(beats []Beat, sections []LyricSection) []Diagnostic {
	vc := &verseCompleter{
		beats:    beats,
		sections: sections,
		claimed:  make([]bool, len(sections)),
	}
	vc.run()
	return vc.diagnostics
}

func (vc *verseCompleter) run() {
	vc.reset(0)

	for i := range vc.beats {
		beat := &vc.beats[i]

		for v := range beat.Lyrics {
			if l := beat.Lyric(v); l != nil && l.Text != "" && v < len(vc.tracks) && vc.tracks[v].satisfied {
				vc.closeWindow()
				vc.reset(i)
				break
			}
		}

		for v := range beat.Lyrics {
			l := beat.Lyric(v)
			if l == nil || l.Text == "" {
				continue
			}
			vc.feed(v, i, *l)
		}

		if vc.allSatisfied() {
			vc.closeWindow()
			vc.reset(i + 1)
		}
	}

	vc.closeWindow()
}

func (vc *verseCompleter) reset(start int) {
	vc.tracks = nil
	vc.windowStart = start
}

func (vc *verseCompleter) track(verse int) *verseTrack {
	for len(vc.tracks) <= verse {
		vc.tracks = append(vc.tracks, newVerseTrack())
	}
	return vc.tracks[verse]
}

// available reports sections not matched earlier, nor by another verse in this window
func (vc *verseCompleter) available(except int) func(int) bool {
	return func(i int) bool {
		if vc.claimed[i] || vc.sections[i].WordCount() == 0 {
			return false
		}
		for v, t := range vc.tracks {
			if v != except && t.satisfied && t.match == i {
				return false
			}
		}
		return true
	}
}

func (vc *verseCompleter) feed(verse, beatIdx int, l Lyric) {
	t := vc.track(verse)
	t.started = true

	word, ok := t.builder.add(l)
	if !ok {
		return
	}
	t.words = append(t.words, word)
	t.lastIdx = beatIdx

	if match := matchSection(t.words, vc.sections, vc.available(verse)); match >= 0 {
		t.satisfied = true
		t.match = match
	}
}

func (vc *verseCompleter) allSatisfied() bool {
	started := false
	for _, t := range vc.tracks {
		if !t.started {
			continue
		}
		if !t.satisfied {
			return false
		}
		started = true
	}
	return started
}

// closeWindow repairs what it can, reports the rest and claims the matched sections
func (vc *verseCompleter) closeWindow() {
	for v, t := range vc.tracks {
		if !t.started || t.satisfied {
			continue
		}

		if c, ok := vc.completeFromNeighbors(v, t); ok {
			c.commit(vc.beats)
			t.words = c.words
			t.lastIdx = c.lastIdx
			t.match = c.match
			t.satisfied = true
			logger.Info("completed verse from neighbor",
				"verse", v+1,
				"section", vc.sections[c.match].Name,
				"from_beat", c.from,
				"to_beat", c.lastIdx)
			continue
		}

		d := diagnose(v, t.words, vc.sections, vc.available(v))
		vc.diagnostics = append(vc.diagnostics, d)
		logger.Warn("verse does not match the lyrics",
			"verse", v+1,
			"section", d.Section,
			"words", d.Words,
			"expected", d.Expected,
			"word_index", d.WordIndex,
			"got", d.Got,
			"want", d.Want)
	}

	for _, t := range vc.tracks {
		if t.satisfied {
			vc.claimed[t.match] = true
		}
	}
}

func (vc *verseCompleter) completeFromNeighbors(v int, t *verseTrack) (*completion, bool) {
	from := t.lastIdx + 1
	if from < vc.windowStart {
		from = vc.windowStart
	}

	for _, n := range []int{v - 1, v + 1} {
		if n < 0 || n >= len(vc.tracks) {
			continue
		}
		neighbor := vc.tracks[n]
		if !neighbor.satisfied || neighbor.lastIdx <= t.lastIdx {
			continue
		}
		if c, ok := tryComplete(vc.beats, t, neighbor, v, n, from, vc.sections, vc.available(v)); ok {
			return c, true
		}
	}
	return nil, false
}
