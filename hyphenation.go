package main

import "strings"

// hyphenChain is one hyphenated compound of the lyrics file ("twenty-one"),
// consumed part by part as a verse sings it
type hyphenChain struct {
	parts []string
	pos   int
}

func (c *hyphenChain) done() bool {
	return c.pos >= len(c.parts)
}

func (c *hyphenChain) head() string {
	return c.parts[c.pos]
}

// hyphenChains lists every compound of the lyrics file in file order
func hyphenChains(sections []LyricSection) []hyphenChain {
	var chains []hyphenChain
	for _, section := range sections {
		for _, word := range section.FullWords() {
			if len(word) > 1 {
				chains = append(chains, hyphenChain{parts: word})
			}
		}
	}
	return chains
}

// verseCount is the highest number of verses sung on any beat
func verseCount(beats []Beat) int {
	count := 0
	for i := range beats {
		if n := len(beats[i].Lyrics); n > count {
			count = n
		}
	}
	return count
}

// ReconcileHyphenation finds syllable runs in the beats that spell out a
// hyphenated compound of the lyrics file and marks the break between the
// halves as HyphenatedWordFollows instead of SyllableFollows. Each verse
// consumes its own copy of the compounds. Returns the number of syllables
// that were reclassified.
func ReconcileHyphenation(beats []Beat, sections []LyricSection) int {
	chains := hyphenChains(sections)
	if len(chains) == 0 {
		return 0
	}

	changed := 0
	for verse := 0; verse < verseCount(beats); verse++ {
		pending := make([]hyphenChain, len(chains))
		copy(pending, chains)
		changed += reconcileVerse(beats, verse, pending)
	}
	return changed
}

func reconcileVerse(beats []Beat, verse int, chains []hyphenChain) int {
	var acc strings.Builder
	active := -1      // chain partly sung by the current word
	var held []*Lyric // syllables retagged for the active chain
	changed := 0

	abandon := func() {
		for _, l := range held {
			l.HyphenatedWordFollows = false
			l.SyllableFollows = true
		}
		held = nil
		chains[active].pos = 0
		active = -1
	}

	for i := range beats {
		lyric := beats[i].Lyric(verse)
		if lyric == nil || lyric.Text == "" {
			continue
		}

		acc.WriteString(StripPunctuation(lyric.Text))
		continues := lyric.Continues()

		match := -1
		if active >= 0 {
			if WordsMatch(acc.String(), chains[active].head()) {
				match = active
			}
		} else if continues {
			// only a syllable that runs on can open a compound
			for c := range chains {
				if !chains[c].done() && WordsMatch(acc.String(), chains[c].head()) {
					match = c
					break
				}
			}
		}

		if match >= 0 {
			chain := &chains[match]
			chain.pos++
			if chain.done() {
				changed += len(held)
				for _, l := range held {
					logger.Debug("hyphenated word follows", "verse", verse, "text", l.Text)
				}
				held = nil
				active = -1
			} else {
				active = match
				if lyric.SyllableFollows {
					lyric.SyllableFollows = false
					lyric.HyphenatedWordFollows = true
					held = append(held, lyric)
				}
			}
			acc.Reset()
			continue
		}

		if !continues {
			if active >= 0 {
				// the compound was not sung as written, it can still turn up later
				abandon()
			}
			acc.Reset()
		}
	}

	if active >= 0 {
		abandon()
	}

	return changed
}
