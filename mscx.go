package main

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// MscxScore is an uncompressed MuseScore score
type MscxScore struct {
	Path   string
	Data   []byte
	NoBass bool
}

var (
	lyricStaffExpr = xpath.MustCompile("//Score/Staff[.//Lyrics]")
	workTitleExpr  = xpath.MustCompile("//metaTag[@name='workTitle']")
	titleFrameExpr = xpath.MustCompile("//VBox/Text[style='title' or style='Title']/text")
	keySigExpr     = xpath.MustCompile("//KeySig")
	tempoExpr      = xpath.MustCompile("//Tempo/tempo")
	timeSigExpr    = xpath.MustCompile("//TimeSig")

	authorTags = []string{"composer", "lyricist", "arranger"}

	// verse numbers typed into the first syllable: "1. Amaz-"
	verseNumberPattern = regexp.MustCompile(`^\d+\.[\s\x{00A0}\x{202F}]*`)
)

// Extract walks the score in document order and builds its beats
func (s *MscxScore) Extract() (*ScoreTimeline, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(s.Data))
	if err != nil {
		return nil, &ParseError{Format: "MSCX", Path: s.Path, Message: err.Error(), Err: err}
	}

	if xmlquery.FindOne(doc, "//Score") == nil {
		return nil, &ParseError{Format: "MSCX", Path: s.Path, Message: "no Score element"}
	}

	root := doc
	if staff := xmlquery.QuerySelector(doc, lyricStaffExpr); staff != nil {
		root = staff
	}

	x := &mscxExtractor{noBass: s.NoBass}
	x.walk(root)
	x.flushChord()

	timeline := &ScoreTimeline{
		Beats:    x.beats,
		Metadata: extractMscxMetadata(doc),
	}
	if timeline.Metadata.Title == "" {
		timeline.Metadata.Title = scoreName(s.Path)
	}

	logger.Debug("extracted score", "path", s.Path, "beats", len(timeline.Beats))
	return timeline, nil
}

// mscxExtractor holds the state of one pass over the score
type mscxExtractor struct {
	noBass       bool
	beats        []Beat
	chord        Chord
	measureStart bool
}

func (x *mscxExtractor) walk(node *xmlquery.Node) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}

		switch child.Data {
		case "Measure":
			x.flushChord()
			x.measureStart = true
			x.walk(child)
		case "Harmony":
			x.harmony(child)
		case "Chord":
			if lyrics := mscxLyrics(child); len(lyrics) > 0 {
				x.addBeat(lyrics)
			}
		case "Rest":
			x.flushChord()
		default:
			x.walk(child)
		}
	}
}

func (x *mscxExtractor) harmony(node *xmlquery.Node) {
	root := childText(node, "root")
	bass := childText(node, "base")

	if root == "" {
		// a bass note on its own applies to the pending chord
		if bass != "" && !x.noBass {
			x.chord.BassRoot = bass
		}
		return
	}

	x.flushChord()

	x.chord.Root = root
	x.chord.Modifier = childText(node, "name")
	if bass != "" && !x.noBass {
		x.chord.BassRoot = bass
	}
}

// flushChord emits a pending chord as a beat without lyrics
func (x *mscxExtractor) flushChord() {
	if x.chord.Root == "" && x.chord.BassRoot == "" {
		return
	}
	x.addBeat(nil)
}

func (x *mscxExtractor) addBeat(lyrics []*Lyric) {
	chord := x.chord
	if chord.Root == "" && chord.BassRoot != "" {
		chord.Root = chord.BassRoot
		chord.BassRoot = ""
	}

	x.beats = append(x.beats, Beat{
		Chord:        chord,
		MeasureStart: x.measureStart,
		Lyrics:       lyrics,
	})
	x.measureStart = false
	x.chord = Chord{}
}

// mscxLyrics reads the Lyrics of a Chord element, indexed by verse
func mscxLyrics(chord *xmlquery.Node) []*Lyric {
	var beat Beat
	for child := chord.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode || child.Data != "Lyrics" {
			continue
		}

		verse := 0
		if no := childText(child, "no"); no != "" {
			if n, err := strconv.Atoi(no); err == nil && n >= 0 {
				verse = n
			}
		}

		text := ""
		if node := childElement(child, "text"); node != nil {
			text = node.InnerText()
		}
		text = StripPunctuation(verseNumberPattern.ReplaceAllString(strings.TrimSpace(text), ""))

		syllabic := strings.ToLower(childText(child, "syllabic"))
		beat.SetLyric(verse, Lyric{
			Text:            text,
			SyllableFollows: syllabic == "begin" || syllabic == "middle",
		})
	}

	if !beat.HasLyrics() {
		return nil
	}
	return beat.Lyrics
}

func childElement(node *xmlquery.Node, name string) *xmlquery.Node {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == name {
			return child
		}
	}
	return nil
}

func childText(node *xmlquery.Node, name string) string {
	if child := childElement(node, name); child != nil {
		return strings.TrimSpace(child.InnerText())
	}
	return ""
}

// extractMscxMetadata collects title, author, key, tempo and time signature
func extractMscxMetadata(doc *xmlquery.Node) SongMetadata {
	var meta SongMetadata

	if node := xmlquery.QuerySelector(doc, workTitleExpr); node != nil {
		meta.Title = strings.TrimSpace(node.InnerText())
	}
	if meta.Title == "" {
		if node := xmlquery.QuerySelector(doc, titleFrameExpr); node != nil {
			meta.Title = strings.TrimSpace(node.InnerText())
		}
	}

	for _, tag := range authorTags {
		node := xmlquery.FindOne(doc, fmt.Sprintf("//metaTag[@name='%s']", tag))
		if node == nil {
			continue
		}
		if author := strings.TrimSpace(node.InnerText()); author != "" {
			meta.Author = author
			break
		}
	}

	if node := xmlquery.QuerySelector(doc, keySigExpr); node != nil {
		key := childText(node, "accidental")
		if key == "" {
			key = childText(node, "concertKey")
		}
		if fifths, err := strconv.Atoi(key); err == nil {
			meta.Key = KeyName(fifths)
		}
	}

	if node := xmlquery.QuerySelector(doc, tempoExpr); node != nil {
		// stored as beats per second
		if bps, err := strconv.ParseFloat(strings.TrimSpace(node.InnerText()), 64); err == nil && bps > 0 {
			meta.Tempo = strconv.Itoa(int(math.Round(bps * 60)))
		}
	}

	if node := xmlquery.QuerySelector(doc, timeSigExpr); node != nil {
		n, d := childText(node, "sigN"), childText(node, "sigD")
		if n != "" && d != "" {
			meta.Time = n + "/" + d
		}
	}

	return meta
}
