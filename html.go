package main

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/chordsheet.html
var templateFS embed.FS

var chordSheetTemplate = template.Must(template.ParseFS(templateFS, "templates/chordsheet.html"))

// htmlCell is a beat cell prepared for the template
type htmlCell struct {
	Chord string
	Text  string
	Space bool // a word ends in this cell
}

type htmlSection struct {
	Name  string
	Lines [][]htmlCell
}

type htmlSong struct {
	Title    string
	Metadata SongMetadata
	Sections []htmlSection
}

func newHTMLSong(song *Song) htmlSong {
	view := htmlSong{
		Title:    song.Metadata.Title,
		Metadata: song.Metadata,
	}
	if view.Title == "" {
		view.Title = song.Name
	}

	for _, section := range song.Sections {
		hs := htmlSection{Name: section.Name}
		for _, line := range section.Lines {
			cells := make([]htmlCell, len(line))
			for i, vb := range line {
				text := vb.Lyric.Text
				if vb.Lyric.HyphenatedWordFollows {
					text += "-"
				}
				cells[i] = htmlCell{
					Chord: vb.Chord,
					Text:  text,
					Space: !vb.Lyric.Continues(),
				}
			}
			hs.Lines = append(hs.Lines, cells)
		}
		view.Sections = append(view.Sections, hs)
	}
	return view
}

// WriteHTML renders song as a standalone HTML page
func WriteHTML(w io.Writer, song *Song) error {
	if err := chordSheetTemplate.Execute(w, newHTMLSong(song)); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}
