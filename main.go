package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/davecgh/go-spew/spew"
)

const version = "0.2.0"

// Globals are the flags shared by every command
type Globals struct {
	Config    string `name:"config" short:"c" help:"YAML configuration file" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (text, json)"`
}

// CLI defines the command-line interface for chordsheet
type CLI struct {
	Globals

	Convert ConvertCmd `cmd:"" help:"Convert a score and a lyrics file to a chord sheet"`
	Beats   BeatsCmd   `cmd:"" help:"Dump the beat timeline read from a score"`
	Lyrics  LyricsCmd  `cmd:"" help:"Print the sections of a lyrics file"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// setup loads the configuration and installs the logger. Flags override the
// configuration file and environment.
func (g *Globals) setup() (*Config, error) {
	cfg, err := LoadConfig(g.Config)
	if err != nil {
		return nil, err
	}

	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := initLogger(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConvertCmd converts a score to a chord sheet
type ConvertCmd struct {
	Score      string `arg:"" help:"Score file (.mscx, .mscz, .mid, .kar, .chart)" type:"existingfile"`
	LyricsFile string `arg:"" name:"lyrics" help:"Lyrics file with section headers" type:"existingfile"`
	NoBass     bool   `name:"no-bass" help:"Leave bass notes off slash chords and skip repeated chords"`
	HTML       bool   `name:"html" help:"Also write an HTML chord sheet"`
	NoChordPro bool   `name:"no-chordpro" help:"Do not write the ChordPro file"`
	OutDir     string `name:"out-dir" short:"o" help:"Output directory (defaults to the score's directory)" type:"path"`
}

func (c *ConvertCmd) Run(g *Globals) error {
	cfg, err := g.setup()
	if err != nil {
		return err
	}

	opts := ConvertOptions{
		NoBass:   cfg.Output.NoBass || c.NoBass,
		ChordPro: cfg.Output.ChordPro && !c.NoChordPro,
		HTML:     cfg.Output.HTML || c.HTML,
		OutDir:   cfg.Output.Dir,
	}
	if c.OutDir != "" {
		opts.OutDir = c.OutDir
	}

	written, err := Convert(c.Score, c.LyricsFile, opts)
	if err != nil {
		logger.Error("conversion failed", "score", c.Score, "error", err)
		return err
	}

	for _, path := range written {
		fmt.Println(path)
	}
	return nil
}

// BeatsCmd prints the beats of a score for debugging
type BeatsCmd struct {
	Score  string `arg:"" help:"Score file" type:"existingfile"`
	NoBass bool   `name:"no-bass" help:"Do not capture bass notes"`
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func (c *BeatsCmd) Run(g *Globals) error {
	if _, err := g.setup(); err != nil {
		return err
	}

	source, err := OpenScore(c.Score, c.NoBass)
	if err != nil {
		return err
	}
	timeline, err := source.Extract()
	if err != nil {
		return err
	}

	printTimeline(os.Stdout, timeline)
	return nil
}

func printTimeline(w io.Writer, timeline *ScoreTimeline) {
	dumper.Fdump(w, timeline.Metadata)
	for i, beat := range timeline.Beats {
		fmt.Fprintf(w, "Beat %d: %s", i, EncodeChord(beat.Chord))
		if beat.MeasureStart {
			fmt.Fprint(w, " |")
		}
		fmt.Fprintln(w)
		for v, l := range beat.Lyrics {
			if l != nil {
				fmt.Fprintf(w, "  Verse %d: ", v+1)
				dumper.Fdump(w, *l)
			}
		}
	}
}

// LyricsCmd prints how a lyrics file is split into sections and words
type LyricsCmd struct {
	File string `arg:"" help:"Lyrics file" type:"existingfile"`
}

func (c *LyricsCmd) Run(g *Globals) error {
	if _, err := g.setup(); err != nil {
		return err
	}

	lines, err := ReadLyricsFile(c.File)
	if err != nil {
		return err
	}

	for _, section := range StructureLyrics(lines) {
		fmt.Printf("=== %s (%d words) ===\n", section.Name, section.WordCount())
		for _, line := range section.Lines {
			fmt.Printf("  %s\n", line)
		}
	}
	return nil
}

// VersionCmd prints the version
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("chordsheet version %s\n", version)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("chordsheet"),
		kong.Description("Build chord sheets from a score and its lyrics"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
