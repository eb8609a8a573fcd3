package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"datestamp/internal/batch"
	"datestamp/internal/config"
	"datestamp/internal/exifdate"
	"datestamp/internal/placement"
	"datestamp/internal/stamp"
)

// options are the raw flag values; only flags the user set override the
// config file.
type options struct {
	input      string
	configFile string
	verbose    bool
	position   placement.Position
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{cfg: config.Default()}
	opts.position = placement.Position(opts.cfg.Position)

	cmd := &cobra.Command{
		Use:   "datestamp -i <file|dir>",
		Short: "Stamp photos with the date they were taken",
		Long: strings.TrimSpace(`
Reads the EXIF capture date of every JPEG and PNG under the input and writes
a copy with the date drawn on it. A file input writes into <parent>/watermark,
a directory input into <parent>/<dir>_watermark.
`),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	bindFlags(cmd.Flags(), opts)
	cmd.MarkFlagRequired("input")
	return cmd
}

func bindFlags(fs *pflag.FlagSet, o *options) {
	fs.StringVarP(&o.input, "input", "i", "", "image file or directory")
	fs.IntVarP(&o.cfg.FontSize, "font-size", "s", o.cfg.FontSize,
		fmt.Sprintf("font size in pixels (%d-%d)", config.MinFontSize, config.MaxFontSize))
	fs.StringVarP(&o.cfg.FontColor, "font-color", "c", o.cfg.FontColor, "color name, #RRGGBB or r,g,b")
	fs.VarP(&o.position, "position", "p", "anchor: lt, rt, lb, rb or c")
	fs.StringVarP(&o.cfg.Font, "font", "f", "", "TrueType font file or system font name")
	fs.IntVarP(&o.cfg.Quality, "quality", "q", o.cfg.Quality, "JPEG quality (1-100)")
	fs.StringVar(&o.cfg.Lang, "lang", "", "language of the missing-date text (default from $LANG)")
	fs.StringVar(&o.configFile, "config", "", "YAML config file")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")
}

// resolveConfig layers explicitly set flags over the config file.
func resolveConfig(fs *pflag.FlagSet, o *options) (config.Config, error) {
	o.cfg.Position = string(o.position)
	if o.configFile == "" {
		return o.cfg, nil
	}
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	overrides := map[string]func(){
		"font-size":  func() { cfg.FontSize = o.cfg.FontSize },
		"font-color": func() { cfg.FontColor = o.cfg.FontColor },
		"position":   func() { cfg.Position = o.cfg.Position },
		"font":       func() { cfg.Font = o.cfg.Font },
		"quality":    func() { cfg.Quality = o.cfg.Quality },
		"lang":       func() { cfg.Lang = o.cfg.Lang },
	}
	for name, apply := range overrides {
		if fs.Changed(name) {
			apply()
		}
	}
	return cfg, nil
}

func run(cmd *cobra.Command, o *options) error {
	log := newLogger(cmd.ErrOrStderr(), o.verbose)

	cfg, err := resolveConfig(cmd.Flags(), o)
	if err != nil {
		return err
	}
	spec, err := cfg.Spec()
	if err != nil {
		return err
	}

	images, err := batch.Discover(o.input)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return errors.New("no images found")
	}
	fi, err := os.Stat(o.input)
	if err != nil {
		return err
	}
	outDir, err := batch.OutputDir(o.input, fi.IsDir())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	sentinel := exifdate.Sentinel(cfg.Locale())
	face, source, err := stamp.LoadFace(spec.FontSize, sentinel+"0123456789-", stamp.Sources(cfg.Font)...)
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	defer face.Close()
	if cfg.Font != "" && source != (stamp.FileFont{Path: cfg.Font}).Name() {
		log.Warn().Str("requested", cfg.Font).Str("font", source).Msg("requested font not usable, falling back")
	}
	if !stamp.Covers(face, sentinel) {
		log.Warn().Str("font", source).Str("text", sentinel).Msg("font lacks glyphs for the missing-date text")
	}
	log.Debug().Str("font", source).Int("size", spec.FontSize).Msg("font loaded")

	s := &stamp.Stamper{
		Spec:    spec,
		Face:    face,
		Dates:   exifdate.NewResolver(sentinel),
		Quality: cfg.Quality,
	}
	log.Info().Int("images", len(images)).Str("position", string(spec.Position)).Msg("starting")
	rep := batch.Run(images, outDir, s, log)
	log.Info().
		Str("output", rep.OutDir).
		Int("written", len(rep.Written)).
		Int("failed", rep.FailedCount()).
		Msg("done")
	return nil
}
