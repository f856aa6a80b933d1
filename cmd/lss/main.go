package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nobel-von-it/lss/pkg/config"
	"github.com/nobel-von-it/lss/pkg/listing"
	"github.com/nobel-von-it/lss/pkg/render"
)

// overridden through -ldflags at build time
var version = "dev"

type options struct {
	All      bool
	Long     bool
	Humanize bool
	SizeSort bool
	Color    bool
	Width    int
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lss [path]",
		Short:         "A small, colorful ls replacement",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			flags := cmd.Flags()
			opts := options{
				Color: cfg.ColorEnabled(term.IsTerminal(int(os.Stdout.Fd()))),
				Width: render.TerminalWidth(),
			}

			var err error
			if opts.All, err = flags.GetBool("all"); err != nil {
				return err
			}
			if opts.Long, err = flags.GetBool("long"); err != nil {
				return err
			}
			if opts.Humanize, err = flags.GetBool("humanize"); err != nil {
				return err
			}
			if opts.SizeSort, err = flags.GetBool("size"); err != nil {
				return err
			}

			return list(cmd.OutOrStdout(), dir, opts)
		},
	}

	cmd.Flags().BoolP("all", "a", cfg.All, "do not hide entries starting with .")
	cmd.Flags().BoolP("long", "l", cfg.Long, "use the long listing format")
	cmd.Flags().BoolP("humanize", "H", cfg.Humanize, "print sizes like 1K, 234M, 2G")
	cmd.Flags().BoolP("size", "S", cfg.SizeSort, "sort by file size, smallest first")

	return cmd
}

func list(out io.Writer, dir string, opts options) error {
	entries, err := listing.Read(dir)
	if err != nil {
		return err
	}

	entries = listing.FilterHidden(entries, opts.All)
	if opts.SizeSort {
		listing.SortBySize(entries)
	} else {
		listing.SortByName(entries)
	}

	styler := render.NewStyler(opts.Color)

	var output string
	if opts.Long {
		output = render.Long(entries, opts.Humanize, styler)
	} else {
		output = render.Short(entries, opts.Width, styler)
	}

	if output != "" {
		fmt.Fprintln(out, output)
	}
	return nil
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, loader := config.Loader()
	if err := loader.Load(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger = logger.Level(cfg.LogLevel())

	if err := newRootCmd(cfg).Execute(); err != nil {
		logger.Error().Err(err).Msg("lss failed")
		os.Exit(1)
	}
}
