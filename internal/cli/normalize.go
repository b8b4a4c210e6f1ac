package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacoelho/xmlpull"
	"github.com/jacoelho/xmlpull/internal/cliconfig"
	"github.com/jacoelho/xmlpull/internal/eventfmt"
	"github.com/jacoelho/xmlpull/pkg/xmlnorm"
)

type normalizeFlags struct {
	format                    string
	color                     string
	trimWhitespace            bool
	whitespaceToCharacters    bool
	cdataToCharacters         bool
	ignoreComments            bool
	mergeSequentialCharacters bool
}

func addNormalizeFlags(cmd *cobra.Command, f *normalizeFlags) {
	defaults := xmlnorm.NewConfig()
	flags := cmd.Flags()
	flags.BoolVar(&f.trimWhitespace, "trim-whitespace", defaults.TrimWhitespace(), "drop standalone whitespace and trim characters")
	flags.BoolVar(&f.whitespaceToCharacters, "whitespace-to-characters", defaults.WhitespaceToCharacters(), "emit whitespace as characters")
	flags.BoolVar(&f.cdataToCharacters, "cdata-to-characters", defaults.CDataToCharacters(), "emit CDATA sections as characters")
	flags.BoolVar(&f.ignoreComments, "ignore-comments", defaults.IgnoreComments(), "drop comments")
	flags.BoolVar(&f.mergeSequentialCharacters, "merge-characters", defaults.MergeSequentialCharacters(), "merge adjacent characters")
}

// apply overrides cfg with the flags set on the command line.
func (f *normalizeFlags) apply(cmd *cobra.Command, cfg xmlnorm.Config) xmlnorm.Config {
	flags := cmd.Flags()
	if flags.Changed("trim-whitespace") {
		cfg = cfg.WithTrimWhitespace(f.trimWhitespace)
	}
	if flags.Changed("whitespace-to-characters") {
		cfg = cfg.WithWhitespaceToCharacters(f.whitespaceToCharacters)
	}
	if flags.Changed("cdata-to-characters") {
		cfg = cfg.WithCDataToCharacters(f.cdataToCharacters)
	}
	if flags.Changed("ignore-comments") {
		cfg = cfg.WithIgnoreComments(f.ignoreComments)
	}
	if flags.Changed("merge-characters") {
		cfg = cfg.WithMergeSequentialCharacters(f.mergeSequentialCharacters)
	}
	return cfg
}

// resolve loads the file configuration and applies the command line on top.
func (f *normalizeFlags) resolve(cmd *cobra.Command, g *globalOptions) (cliconfig.Config, xmlnorm.Config, error) {
	fileCfg, err := g.loadConfig()
	if err != nil {
		return cliconfig.Config{}, xmlnorm.Config{}, err
	}
	if cmd.Flags().Changed("format") {
		fileCfg.Output.Format = f.format
	}
	if cmd.Flags().Changed("color") {
		fileCfg.Output.Color = f.color
	}
	if err := fileCfg.Validate(); err != nil {
		return cliconfig.Config{}, xmlnorm.Config{}, err
	}
	return fileCfg, f.apply(cmd, fileCfg.NormalizerConfig()), nil
}

func newNormalizeCmd(g *globalOptions) *cobra.Command {
	var f normalizeFlags
	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Print the normalized event stream of an XML document",
		Long: `Parse an XML document and print its normalized events.

Reads standard input when no file or "-" is given. Flags override values from
the config file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			fileCfg, cfg, err := f.resolve(cmd, g)
			if err != nil {
				return err
			}

			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			in, closeInput, err := openInput(cmd, name)
			if err != nil {
				return err
			}
			defer closeInput()

			out := cmd.OutOrStdout()
			w, err := eventfmt.New(out, eventfmt.Format(fileCfg.Output.Format), eventfmt.ColorMode(fileCfg.Output.Color))
			if err != nil {
				return err
			}

			r, err := xmlpull.NewReader(in, cfg, fileCfg.LexerOptions()...)
			if err != nil {
				return err
			}
			logger.Debug("normalizing", "input", name, "config", cfg.String(), "format", fileCfg.Output.Format)

			prog := newProgress(logger)
			count := 0
			for ev, err := range r.All() {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if err != nil {
					if flushErr := w.Flush(); flushErr != nil {
						logger.Warn("flush output", "err", flushErr)
					}
					return fmt.Errorf("%s: %w", name, err)
				}
				if err := w.WriteEvent(ev); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				count++
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			prog.done("Normalized document", "input", name, "events", count, "bytes", r.InputOffset())
			return nil
		},
	}
	addNormalizeFlags(cmd, &f)
	cmd.Flags().StringVarP(&f.format, "format", "f", string(eventfmt.FormatEvents), "output format: events or xml")
	cmd.Flags().StringVar(&f.color, "color", string(eventfmt.ColorAuto), "style the event listing: auto, always or never")
	return cmd
}

func openInput(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
