// Package cli implements the xmlnorm command-line interface.
//
// Commands:
//   - normalize: print the normalized event stream of a document, as an event
//     listing or as XML
//   - config: print the effective configuration as YAML
//
// Options come from an optional YAML or TOML file (--config) and are
// overridden by flags. Logs go to stderr through charmbracelet/log; --verbose
// enables debug output.
package cli

import (
	"context"
	"fmt"
	"io"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jacoelho/xmlpull/internal/cliconfig"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information shown by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

type globalOptions struct {
	configPath string
	verbose    bool
}

// loadConfig returns the file configuration, or the defaults without a file.
func (g *globalOptions) loadConfig() (cliconfig.Config, error) {
	if g.configPath == "" {
		return cliconfig.Default(), nil
	}
	return cliconfig.Load(g.configPath)
}

// NewRootCommand builds the xmlnorm command tree.
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:           "xmlnorm",
		Short:         "Normalize XML event streams",
		Long:          `xmlnorm reads an XML document with a pull parser and prints the event stream after whitespace, CDATA, comment and text-merging normalization.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if g.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("xmlnorm %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "path to a YAML or TOML config file")

	root.AddCommand(newNormalizeCmd(g))
	root.AddCommand(newConfigCmd(g))
	return root
}

// Execute runs the command line with args and the given streams.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}
