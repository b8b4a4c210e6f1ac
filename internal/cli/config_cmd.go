package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jacoelho/xmlpull/internal/cliconfig"
	"github.com/jacoelho/xmlpull/internal/eventfmt"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	var f normalizeFlags
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, cfg, err := f.resolve(cmd, g)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("resolved config", "file", g.configPath, "config", cfg.String())

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cliconfig.Effective(fileCfg, cfg)); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return enc.Close()
		},
	}
	addNormalizeFlags(cmd, &f)
	cmd.Flags().StringVarP(&f.format, "format", "f", string(eventfmt.FormatEvents), "output format: events or xml")
	cmd.Flags().StringVar(&f.color, "color", string(eventfmt.ColorAuto), "style the event listing: auto, always or never")
	return cmd
}
