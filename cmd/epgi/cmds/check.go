package cmds

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glabrego/epgi/internal/config"
)

func newCheckConfigCLI(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Load the settings file and print what was read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, "config test", func(cmd *cobra.Command, cfg config.Config, logger *zap.Logger) error {
				out := cmd.OutOrStdout()
				printf(out, "Configuration loaded successfully.\n")
				printf(out, "Providers:\n")
				for _, p := range cfg.Providers {
					printf(out, "  %d %s\n", p.Index, p.URL)
				}
				printf(out, "Timezone: %s\n", cfg.Location)
				printf(out, "Locale: %s\n", cfg.Locale)
				printf(out, "Formats: %s %s\n", cfg.DateFormat, cfg.TimeFormat)
				logger.Info("Configuration parsed successfully.", zap.Int("providers", len(cfg.Providers)))
				return nil
			})
		},
	}
}
