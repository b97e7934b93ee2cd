package cmds

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glabrego/epgi/internal/config"
)

func newFetchCLI(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [provider]",
		Short: "Fetch one provider twice through the cache and print a summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid provider number %q", args[0])
				}
				index = n
			}
			return opts.run(cmd, "fetch test", func(cmd *cobra.Command, cfg config.Config, logger *zap.Logger) error {
				return fetch(cmd, cfg, logger, index, opts.logFile)
			})
		},
	}
}

func fetch(cmd *cobra.Command, cfg config.Config, logger *zap.Logger, index int, logFile string) error {
	out := cmd.OutOrStdout()
	if len(cfg.Providers) == 0 {
		printf(out, "No URLs configured.\n")
		logger.Warn("Fetch test skipped: no URLs in config")
		return nil
	}
	if index > len(cfg.Providers) {
		return fmt.Errorf("provider %d is not configured (have %d)", index, len(cfg.Providers))
	}

	svc := newService(cfg, logger)
	provider := cfg.Providers[index-1]
	printf(out, "Testing fetch from provider %d: %s\n", provider.Index, provider.URL)

	printf(out, "\n--- First load ---\n")
	snap, err := svc.Snapshot(cmd.Context(), provider.Index)
	if err != nil {
		return err
	}
	if snap.Empty() {
		printf(out, "Fetch completed, but no channels were parsed. Check %s for errors.\n", logFile)
	} else {
		printf(out, "Fetched and parsed %d channels.\n", len(snap.Channels))
		first := snap.Channels[0]
		printf(out, "  Sample channel: %s\n", first.Name)
		if len(first.Programmes) > 0 {
			p := first.Programmes[0]
			printf(out, "    Sample programme: '%s' starting at %s\n", p.Title, p.Start.In(cfg.Location).Format(time.RFC3339))
		}
	}

	printf(out, "\n--- Second load ---\n")
	cached, ok := svc.CachedSnapshot(provider.Index)
	if !ok {
		return fmt.Errorf("provider %d was not cached", provider.Index)
	}
	printf(out, "Retrieved %d channels from cache.\n", len(cached.Channels))
	return nil
}
