package cmds

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glabrego/epgi/internal/app"
	"github.com/glabrego/epgi/internal/config"
	"github.com/glabrego/epgi/internal/logging"
	"github.com/glabrego/epgi/internal/tui"
	"github.com/glabrego/epgi/internal/xmltv"
)

type options struct {
	configPath string
	logFile    string
}

func NewRootCLI() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "epgi",
		Short:         "Browse XMLTV programme guides in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, "", opts.runTUI)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "path of the INI settings file")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", logging.DefaultFileName, "path of the log file")
	rootCmd.AddCommand(newCheckConfigCLI(opts))
	rootCmd.AddCommand(newFetchCLI(opts))
	return rootCmd
}

// run opens the log, loads the configuration and hands both to fn. A missing
// configuration file is reported to the operator before anything else runs.
func (o *options) run(cmd *cobra.Command, mode string, fn func(*cobra.Command, config.Config, *zap.Logger) error) error {
	logCfg := logging.DefaultConfig()
	logCfg.FileName = o.logFile
	logger, closer := logging.New(logCfg)
	defer closer.Close()

	started := "EPGi program started."
	finished := "EPGi program finished."
	if mode != "" {
		started = fmt.Sprintf("EPGi program started in %s mode.", mode)
		finished = fmt.Sprintf("EPGi program finished %s mode.", mode)
	}
	logger.Info(started)
	defer logger.Info(finished)

	cfg, err := config.Load(o.configPath, logger)
	if err != nil {
		logger.Error("Configuration file error", zap.Error(err))
		if errors.Is(err, config.ErrConfigNotFound) {
			return fmt.Errorf("%w. Please make sure %s exists and the program is run from the correct directory", err, o.configPath)
		}
		return err
	}
	return fn(cmd, cfg, logger)
}

func (o *options) runTUI(cmd *cobra.Command, cfg config.Config, logger *zap.Logger) error {
	svc := newService(cfg, logger)
	program := tea.NewProgram(tui.NewModel(svc, cfg, logger), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		logger.Error("Terminal UI failed", zap.Error(err))
		return fmt.Errorf("tui error: %w. Check %s for details", err, o.logFile)
	}
	return nil
}

func newService(cfg config.Config, logger *zap.Logger) *app.Service {
	loader := app.NewLoader(xmltv.NewClient(nil), logger)
	return app.NewService(cfg.Providers, app.NewCache(loader))
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
