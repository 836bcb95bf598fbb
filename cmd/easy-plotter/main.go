package main

import (
	"os"

	"easy-plotter/internal/config"
	"easy-plotter/internal/logger"

	"github.com/spf13/cobra"
)

const (
	AppName    = "Easy Plotter"
	AppID      = "io.github.easy-plotter"
	AppVersion = "1.0.0"
)

type globalOptions struct {
	configPath string
	logLevel   string
}

// load reads the config file and builds the console logger. An explicit
// --log-level wins over LOG_LEVEL, DEBUG and the config file.
func (g *globalOptions) load() (config.Config, logger.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}

	level := logger.LevelFromEnv(cfg.LogLevel)
	if g.logLevel != "" {
		level = logger.ParseLevel(g.logLevel)
	}
	return cfg, logger.NewConsoleLogger(level), nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	global := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "easy-plotter [file]",
		Short: "Plot one column of a data file against another",
		Long: `easy-plotter opens a delimited text file or Excel workbook, shows it as a
table and plots any two of its columns. Scroll to zoom, drag with the middle
button to pan, select a row to mark its point.`,
		Version:      AppVersion,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := global.load()
			if err != nil {
				return err
			}

			var initial string
			if len(args) == 1 {
				initial = args[0]
			}

			application := NewApplication(cmd.Context(), cfg, log)
			return application.Run(initial)
		},
	}

	rootCmd.PersistentFlags().StringVar(&global.configPath, "config", "", "Config file (default: ~/.config/easy-plotter/config.toml)")
	rootCmd.PersistentFlags().StringVar(&global.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newRenderCommand(global))
	return rootCmd
}
