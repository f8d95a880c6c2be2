package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/seomesh/seomesh/core/config"
)

var (
	cfgFile string
	manager *config.Manager
)

var rootCmd = &cobra.Command{
	Use:   "seomesh",
	Short: "Seomesh - internal link equity analyzer",
	Long: `Seomesh models a website as a directed graph of pages and classified
links, seeds external authority from backlink counts, and propagates SEO
equity through the internal mesh to score every page on a 0-100 scale.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		manager = config.NewManager(cfgFile)
		if err := manager.Load(); err != nil {
			return err
		}
		setupLogging(manager.Get().Log.Level)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
