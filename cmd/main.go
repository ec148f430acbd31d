package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ochronus/qbreannounce/internal/app"
	"github.com/ochronus/qbreannounce/internal/config"
	"github.com/ochronus/qbreannounce/internal/http"
	"github.com/ochronus/qbreannounce/internal/reannounce"
	"github.com/ochronus/qbreannounce/internal/utils"
	"github.com/spf13/cobra"
)

const version = "0.2.0"

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	// Get default config path
	defaultConfigPath, err := config.DefaultConfigPath()
	if err != nil {
		defaultConfigPath = "./config.toml"
	}

	rootCmd := &cobra.Command{
		Use:           "qbreannounce",
		Short:         "Force qBittorrent to reannounce every torrent",
		Long:          "Pauses every torrent in qBittorrent, forces a tracker reannounce, then resumes them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to config file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one pause, reannounce, resume cycle",
		RunE:  runCycle,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an HTTP endpoint that triggers a cycle",
		RunE:  serve,
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the qBittorrent connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer()
			if err != nil {
				return err
			}
			return utils.Check(cmd.Context(), container.QbitClient, cmd.OutOrStdout())
		},
	}

	generateConfigCmd := &cobra.Command{
		Use:   "generate-config",
		Short: "Generate config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return utils.GenerateConfig(configPath, cmd.OutOrStdout())
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "qbreannounce version %s\n", version)
		},
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(generateConfigCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

func buildContainer() (*app.Container, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	container, err := app.NewContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build container: %w", err)
	}

	return container, nil
}

func runCycle(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := buildContainer()
	if err != nil {
		return err
	}

	container.Logger.Infof("Starting qbreannounce, version %s", version)

	runner := reannounce.NewRunner(container)
	if _, err := runner.Run(ctx); err != nil {
		return fmt.Errorf("reannounce cycle failed: %w", err)
	}

	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := buildContainer()
	if err != nil {
		return err
	}

	container.Logger.Infof("Starting qbreannounce, version %s", version)

	runner := reannounce.NewRunner(container)
	server := http.NewServer(container, runner)
	return server.StartWithContext(ctx)
}
