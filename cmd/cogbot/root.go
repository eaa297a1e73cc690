package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sglre6355/cogbot/internal/bot"
	"github.com/sglre6355/cogbot/internal/logging"
)

type options struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "cogbot",
		Short:         "A modular Discord bot",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(newSyncCmd(opts))

	return rootCmd
}

func newSyncCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-commands",
		Short: "Publish slash commands to Discord and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return syncCommands(cmd.Context(), opts)
		},
	}
}

// setup loads configuration, installs the default logger and builds the bot
// with every compiled-in module loaded.
func setup(opts *options) (*bot.Bot, *slog.Logger, io.Closer, error) {
	cfg, err := bot.LoadConfig(opts.envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return nil, nil, nil, err
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to configure logging:", err)
		return nil, nil, nil, err
	}
	slog.SetDefault(logger)

	b, err := bot.NewBot(cfg, logger)
	if err != nil {
		logger.Error("failed to create bot", "error", err)
		_ = closer.Close()
		return nil, nil, nil, err
	}
	b.LoadModules(bot.DefaultCatalog())

	return b, logger, closer, nil
}

func run(ctx context.Context, opts *options) error {
	b, logger, closer, err := setup(opts)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info("starting cogbot", "version", version)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Start(ctx); err != nil {
		logger.Error("failed to start bot", "error", err)
		_ = b.Stop()
		return err
	}

	<-ctx.Done()

	logger.Info("received termination signal, shutting down")
	if err := b.Stop(); err != nil {
		logger.Error("failed to shutdown", "error", err)
	}

	logger.Info("completed bot shutdown")
	return nil
}

func syncCommands(ctx context.Context, opts *options) error {
	b, logger, closer, err := setup(opts)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := b.Open(); err != nil {
		logger.Error("failed to connect", "error", err)
		return err
	}
	defer func() {
		if err := b.Stop(); err != nil {
			logger.Error("failed to shutdown", "error", err)
		}
	}()

	result, err := b.SyncCommands(ctx)
	if err != nil {
		logger.Error("failed to sync commands", "error", err)
		return err
	}

	fmt.Fprintf(os.Stdout, "created %d, updated %d, deleted %d, unchanged %d\n",
		len(result.Created), len(result.Updated), len(result.Deleted), len(result.Unchanged))
	return nil
}
