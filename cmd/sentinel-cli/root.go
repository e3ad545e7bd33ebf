package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/pior/sentinel"
)

type options struct {
	host     string
	port     int
	timeout  time.Duration
	logLevel string
	json     bool

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "sentinel-cli",
		Short:        "Query a Redis Sentinel",
		Long:         "sentinel-cli sends Sentinel commands to a single Sentinel and prints the decoded replies.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
				return fmt.Errorf("invalid log level %q: %w", opts.logLevel, err)
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.host, "host", "127.0.0.1", "Sentinel host")
	flags.IntVar(&opts.port, "port", sentinel.DefaultPort, "Sentinel port")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Second, "timeout for connecting and for each command")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.json, "json", false, "print results as JSON")

	rootCmd.AddCommand(
		newPingCmd(opts),
		newMastersCmd(opts),
		newSlavesCmd(opts),
		newMasterAddrCmd(opts),
		newIsMasterDownCmd(opts),
		newResetCmd(opts),
		newWatchCmd(opts),
	)

	return rootCmd
}

func (o *options) newClient() *sentinel.Client {
	return sentinel.NewClient(o.host, o.port, sentinel.Config{
		Dialer:       &net.Dialer{Timeout: o.timeout},
		ReadTimeout:  o.timeout,
		WriteTimeout: o.timeout,
		Logger:       o.logger,
	})
}

// commandContext bounds a one-shot command by the timeout flag.
func (o *options) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}
