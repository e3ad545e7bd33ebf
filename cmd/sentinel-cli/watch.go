package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pior/sentinel/internal/promexporter"
	"github.com/pior/sentinel/internal/watch"
)

type watchOptions struct {
	interval        time.Duration
	jitter          time.Duration
	metricsAddr     string
	breakerFailures uint32
	breakerTimeout  time.Duration
}

func newWatchCmd(opts *options) *cobra.Command {
	wopts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the Sentinel and print topology changes",
		Long: "watch polls the Sentinel with PING and SENTINEL masters through a circuit breaker, " +
			"prints the masters whenever the topology changes and optionally serves Prometheus metrics.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, opts, wopts)
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&wopts.interval, "interval", 10*time.Second, "delay between polls")
	flags.DurationVar(&wopts.jitter, "jitter", time.Second, "random delay added to each interval")
	flags.StringVar(&wopts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9355)")
	flags.Uint32Var(&wopts.breakerFailures, "breaker-failures", 3, "consecutive failed polls before the circuit breaker opens")
	flags.DurationVar(&wopts.breakerTimeout, "breaker-timeout", 30*time.Second, "how long the circuit breaker stays open")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, opts *options, wopts *watchOptions) error {
	client := opts.newClient()
	defer client.Close()

	config := watch.Config{
		Interval:        wopts.interval,
		Jitter:          wopts.jitter,
		PollTimeout:     opts.timeout,
		BreakerFailures: wopts.breakerFailures,
		BreakerTimeout:  wopts.breakerTimeout,
		Logger:          opts.logger,
		OnChange: func(change watch.Change) {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s topology %016x\n", time.Now().Format(time.RFC3339), change.Fingerprint)
			if err := opts.printRecords(cmd, change.Masters); err != nil {
				opts.logger.Error("print failed", slog.Any("error", err))
			}
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	if wopts.metricsAddr != "" {
		exporter := promexporter.NewExporter()
		if err := exporter.RegisterClient(client.Stats); err != nil {
			return err
		}
		config.Metrics = exporter.WatchMetrics()

		g.Go(func() error {
			opts.logger.Info("serving metrics", slog.String("addr", wopts.metricsAddr))
			return exporter.ListenAndServe(ctx, wopts.metricsAddr)
		})
	}

	watcher := watch.New(client, config)

	g.Go(func() error {
		err := watcher.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})

	return g.Wait()
}
