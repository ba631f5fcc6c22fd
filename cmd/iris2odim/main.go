// Command iris2odim converts one IRIS RAW file to ODIM_H5.
//
// Usage:
//
//	iris2odim -i IRIS_file -o ODIM_H5_file
//
// Logging, metrics and Kafka notifications are configured from the
// environment; see internal/config.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/iris2odim"
	kafkaadapter "github.com/couchcryptid/iris2odim/internal/adapter/kafka"
	"github.com/couchcryptid/iris2odim/internal/cli"
	"github.com/couchcryptid/iris2odim/internal/config"
	"github.com/couchcryptid/iris2odim/internal/observability"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	inv, err := cli.ParseInvocation(args)
	if err != nil {
		fmt.Fprintln(stderr, cli.Usage)
		return cli.ExitCode(err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "iris2odim: %v\n", err)
		return cli.ExitFailure
	}
	logger := observability.NewLogger(cfg, stderr)

	opts := []iris2odim.Option{
		iris2odim.WithLogger(logger),
		iris2odim.WithCompression(cfg.Compression),
	}
	if cfg.NotificationsEnabled() {
		notifier := kafkaadapter.NewNotifier(cfg, logger)
		defer func() {
			if err := notifier.Close(); err != nil {
				logger.Error("kafka notifier close error", "error", err)
			}
		}()
		opts = append(opts, iris2odim.WithNotifier(notifier))
		logger.Debug("conversion notifications enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	converter := iris2odim.New(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = converter.Convert(ctx, inv.Input, inv.Output)
	if err != nil {
		fmt.Fprintf(stderr, "iris2odim: %v\n", err)
	}

	if cfg.MetricsTextfile != "" {
		if werr := converter.WriteMetrics(cfg.MetricsTextfile); werr != nil {
			logger.Warn("metrics not written", "path", cfg.MetricsTextfile, "error", werr)
		}
	}
	return cli.ExitCode(err)
}
