package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kinship-labs/kinship/internal/cliconfig"
	"github.com/kinship-labs/kinship/pkg/awsx"
	"github.com/kinship-labs/kinship/pkg/log"
	"github.com/kinship-labs/kinship/pkg/stream"
	"github.com/kinship-labs/kinship/pkg/writer"
)

func newPutCmd(cfg *cliconfig.Config, zlog zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put",
		Short: "Publish stdin lines to a stream, one record per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			return runPut(ctx, cfg, log.NewZerologAdapterWithLogger(zlog))
		},
	}
	cmd.Flags().StringVar(&cfg.PartitionKey, "partition-key", cfg.PartitionKey,
		"partition key for every record (default: one synthesized per record)")
	cmd.Flags().BoolVar(&cfg.LogBatches, "log-batches", cfg.LogBatches,
		"log a debug line per submitted batch")
	cmd.Flags().DurationVar(&cfg.FlushDelay, "flush-delay", cfg.FlushDelay,
		"initial pause between flushes while draining")
	cmd.Flags().DurationVar(&cfg.MaxFlushDelay, "max-flush-delay", cfg.MaxFlushDelay,
		"backoff cap for the pause between flushes")
	return cmd
}

func runPut(ctx context.Context, cfg *cliconfig.Config, logger log.Logger) error {
	api, err := newKinesisClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	w := writer.New(awsx.NewTransport(api), stream.Parse(cfg.Stream),
		writer.WithLogger(logger),
		writer.WithBatchLogging(cfg.LogBatches))
	drainOpts := writer.DrainOptions{
		InitialDelay: cfg.FlushDelay,
		MaxDelay:     cfg.MaxFlushDelay,
	}

	var lines int
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), stream.MaxRecordBytes+1)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := w.Enqueue(writer.Text(line), cfg.PartitionKey); err != nil {
			return fmt.Errorf("line %d: %w", lines+1, err)
		}
		lines++

		// Keep the queue near one batch while stdin is still producing.
		if w.Pending() >= stream.MaxRecordsPerCall {
			if _, err := w.Flush(ctx); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	if err := writer.Drain(ctx, w, drainOpts); err != nil {
		return err
	}

	logger.Info("done",
		log.Int("records", lines),
		log.String("stream", w.Stream().Name()))
	return nil
}
