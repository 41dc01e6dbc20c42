package main

import (
	"bufio"
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kinship-labs/kinship/internal/cliconfig"
	"github.com/kinship-labs/kinship/pkg/awsx"
	"github.com/kinship-labs/kinship/pkg/log"
	"github.com/kinship-labs/kinship/pkg/reader"
	"github.com/kinship-labs/kinship/pkg/stream"
)

func newTailCmd(cfg *cliconfig.Config, zlog zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow a stream and print records to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			err := runTail(ctx, cfg, log.NewZerologAdapterWithLogger(zlog))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&cfg.TrimHorizon, "trim-horizon", cfg.TrimHorizon,
		"start from the oldest retained record instead of the tip")
	cmd.Flags().DurationVar(&cfg.PollDelay, "poll-delay", cfg.PollDelay,
		"pause when no shard has records available")
	return cmd
}

func runTail(ctx context.Context, cfg *cliconfig.Config, logger log.Logger) error {
	api, err := newKinesisClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var opts []reader.Option
	if cfg.TrimHorizon {
		opts = append(opts, reader.WithTrimHorizon())
	}
	src := awsx.NewShardSource(api, stream.Parse(cfg.Stream))
	r, err := reader.New(ctx, src, opts...)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for {
		rec, err := r.Read(ctx)
		if err != nil {
			return err
		}
		if rec == nil {
			out.Flush()
			if err := sleepCtx(ctx, cfg.PollDelay); err != nil {
				return err
			}
			continue
		}
		out.Write(rec.Data)
		out.WriteByte('\n')
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
