package writer

import (
	"context"
	"math/rand"
	"time"
)

// DrainOptions controls the pacing of a Drain loop.
type DrainOptions struct {
	// InitialDelay is the pause after a flush that left work queued.
	InitialDelay time.Duration

	// MaxDelay caps the exponential growth of the pause.
	MaxDelay time.Duration
}

// DefaultDrainOptions returns pacing suited to transient throttling.
func DefaultDrainOptions() DrainOptions {
	return DrainOptions{
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
	}
}

// Drain calls Flush until the queue is empty, pausing between calls with
// exponential backoff. The delay resets whenever a batch makes progress
// (at least one record accepted), so a burst that merely exceeded one
// batch drains quickly while a throttled stream backs off.
//
// Drain is layered on top of the Writer contract: it adds pacing only,
// never scheduling inside the core. It returns the first transport error
// unchanged, or the context error if the context ends during a pause.
func Drain(ctx context.Context, w *Writer, opts DrainOptions) error {
	b := newBackoff(opts.InitialDelay, opts.MaxDelay)
	for {
		more, err := w.Flush(ctx)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		if w.LastBatch().Succeeded > 0 {
			b.reset()
		}
		if err := b.sleep(ctx); err != nil {
			return err
		}
	}
}

// backoff implements exponential backoff with jitter.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	if initial <= 0 {
		initial = DefaultDrainOptions().InitialDelay
	}
	if max < initial {
		max = initial
	}
	return &backoff{initial: initial, max: max, current: initial}
}

// sleep pauses for the current backoff duration and increases it.
// Returns early with ctx.Err() if the context ends first.
func (b *backoff) sleep(ctx context.Context) error {
	// Add jitter: ±20%
	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	delay := time.Duration(float64(b.current) + jitter)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	return nil
}

func (b *backoff) reset() {
	b.current = b.initial
}
