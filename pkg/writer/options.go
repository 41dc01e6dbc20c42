package writer

import (
	"time"

	"github.com/kinship-labs/kinship/pkg/log"
)

// Option configures optional behavior of a Writer.
type Option func(*options)

type options struct {
	limits     Limits
	logger     log.Logger
	logBatches bool
	now        func() time.Time
}

func defaultOptions() options {
	return options{
		limits: DefaultLimits(),
		logger: log.NewNoopLogger(),
		now:    time.Now,
	}
}

// WithLimits overrides the batch ceilings. Intended for tests; the
// defaults already match the service limits, and raising them past what
// the service accepts only moves the rejection to the transport.
func WithLimits(l Limits) Option {
	return func(o *options) {
		o.limits = l
	}
}

// WithLogger sets the logger used for batch diagnostics.
// If not provided, a no-op logger is used.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBatchLogging enables a debug log line before and after each
// submitted batch: size and destination going out, accepted/rejected
// counts and distinct error messages coming back.
func WithBatchLogging(enabled bool) Option {
	return func(o *options) {
		o.logBatches = enabled
	}
}

// WithClock sets the time source for synthesized partition keys.
// Tests use this to pin the key to a known value.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
