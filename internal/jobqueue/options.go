package jobqueue

import "github.com/rs/zerolog"

// DefaultCompactionLimit is the number of jobs a bucket runs per window
// before its executed prefix may be discarded.
const DefaultCompactionLimit = 1000

// Option configures a Scheduler.
type Option func(*options)

type options struct {
	limit  int
	logger zerolog.Logger
}

func defaultOptions() options {
	return options{
		limit:  DefaultCompactionLimit,
		logger: zerolog.Nop(),
	}
}

// WithCompactionLimit sets the window size. Values below 1 keep the default.
func WithCompactionLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithLogger sets the logger used for bucket lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}
