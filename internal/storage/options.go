// ABOUTME: Functional options shared by the storage collections
// ABOUTME: Carries the logger used for data-loss warnings during organize

package storage

import "github.com/rs/zerolog"

// Option configures a collection or entry.
type Option func(*options)

type options struct {
	logger zerolog.Logger
}

func newOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for warnings about discarded entries.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func (o options) asOptions() []Option {
	return []Option{WithLogger(o.logger)}
}
