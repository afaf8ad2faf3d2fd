package mirror

import "github.com/okian/elevatos/pkg/logger"

// Option applies a configuration option to the Mirror.
type Option func(*Mirror)

// WithLogger sets a custom logger for the mirror.
func WithLogger(l logger.Logger) Option {
	return func(m *Mirror) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithQueueCapacity bounds the number of outstanding write jobs.
func WithQueueCapacity(n int) Option {
	return func(m *Mirror) {
		if n > 0 {
			m.queueCapacity = n
		}
	}
}
