package repository

import "github.com/okian/elevatos/pkg/logger"

// Option applies a configuration option to the SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *SQLiteStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTable overrides the table the entries are kept in.
func WithTable(name string) Option {
	return func(s *SQLiteStore) {
		if name != "" {
			s.table = name
		}
	}
}
