package coverart

import "go.uber.org/zap"

// Option configures an Accessor.
//
// Options use the functional options pattern:
//
//	acc, err := coverart.New(
//	    coverart.WithBackend("taglib"),
//	    coverart.WithLogger(logger),
//	)
type Option func(*options)

// options holds Accessor configuration.
type options struct {
	logger       *zap.Logger
	backend      string // Registry name; "" selects the default backend
	maxCoverSize int    // Maximum cover size in bytes (0 = no limit)
}

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		logger:       zap.NewNop(),
		backend:      "",
		maxCoverSize: 0,
	}
}

// WithBackend selects the tagging library by registry name.
//
// Available backends are "id3v2" (default, github.com/bogem/id3v2) and
// "taglib" (TagLib via go.senan.xyz/taglib). See Backends.
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithLogger sets the logger used for warnings and save reports.
//
// By default nothing is logged.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMaxCoverSize sets a maximum size for covers returned by ReadTags.
//
// Covers larger than this (in bytes) are dropped from the snapshot with a
// warning. Default is 0 (no limit).
//
// Example:
//
//	// Ignore covers over 10MB
//	acc, err := coverart.New(coverart.WithMaxCoverSize(10 * 1024 * 1024))
func WithMaxCoverSize(bytes int) Option {
	return func(o *options) {
		o.maxCoverSize = bytes
	}
}
