package analyzer

import "go.uber.org/zap"

// Options configures a single Analyze call.
type Options struct {
	MaxModuleSize  int
	MaxSectionSize int
	HotspotLimit   int
	Logger         *zap.Logger
}

func defaultOptions() *Options {
	return &Options{
		MaxModuleSize:  0,
		MaxSectionSize: 0,
		HotspotLimit:   0,
	}
}

// Option customizes the configuration of an Analyze call.
type Option func(o *Options) error

// WithMaxModuleSize caps the total size of the module being decoded. Zero
// (the default) falls back to wasm.DefaultMaxModuleSize.
func WithMaxModuleSize(bytes int) Option {
	return func(o *Options) error {
		o.MaxModuleSize = bytes
		return nil
	}
}

// WithMaxSectionSize caps the declared size of any single section. Zero
// (the default) falls back to wasm.DefaultMaxSectionSize.
func WithMaxSectionSize(bytes int) Option {
	return func(o *Options) error {
		o.MaxSectionSize = bytes
		return nil
	}
}

// WithHotspotLimit overrides the number of memory-operation hotspots
// reported. Zero (the default) falls back to memprofile's built-in limit.
func WithHotspotLimit(n int) Option {
	return func(o *Options) error {
		o.HotspotLimit = n
		return nil
	}
}

// WithLogger attaches a logger for this call only, without affecting the
// package-level logger set by SetLogger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) error {
		o.Logger = l
		return nil
	}
}
