package gen

import "runtime"

// Config holds the code generation configuration.
type Config struct {
	// Package is the name of the package the accessors are generated into.
	Package string

	// OutDir is the directory generated files are written to.
	OutDir string

	// Header is an optional comment added at the top of each generated
	// file, after the generated-code marker.
	Header string

	// Workers bounds parallel per-schema emission.
	Workers int
}

// Option configures code generation.
type Option func(*Config) error

// WithPackage sets the output package name.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithOutDir sets the output directory.
func WithOutDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("OutDir", nil, "output directory cannot be empty")
		}
		c.OutDir = dir
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers bounds the number of schemas generated in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "workers must be at least 1")
		}
		c.Workers = n
		return nil
	}
}

// NewConfig builds a Config from functional options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.Package == "" {
		return nil, NewConfigError("Package", nil, "package is required")
	}
	if c.OutDir == "" {
		return nil, NewConfigError("OutDir", nil, "output directory is required")
	}
	return c, nil
}
