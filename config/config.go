// Package config holds the numeric policy of the conditioning engine and
// the sampler.
package config

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat/distuv"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid value")

// Config is the numeric policy. The zero value is not usable, start from
// Default.
type Config struct {
	// Jitter is the first diagonal addition tried when a covariance matrix
	// fails to factorize.
	Jitter float64 `yaml:"jitter"`
	// JitterGrowth multiplies the jitter after each failed attempt.
	JitterGrowth float64 `yaml:"jitter_growth"`
	// MaxJitter bounds the jitter; beyond it factorization fails.
	MaxJitter float64 `yaml:"max_jitter"`
	// SampleJitter is always added before factorizing a prior or posterior
	// covariance for sampling.
	SampleJitter float64 `yaml:"sample_jitter"`
	// Multiplier scales the standard deviation in marginal bounds.
	Multiplier float64 `yaml:"multiplier"`
}

// Default returns the default policy.
func Default() Config {
	return Config{
		Jitter:       1e-10,
		JitterGrowth: 10,
		MaxJitter:    1e-4,
		SampleJitter: 1e-9,
		Multiplier:   2,
	}
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	switch {
	case c.Jitter <= 0:
		return fmt.Errorf("%w: jitter must be positive, got %g", ErrInvalid, c.Jitter)
	case c.JitterGrowth <= 1:
		return fmt.Errorf("%w: jitter_growth must exceed 1, got %g", ErrInvalid, c.JitterGrowth)
	case c.MaxJitter < c.Jitter:
		return fmt.Errorf("%w: max_jitter %g below jitter %g", ErrInvalid, c.MaxJitter, c.Jitter)
	case c.SampleJitter < 0:
		return fmt.Errorf("%w: sample_jitter must be non-negative, got %g", ErrInvalid, c.SampleJitter)
	case c.Multiplier <= 0:
		return fmt.Errorf("%w: multiplier must be positive, got %g", ErrInvalid, c.Multiplier)
	}
	return nil
}

// Parse reads a YAML document on top of the default policy. Fields absent
// from the document keep their default value.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads a YAML policy from r.
func Load(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("config: read: %w", err)
	}
	return Parse(data)
}

// MultiplierFor returns the standard-deviation multiplier of a two-sided
// central interval with the given probability mass, e.g. 1.96 for 0.95.
func MultiplierFor(confidence float64) (float64, error) {
	if confidence <= 0 || confidence >= 1 {
		return 0, fmt.Errorf("%w: confidence must be in (0, 1), got %g", ErrInvalid, confidence)
	}
	return distuv.UnitNormal.Quantile(0.5 + confidence/2), nil
}
