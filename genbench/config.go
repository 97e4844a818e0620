// Package genbench synthesizes pangenome DAGs for benchmarking and
// testing the rst pipeline: linear chains, SNP/indel/SV bubbles, and a
// wrapping-stress graph exercising spec.md's S5 scenario. Its functional
// option shape follows the teacher's builder package.
package genbench

import "math/rand"

// Option customizes a generator's behavior.
type Option func(cfg *config)

type config struct {
	rng *rand.Rand
}

func newConfig(opts ...Option) *config {
	cfg := &config{rng: rand.New(rand.NewSource(1))}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithSeed seeds the generator's RNG for reproducible output.
func WithSeed(seed int64) Option {
	return func(cfg *config) { cfg.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand injects an explicit RNG source.
func WithRand(rng *rand.Rand) Option {
	return func(cfg *config) {
		if rng != nil {
			cfg.rng = rng
		}
	}
}
