// Package parallel fans CPU kernels out over a bounded set of goroutines.
package parallel

import (
	"os"
	"runtime"
	"strconv"

	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sync/errgroup"
)

// WorkersEnv overrides the detected worker count when set to a positive integer.
const WorkersEnv = "STEGASTAMP_WORKERS"

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Maximum number of goroutines running at once.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig sizes the worker pool from the logical core count reported by
// cpuid, falling back to runtime.NumCPU when detection fails.
func DefaultConfig() Config {
	n := cpuid.CPU.LogicalCores
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if v, err := strconv.Atoi(os.Getenv(WorkersEnv)); err == nil && v > 0 {
		n = v
	}
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// WithMinChunk returns a copy of cfg with a different minimum chunk size.
// Coarse work units such as whole batch samples use a chunk size of 1.
func (cfg Config) WithMinChunk(size int) Config {
	cfg.MinChunkSize = size
	return cfg
}

// For executes f(i) for i in [0, n), split into contiguous chunks.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < 2 || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)

	var g errgroup.Group
	g.SetLimit(cfg.NumWorkers)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				f(i)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
}

// ForBatch iterates the batch*channels grid common in convolution kernels.
func ForBatch(batch, channels int, f func(b, c int), cfg Config) {
	For(batch*channels, func(k int) {
		f(k/channels, k%channels)
	}, cfg)
}
