// Package parallel provides the explicit execution context the pipeline
// stages fan out on.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Executor splits index ranges across a bounded number of goroutines.
// Each block owns a disjoint range, so callers write results without locks.
type Executor struct {
	Workers int
	// BlockSize is the number of indices per block. Zero picks a size that
	// gives every worker a few blocks.
	BlockSize int
}

// Serial runs every block on the calling goroutine.
func Serial() Executor { return Executor{Workers: 1} }

// Default uses one worker per CPU.
func Default() Executor { return Executor{Workers: runtime.NumCPU()} }

// Blocks calls fn for consecutive ranges [lo, hi) covering [0, n). It
// returns the first error any block reports; remaining blocks are skipped
// once ctx is cancelled.
func (e Executor) Blocks(ctx context.Context, n int, fn func(lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	size := e.blockSize(n)
	if e.Workers <= 1 {
		for lo := 0; lo < n; lo += size {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(lo, min(lo+size, n)); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Workers)
	for lo := 0; lo < n; lo += size {
		if gctx.Err() != nil {
			break
		}
		lo, hi := lo, min(lo+size, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(lo, hi)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (e Executor) blockSize(n int) int {
	if e.BlockSize > 0 {
		return e.BlockSize
	}
	workers := max(e.Workers, 1)
	size := n / (workers * 4)
	if size < 1 {
		size = 1
	}
	return size
}
