// Package loader runs the reads behind a view concurrently and reports the
// outcome as a loading / ready / failed view.
package loader

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Status int

const (
	Loading Status = iota
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "loading"
	}
}

// Step is a single read that stores its own result.
type Step func(ctx context.Context) error

// Into adapts a typed fetch into a Step writing to dst. dst is only written
// when the fetch succeeds.
func Into[T any](dst *T, fetch func(ctx context.Context) (T, error)) Step {
	return func(ctx context.Context) error {
		v, err := fetch(ctx)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// Run executes all steps concurrently. The first failing step cancels the
// context shared by the others and its error is returned.
func Run(ctx context.Context, steps ...Step) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, step := range steps {
		if step == nil {
			continue
		}
		g.Go(func() error {
			return step(gctx)
		})
	}
	return g.Wait()
}

// View is the result of a load. The zero value is Loading.
type View[T any] struct {
	status Status
	data   T
	err    error
}

func (v View[T]) Status() Status { return v.status }

func (v View[T]) Err() error { return v.err }

// Data returns the loaded value and whether the view is Ready.
func (v View[T]) Data() (T, bool) {
	return v.data, v.status == Ready
}

// Load runs steps and, if all succeed, builds the view data with assemble.
func Load[T any](ctx context.Context, assemble func() T, steps ...Step) View[T] {
	if err := Run(ctx, steps...); err != nil {
		return View[T]{status: Failed, err: err}
	}
	return View[T]{status: Ready, data: assemble()}
}
