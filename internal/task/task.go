// Package task runs side work in the background without blocking the caller.
//
// A Dispatcher starts each task on its own goroutine. Failures, including
// panics, are logged where the task ends; the caller only learns about
// them if it chooses to Wait.
package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrPanic wraps a panic recovered from a task.
var ErrPanic = errors.New("task panicked")

// Func is one unit of background work.
type Func func(ctx context.Context) error

// Dispatcher starts background tasks and tracks them until Wait. The zero
// value is not usable; call NewDispatcher.
type Dispatcher struct {
	ctx    context.Context
	logger logrus.FieldLogger

	wg   sync.WaitGroup
	mu   sync.Mutex
	errs []error
}

// NewDispatcher returns a Dispatcher whose tasks run with ctx. A nil logger
// discards task failures.
func NewDispatcher(ctx context.Context, logger logrus.FieldLogger) *Dispatcher {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Dispatcher{ctx: ctx, logger: logger}
}

// Go starts fn in the background and returns immediately.
func (d *Dispatcher) Go(name string, fn Func) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.run(fn); err != nil {
			d.logger.WithField("task", name).WithError(err).Warn("background task failed")
			d.mu.Lock()
			d.errs = append(d.errs, fmt.Errorf("%s: %w", name, err))
			d.mu.Unlock()
		}
	}()
}

// Wait blocks until every started task has finished and returns their
// failures joined. Failures were already logged.
func (d *Dispatcher) Wait() error {
	d.wg.Wait()
	d.mu.Lock()
	defer d.mu.Unlock()
	return errors.Join(d.errs...)
}

func (d *Dispatcher) run(fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn(d.ctx)
}
