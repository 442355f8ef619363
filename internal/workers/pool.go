// Package workers implements a small channel-based worker pool for fanning
// out independent tasks across a fixed set of scratch resources (e.g. one
// ring.Poly buffer per goroutine) without allocating per task.
package workers

import "sync"

// Pool distributes a fixed slice of resources of type T across
// concurrently submitted tasks. Each task borrows exactly one resource for
// its duration and returns it to the pool when done, so resources are never
// shared between two tasks running at the same time.
type Pool[T any] struct {
	wg        sync.WaitGroup
	resources chan T
	errs      chan error
}

// New creates a Pool backed by the given resources. len(resources) bounds
// the number of tasks that can run concurrently.
func New[T any](resources []T) *Pool[T] {
	ch := make(chan T, len(resources))
	for i := range resources {
		ch <- resources[i]
	}
	return &Pool[T]{
		resources: ch,
		errs:      make(chan error, len(resources)),
	}
}

// Task is a unit of work given exclusive access to a borrowed resource.
type Task[T any] func(resource T) error

// Run schedules f to run on the next available resource. Run does not block
// on a free resource; the scheduling goroutine blocks instead, so Run itself
// returns immediately. If a previous task already failed, f is not invoked.
func (p *Pool[T]) Run(f Task[T]) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if len(p.errs) != 0 {
			return
		}
		r := <-p.resources
		if err := f(r); err != nil {
			if len(p.errs) < cap(p.errs) {
				p.errs <- err
			}
		}
		p.resources <- r
	}()
}

// Wait blocks until every scheduled Task has returned and reports the first
// error encountered, if any.
func (p *Pool[T]) Wait() error {
	p.wg.Wait()
	if len(p.errs) != 0 {
		return <-p.errs
	}
	return nil
}
