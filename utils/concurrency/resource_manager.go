// Package concurrency implements a channel based pool of resources for
// running independent tasks concurrently.
package concurrency

import (
	"sync"
	"sync/atomic"
)

// ResourceManager owns a fixed set of resources of type T (e.g. one
// transform engine each) and lends one to every task it runs, so that at
// most len(resources) tasks run at the same time and no resource is ever
// used by two tasks at once.
type ResourceManager[T any] struct {
	wg        sync.WaitGroup
	resources chan T
	failed    atomic.Bool
	once      sync.Once
	err       error
}

// NewResourceManager instantiates a new [ResourceManager] over resources.
func NewResourceManager[T any](resources []T) *ResourceManager[T] {
	if len(resources) == 0 {
		panic("cannot NewResourceManager: no resources")
	}
	ch := make(chan T, len(resources))
	for i := range resources {
		ch <- resources[i]
	}
	return &ResourceManager[T]{
		resources: ch,
	}
}

// Size returns the number of resources of the pool.
func (r *ResourceManager[T]) Size() int {
	return cap(r.resources)
}

// Task is a function taking as input a borrowed resource.
type Task[T any] func(resource T) (err error)

// Run runs f concurrently once a resource is available.
// Once a [Task] has returned an error, tasks that have not started yet
// are skipped.
func (r *ResourceManager[T]) Run(f Task[T]) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		resource := <-r.resources
		defer func() { r.resources <- resource }()

		if r.failed.Load() {
			return
		}

		if err := f(resource); err != nil {
			r.once.Do(func() {
				r.err = err
				r.failed.Store(true)
			})
		}
	}()
}

// Wait waits until all the [Task] have returned and returns the first
// encountered error, if any.
func (r *ResourceManager[T]) Wait() (err error) {
	r.wg.Wait()
	return r.err
}
