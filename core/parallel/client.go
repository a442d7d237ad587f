package parallel

import (
	"context"
	"runtime"

	scierr "github.com/parsearch/parsearch/pkg/errors"
)

// Client schedules independent tasks onto a bounded worker pool. It plays the
// role the distributed-runtime client plays for the Python search libraries:
// search objects hand it one task per candidate×fold and it decides how many
// run at once.
//
// A Client with one worker executes tasks sequentially in submission order,
// which is the reference behavior parallel runs are compared against.
type Client struct {
	workers int
}

// Option configures a Client.
type Option func(*Client)

// WithWorkers sets the worker pool size. Values below 1 fall back to the
// number of CPUs.
func WithWorkers(n int) Option {
	return func(c *Client) {
		c.workers = n
	}
}

// NewClient creates a Client. By default the pool is sized to runtime.NumCPU.
func NewClient(opts ...Option) *Client {
	c := &Client{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(c)
	}
	if c.workers < 1 {
		c.workers = runtime.NumCPU()
	}
	return c
}

// Workers returns the worker pool size.
func (c *Client) Workers() int {
	return c.workers
}

// Sequential reports whether the client runs tasks one at a time.
func (c *Client) Sequential() bool {
	return c.workers == 1
}

// Map executes task(i) for i in [0, n) on the worker pool and blocks until
// all tasks finish or ctx is cancelled. Panics inside tasks are converted to
// errors. The returned slice has one entry per task; entries are nil for
// tasks that succeeded and ctx.Err() for tasks never started.
func (c *Client) Map(ctx context.Context, n int, task func(i int) error) []error {
	errs := make([]error, n)
	if n == 0 {
		return errs
	}

	workers := c.workers
	if workers > n {
		workers = n
	}

	indices := make(chan int)
	done := make(chan struct{})

	for w := 0; w < workers; w++ {
		go func() {
			for i := range indices {
				i := i
				errs[i] = scierr.SafeExecute("parallel task", func() error {
					return task(i)
				})
			}
			done <- struct{}{}
		}()
	}

	go func() {
		defer close(indices)
		for i := 0; i < n; i++ {
			select {
			case indices <- i:
			case <-ctx.Done():
				// Mark everything not yet submitted as cancelled.
				for j := i; j < n; j++ {
					if errs[j] == nil {
						errs[j] = ctx.Err()
					}
				}
				return
			}
		}
	}()

	for w := 0; w < workers; w++ {
		<-done
	}

	return errs
}

// MapErr is Map, collapsed to the first non-nil error.
func (c *Client) MapErr(ctx context.Context, n int, task func(i int) error) error {
	for _, err := range c.Map(ctx, n, task) {
		if err != nil {
			return err
		}
	}
	return nil
}
