// Package flight coalesces concurrent calls for the same key into one
// execution whose lifetime is bound to its callers rather than to the first
// of them.
package flight

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// call is the shared context of one execution and the number of callers
// still waiting on it.
type call struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Group is safe for concurrent use. The zero value is ready.
type Group[T any] struct {
	group singleflight.Group
	mu    sync.Mutex
	calls map[string]*call
}

// Do runs fn once for every set of concurrent callers sharing key. fn gets a
// context that keeps the values of the first caller and is cancelled only
// when every waiting caller has given up. A caller whose own ctx ends
// returns ctx.Err() without affecting the others.
func (g *Group[T]) Do(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call)
	}
	c, ok := g.calls[key]
	if !ok {
		shared, cancel := context.WithCancel(context.WithoutCancel(ctx))
		c = &call{ctx: shared, cancel: cancel}
		g.calls[key] = c
	}
	c.waiters++
	ch := g.group.DoChan(key, func() (any, error) {
		defer g.done(key, c)
		return fn(c.ctx)
	})
	g.mu.Unlock()

	var zero T
	select {
	case res := <-ch:
		g.leave(key, c)
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		g.leave(key, c)
		return zero, ctx.Err()
	}
}

// done unregisters c once its execution returned, so later callers start a
// new one.
func (g *Group[T]) done(key string, c *call) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.calls[key] == c {
		delete(g.calls, key)
	}
}

// leave drops a waiter. The last one cancels the shared context and, if the
// execution is still running, detaches it so that new callers do not join a
// cancelled run.
func (g *Group[T]) leave(key string, c *call) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c.waiters--
	if c.waiters > 0 {
		return
	}
	if g.calls[key] == c {
		delete(g.calls, key)
		g.group.Forget(key)
	}
	c.cancel()
}
