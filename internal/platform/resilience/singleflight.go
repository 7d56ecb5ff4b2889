package resilience

import "sync"

// SingleFlight collapses concurrent calls sharing a key into one
// underlying call; followers block until the leader finishes and
// receive its outcome.
type SingleFlight struct {
	mu      sync.Mutex
	pending map[string]*flightCall
}

type flightCall struct {
	done chan struct{}
	val  any
	err  error
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error) {
	g.mu.Lock()
	if g.pending == nil {
		g.pending = make(map[string]*flightCall)
	}
	if c, ok := g.pending[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.val, c.err
	}

	c := &flightCall{done: make(chan struct{})}
	g.pending[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()

	g.mu.Lock()
	delete(g.pending, key)
	g.mu.Unlock()
	close(c.done)

	return c.val, c.err
}
