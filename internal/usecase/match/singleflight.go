package match

import (
	"context"
	"sync"

	domainmatch "resmatch/internal/domain/match"
)

// flightGroup collapses concurrent computations of the same cache key into
// one call. The first caller runs fn; followers block on the flight's done
// channel and share the result. The entry is torn down once fn returns, so
// a later miss computes fresh.
type flightGroup struct {
	mu      sync.Mutex
	flights map[string]*flight
}

type flight struct {
	done  chan struct{}
	score domainmatch.Score
	err   error
}

func newFlightGroup() *flightGroup {
	return &flightGroup{flights: make(map[string]*flight)}
}

func (g *flightGroup) do(ctx context.Context, key string, fn func() (domainmatch.Score, error)) (domainmatch.Score, error) {
	g.mu.Lock()
	if existing, ok := g.flights[key]; ok {
		g.mu.Unlock()
		select {
		case <-existing.done:
			return existing.score, existing.err
		case <-ctx.Done():
			return domainmatch.Score{}, ctx.Err()
		}
	}

	current := &flight{done: make(chan struct{})}
	g.flights[key] = current
	g.mu.Unlock()

	current.score, current.err = fn()

	g.mu.Lock()
	delete(g.flights, key)
	g.mu.Unlock()
	close(current.done)

	return current.score, current.err
}
