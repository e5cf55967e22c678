// Package enginepool runs many independent games' turns concurrently
// (spec §5 expansion: "process-level parallelism across independent
// games ... is permitted"), while preserving each individual game's
// single-threaded-per-game guarantee. It is the only package in this
// module that calls into golang.org/x/sync directly; every other package
// resolves one turn of one game on whatever goroutine calls it.
package enginepool

import (
	"context"
	"fmt"
	"sync"

	"github.com/greenm01/ec4x/engine"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/orders"
	"github.com/greenm01/ec4x/phases"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// GameId names one game managed by a Pool. The engine package itself has
// no notion of a game identity beyond its own GameState; Pool is what
// attaches one.
type GameId int64

// entry pairs one game's Engine with the mutex that keeps Pool from ever
// calling ResolveTurn on it from two goroutines at once.
type entry struct {
	mu  sync.Mutex
	eng *engine.Engine
}

// Pool bounds how many games may have a ResolveTurn call in flight at
// once, via a weighted semaphore, and fans work out across them with an
// errgroup so one game's fatal failure doesn't silently swallow the
// others' results.
type Pool struct {
	sem *semaphore.Weighted

	mu    sync.RWMutex
	games map[GameId]*entry
}

// New builds a Pool that runs at most maxConcurrent games' turns at the
// same wall-clock time.
func New(maxConcurrent int64) *Pool {
	return &Pool{
		sem:   semaphore.NewWeighted(maxConcurrent),
		games: make(map[GameId]*entry),
	}
}

// Register adds a game to the pool under id. Calling Register again with
// an id already present replaces that game's Engine outright; callers
// needing to resume a game across process restarts should construct the
// replacement Engine from persisted state first.
func (p *Pool) Register(id GameId, eng *engine.Engine) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.games[id] = &entry{eng: eng}
}

// Unregister drops a game from the pool. Safe to call even if id was
// never registered.
func (p *Pool) Unregister(id GameId) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.games, id)
}

func (p *Pool) lookup(id GameId) (*entry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.games[id]
	return e, ok
}

// TurnResult pairs one game's resolved turn with its id, for ResolveAll's
// aggregate return.
type TurnResult struct {
	Game   GameId
	Result phases.TurnResult
}

// ResolveOne admits and resolves a single game's turn, blocking until a
// concurrency slot is free. The per-game mutex means a second concurrent
// call against the same GameId blocks behind the first rather than
// racing it, so a game is never mid-ResolveTurn on two goroutines
// simultaneously regardless of how ResolveOne/ResolveAll are called.
func (p *Pool) ResolveOne(ctx context.Context, id GameId, packets map[ids.HouseId]orders.OrderPacket) (phases.TurnResult, error) {
	e, ok := p.lookup(id)
	if !ok {
		return phases.TurnResult{}, &UnknownGameError{Game: id}
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return phases.TurnResult{}, err
	}
	defer p.sem.Release(1)

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.eng.ResolveTurn(packets)
}

// ResolveAll resolves one turn for every game in games concurrently,
// bounded by the Pool's semaphore, and waits for all of them to finish.
// A fatal failure in one game's ResolveTurn does not cancel the others;
// ctx cancellation is the only thing that does. The returned slice omits
// any GameId absent from the pool or whose ResolveTurn failed — callers
// that need per-game errors should call ResolveOne directly instead.
func (p *Pool) ResolveAll(ctx context.Context, games map[GameId]map[ids.HouseId]orders.OrderPacket) ([]TurnResult, error) {
	var g errgroup.Group

	var mu sync.Mutex
	var results []TurnResult

	for id, packets := range games {
		id, packets := id, packets
		g.Go(func() error {
			result, err := p.ResolveOne(ctx, id, packets)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, TurnResult{Game: id, Result: result})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// UnknownGameError is returned when a caller asks the pool to resolve a
// turn for a GameId it never registered.
type UnknownGameError struct {
	Game GameId
}

func (e *UnknownGameError) Error() string {
	return fmt.Sprintf("enginepool: unknown game %d", e.Game)
}
