package enginepool

import (
	"context"
	"testing"

	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/engine"
	"github.com/greenm01/ec4x/house"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/orders"
	"github.com/greenm01/ec4x/starmap"
	"github.com/greenm01/ec4x/state"
	"github.com/greenm01/ec4x/techtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(seed int64) *engine.Engine {
	m := starmap.New()
	m.AddSystem(starmap.System{ID: 1})
	m.AddSystem(starmap.System{ID: 2})
	m.AddLane(1, 2)
	gs := state.New(m, seed)
	gs.AddHouse(house.New(1, 1000))
	return engine.New(gs, config.DefaultConfig(), map[techtree.Field]techtree.Tree{})
}

func TestResolveOneReturnsUnknownGameError(t *testing.T) {
	p := New(4)

	_, err := p.ResolveOne(context.Background(), GameId(1), map[ids.HouseId]orders.OrderPacket{})

	require.Error(t, err)
	var unknown *UnknownGameError
	assert.ErrorAs(t, err, &unknown)
}

func TestResolveOneAdvancesRegisteredGame(t *testing.T) {
	p := New(4)
	eng := newTestGame(1)
	p.Register(GameId(1), eng)
	startTurn := eng.State().Turn

	_, err := p.ResolveOne(context.Background(), GameId(1), map[ids.HouseId]orders.OrderPacket{})

	require.NoError(t, err)
	assert.Equal(t, startTurn+1, eng.State().Turn)
}

func TestResolveAllRunsEveryRegisteredGame(t *testing.T) {
	p := New(2)
	engA := newTestGame(1)
	engB := newTestGame(2)
	p.Register(GameId(1), engA)
	p.Register(GameId(2), engB)

	results, err := p.ResolveAll(context.Background(), map[GameId]map[ids.HouseId]orders.OrderPacket{
		1: {},
		2: {},
	})

	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, int32(2), engA.State().Turn)
	assert.Equal(t, int32(2), engB.State().Turn)
}

func TestUnregisterRemovesGameFromPool(t *testing.T) {
	p := New(4)
	p.Register(GameId(1), newTestGame(1))
	p.Unregister(GameId(1))

	_, err := p.ResolveOne(context.Background(), GameId(1), map[ids.HouseId]orders.OrderPacket{})

	require.Error(t, err)
}
