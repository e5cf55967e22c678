// Command ec4xd is a thin demonstration harness around engine.Engine and
// enginepool.Pool: it stands up a handful of games on a small star map,
// feeds them empty order packets for a few turns, and prints what each
// turn produced. It exists to exercise the library end to end, not as a
// game server — a real server would replace the in-memory game setup
// below with its own persistence and order intake.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/engine"
	"github.com/greenm01/ec4x/enginepool"
	"github.com/greenm01/ec4x/house"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/log"
	"github.com/greenm01/ec4x/orders"
	"github.com/greenm01/ec4x/starmap"
	"github.com/greenm01/ec4x/state"
	"github.com/greenm01/ec4x/techtree"
)

const (
	numGames         = 3
	turnsPerGame     = 5
	maxConcurrency   = 2
	startingTreasury = 1000
)

func main() {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	log.SetLogger(log.NewZerologAdapter(zlog))

	cfg := config.DefaultConfig()
	techTrees := map[techtree.Field]techtree.Tree{}

	pool := enginepool.New(maxConcurrency)
	for i := 1; i <= numGames; i++ {
		id := enginepool.GameId(i)
		pool.Register(id, newDemoGame(cfg, techTrees))
	}

	ctx := context.Background()
	for turn := 1; turn <= turnsPerGame; turn++ {
		games := make(map[enginepool.GameId]map[ids.HouseId]orders.OrderPacket, numGames)
		for i := 1; i <= numGames; i++ {
			games[enginepool.GameId(i)] = map[ids.HouseId]orders.OrderPacket{}
		}

		results, err := pool.ResolveAll(ctx, games)
		if err != nil {
			log.GetLogger().Error("turn resolution failed", log.F("turn", turn), log.F("error", err))
			os.Exit(1)
		}

		for _, r := range results {
			log.GetLogger().Info("turn resolved",
				log.F("game", int64(r.Game)),
				log.F("events", len(r.Result.Events)),
				log.F("combatReports", len(r.Result.CombatReports)))
		}
	}
}

// newDemoGame builds a two-house game on a small ring-shaped star map.
// Each house starts with a treasury only; no colonies or fleets are
// placed on the map.
func newDemoGame(cfg *config.GameConfig, techTrees map[techtree.Field]techtree.Tree) *engine.Engine {
	sm := starmap.New()
	for i := ids.SystemId(1); i <= 4; i++ {
		sm.AddSystem(starmap.System{ID: i})
	}
	sm.AddLane(1, 2)
	sm.AddLane(2, 3)
	sm.AddLane(3, 4)
	sm.AddLane(4, 1)

	gs := state.New(sm, time.Now().UnixNano())
	h1 := house.New(1, startingTreasury)
	h2 := house.New(2, startingTreasury)
	gs.AddHouse(h1)
	gs.AddHouse(h2)

	return engine.New(gs, cfg, techTrees)
}
