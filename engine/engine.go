// Package engine exposes the single entrypoint that turns a batch of
// per-house order packets and a GameState into a resolved turn (spec §2:
// "a pure, deterministic library — no network, no persistence, no
// scheduling of its own"). Everything else in this module is wired
// together here: admission (orders.Admit), the four-phase pipeline
// (phases.RunTurn), and the one fatal-failure boundary spec §7 requires.
package engine

import (
	"fmt"

	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/enginefail"
	"github.com/greenm01/ec4x/events"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/intel"
	"github.com/greenm01/ec4x/log"
	"github.com/greenm01/ec4x/orders"
	"github.com/greenm01/ec4x/phases"
	"github.com/greenm01/ec4x/starmap"
	"github.com/greenm01/ec4x/state"
	"github.com/greenm01/ec4x/techtree"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Engine owns one game's authoritative GameState plus the per-house
// intelligence views that persist turn to turn (spec §4.11: a house's
// view only ever accumulates what it has scouted, so it must outlive any
// single ResolveTurn call).
type Engine struct {
	state     *state.GameState
	cfg       *config.GameConfig
	techTrees map[techtree.Field]techtree.Tree
	views     map[ids.HouseId]*intel.View
}

// New constructs an Engine around an already-initialized GameState. cfg
// and techTrees are shared read-only across every turn; views starts
// empty and is populated lazily as houses are first synthesized against
// (mirroring phases.RunTurn's own lazy-init of unseen house views).
func New(gs *state.GameState, cfg *config.GameConfig, techTrees map[techtree.Field]techtree.Tree) *Engine {
	return &Engine{
		state:     gs,
		cfg:       cfg,
		techTrees: techTrees,
		views:     make(map[ids.HouseId]*intel.View),
	}
}

// State returns the engine's authoritative GameState for read access
// (e.g. rendering, snapshotting). Callers must not mutate it directly;
// all mutation flows through ResolveTurn.
func (e *Engine) State() *state.GameState {
	return e.state
}

// StarMap exposes the underlying jump-lane graph, needed by callers that
// build order packets (movement targets, patrol routes) against it.
func (e *Engine) StarMap() *starmap.StarMap {
	return e.state.StarMap
}

// fleetOwner and colonyOwner adapt this engine's GameState indices to the
// function types orders.Admit needs, without orders importing state
// (state already imports orders, so the reverse would cycle).
func (e *Engine) fleetOwner(id ids.FleetId) (ids.HouseId, bool) {
	f, ok := e.state.Fleets[id]
	if !ok {
		return 0, false
	}
	return f.Owner, true
}

func (e *Engine) colonyOwner(id ids.ColonyId) (ids.HouseId, bool) {
	c, ok := e.state.Colonies[id]
	if !ok {
		return 0, false
	}
	return c.Owner, true
}

// ResolveTurn admits every house's packet (spec §4.2), then runs it
// through the four-phase pipeline (spec §4.1) directly on the engine's
// state, restoring a pre-turn snapshot if the turn panics.
//
// A panic anywhere beneath this call — the engine's only recover() site
// (spec §7) — is caught here, converted to an *enginefail.Error, and the
// pre-turn GameState is restored from the bson round-trip snapshot taken
// before phases.RunTurn ran, so "no partial state is committed" holds
// even though GameState is mutated in place by every phase. mongo-driver
// bson is already this module's struct-tag serialization library
// (state/*.go tag every persisted field with `bson:"..."`), so a
// Marshal/Unmarshal round trip is the natural deep-copy mechanism rather
// than hand-writing a Clone method across a dozen packages.
func (e *Engine) ResolveTurn(packets map[ids.HouseId]orders.OrderPacket) (result phases.TurnResult, err error) {
	turn := e.state.Turn

	snapshot, marshalErr := bson.Marshal(e.state)
	if marshalErr != nil {
		return phases.TurnResult{}, enginefail.New(turn, enginefail.CodeInvariantViolation, fmt.Errorf("snapshot GameState: %w", marshalErr))
	}

	defer func() {
		if r := recover(); r != nil {
			if restoreErr := bson.Unmarshal(snapshot, e.state); restoreErr != nil {
				log.GetLogger().Error("engine failure AND snapshot restore failed; state may be corrupt",
					log.F("turn", turn), log.F("panic", r), log.F("restoreError", restoreErr))
			} else {
				log.GetLogger().Error("engine failure recovered, state restored to pre-turn snapshot",
					log.F("turn", turn), log.F("panic", r))
			}
			err = enginefail.FromRecover(turn, r)
			result = phases.TurnResult{}
		}
	}()

	admissionLog := &events.Log{}
	admitted := make(map[ids.HouseId]orders.OrderPacket, len(packets))
	for _, h := range sortedPacketHouses(packets) {
		admitted[h] = orders.Admit(packets[h], e.fleetOwner, e.colonyOwner, admissionLog, turn)
	}

	result = phases.RunTurn(e.state, admitted, e.cfg, e.techTrees, e.views)
	result.Events = append(admissionLog.All(), result.Events...)

	for _, ev := range result.Events {
		logOrderFailure(ev, turn)
	}

	return result, nil
}

// sortedPacketHouses returns the house IDs present in packets in
// ascending order, so admission runs in deterministic order turn over
// turn regardless of Go's randomized map iteration (spec P9).
func sortedPacketHouses(packets map[ids.HouseId]orders.OrderPacket) []ids.HouseId {
	out := make([]ids.HouseId, 0, len(packets))
	for h := range packets {
		out = append(out, h)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// logOrderFailure surfaces failure-class GameEvents through the logging
// surface (spec §6 expansion: "every failure/capacity-violation/
// engine-failure GameEvent is also logged through this package at
// Warn/Error"). Success-class events stay in the turn log only; they are
// the player-facing record, not an operational signal.
func logOrderFailure(ev events.GameEvent, turn int32) {
	switch ev.Kind {
	case events.KindOrderRejected, events.KindOrderFailed, events.KindOrderAborted:
		log.GetLogger().Warn("order not applied", log.F("turn", turn), log.F("house", ev.House), log.F("reason", ev.Reason))
	case events.KindCapitalShipSeized, events.KindSquadronDisbanded, events.KindFighterDisbanded, events.KindPlanetBreakerScrapped, events.KindMaintenanceShortfall:
		log.GetLogger().Warn("capacity enforcement applied", log.F("turn", turn), log.F("house", ev.House), log.F("kind", string(ev.Kind)))
	}
}
