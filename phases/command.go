package phases

import (
	"sort"

	"github.com/greenm01/ec4x/colony"
	"github.com/greenm01/ec4x/config"
	"github.com/greenm01/ec4x/events"
	"github.com/greenm01/ec4x/fleet"
	"github.com/greenm01/ec4x/house"
	"github.com/greenm01/ec4x/ids"
	"github.com/greenm01/ec4x/orders"
	"github.com/greenm01/ec4x/resolve"
	"github.com/greenm01/ec4x/state"
	"github.com/greenm01/ec4x/techtree"
)

// colonizationStartingPU is the population a newly founded colony starts
// with (spec S2: "winner gets a colony with 1 PU").
const colonizationStartingPU = 1

// Turn counts construction takes to complete. No teacher/spec input gives
// per-item build durations, so every build order of a kind takes the same
// fixed number of turns regardless of the colony's shipyard/drydock level
// — a documented simplification (DESIGN.md).
const (
	shipBuildTurns       = 3
	groundUnitBuildTurns = 2
	facilityBuildTurns   = 2
	repairTurns          = 2
	terraformTurns       = 10
)

// CommandPhase executes the three parts of spec §4.1 Phase 3 against
// packets the caller has already admitted. Part B's admission check (spec
// §4.2) is the caller's responsibility before RunTurn is invoked; this
// function performs Part A (commissioning, automation, colonization),
// executes Part B's zero-turn administrative orders, and performs Part
// C's bookkeeping (build/research/standing-order enqueueing and
// gs.FleetCommands/StandingCommands recording).
func CommandPhase(gs *state.GameState, packets map[ids.HouseId]orders.OrderPacket, cfg *config.GameConfig, techTrees map[techtree.Field]techtree.Tree, log *events.Log, turn int32) {
	resetTallies(gs)
	commissionCompletedProjects(gs, cfg, log, turn)
	runColonyAutomation(gs, cfg)
	resolveColonization(gs, packets, cfg, log, turn)

	for _, h := range sortedHouseIDs(gs) {
		executeZeroTurnCommands(gs, packets[h].ZeroTurnCommands, h, log, turn)
	}

	for _, h := range sortedHouseIDs(gs) {
		hse, ok := gs.House(h)
		if !ok {
			continue
		}
		packet := packets[h]
		enqueueBuildOrders(gs, packet.BuildOrders, h, cfg, log, turn)
		creditResearch(hse, packet.ResearchAllocation, techTrees, log, turn)
		installStandingOrders(gs, packet.StandingOrders, h)
		recordFleetCommands(gs, packet.FleetCommands, h)
		applyColonyManagement(gs, packet.ColonyManagement, h, log, turn)
		hse.CreditEBP(packet.EBPInvestment)
		hse.CreditCIP(packet.CIPInvestment)
	}
}

// resetTallies zeroes every house's per-turn espionage tallies before this
// turn's order execution begins (house.Tallies.Reset's documented call
// site).
func resetTallies(gs *state.GameState) {
	for _, h := range sortedHouseIDs(gs) {
		if hse, ok := gs.House(h); ok {
			hse.Tallies.Reset()
		}
	}
}

// commissionCompletedProjects turns every project the prior turn's
// Maintenance Phase finished into real entities: new single-squadron
// fleets for ships, garrisoned ground units, incremented facility counts,
// or a restored squadron for a completed repair (spec §3
// "pendingCommissions", §4.1 Part A: "commission completed projects").
func commissionCompletedProjects(gs *state.GameState, cfg *config.GameConfig, log *events.Log, turn int32) {
	for _, p := range gs.PendingCommissions {
		c, ok := gs.Colonies[p.Colony]
		if !ok {
			continue
		}
		switch p.Kind {
		case colony.ProjectShip:
			commissionShip(gs, c, config.ShipClass(p.Item), log, turn)
		case colony.ProjectGroundUnit:
			commissionGroundUnit(gs, c, config.GroundUnitClass(p.Item), log, turn)
		case colony.ProjectRepair:
			commissionRepair(gs, c, p.TargetSquadron)
		case colony.ProjectStarbase:
			c.Starbases++
		case colony.ProjectSpaceport:
			c.Spaceports++
		case colony.ProjectShipyard:
			c.Shipyards++
		case colony.ProjectDrydock:
			c.Drydocks++
		case colony.ProjectGroundBattery:
			c.GroundBatteries++
		case colony.ProjectShield:
			c.PlanetaryShield++
		}
		log.Append(events.GameEvent{Kind: events.KindProjectCompleted, Turn: turn, House: c.Owner, Colony: c.ID, Reason: string(p.Kind), StrPayload: p.Item})
	}
	gs.PendingCommissions = nil
}

func commissionShip(gs *state.GameState, c *colony.Colony, class config.ShipClass, log *events.Log, turn int32) {
	ship := fleet.Ship{ID: gs.Counters.NewShip(), Class: class}
	sq := fleet.Squadron{ID: gs.Counters.NewSquadron(), Flagship: ship, State: fleet.StateUndamaged}
	f := &fleet.Fleet{
		ID:        gs.Counters.NewFleet(),
		Owner:     c.Owner,
		Location:  c.System,
		Status:    fleet.StatusActive,
		Squadrons: []fleet.Squadron{sq},
	}
	gs.AddFleet(f)
}

func commissionGroundUnit(gs *state.GameState, c *colony.Colony, class config.GroundUnitClass, log *events.Log, turn int32) {
	u := &fleet.GroundUnit{ID: gs.Counters.NewGroundUnit(), Owner: c.Owner, Class: class}
	gs.AddGroundUnit(u)
	if class == config.ClassMarine {
		c.Marines = append(c.Marines, u.ID)
	} else {
		c.Armies = append(c.Armies, u.ID)
	}
}

func commissionRepair(gs *state.GameState, c *colony.Colony, target ids.SquadronId) {
	for _, fid := range gs.FleetsByLocation(c.System) {
		f, ok := gs.Fleets[fid]
		if !ok || f.Owner != c.Owner {
			continue
		}
		for i := range f.Squadrons {
			if f.Squadrons[i].ID == target {
				f.Squadrons[i].State = fleet.StateUndamaged
				return
			}
		}
	}
}

// runColonyAutomation performs the two automation bullets of spec §4.1
// Part A: embarking stationed fighter squadrons into friendly carriers
// with spare hangar capacity, and queueing repair for crippled squadrons
// docked at a colony with a working drydock.
func runColonyAutomation(gs *state.GameState, cfg *config.GameConfig) {
	for _, c := range ownedSortedColonies(gs) {
		autoLoadFighters(gs, c, cfg)
		if c.Drydocks > 0 {
			autoRepair(gs, c, cfg)
		}
	}
}

func ownedSortedColonies(gs *state.GameState) []*colony.Colony {
	var out []*colony.Colony
	for _, c := range gs.Colonies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func autoLoadFighters(gs *state.GameState, c *colony.Colony, cfg *config.GameConfig) {
	if c.FighterSquadrons <= 0 {
		return
	}
	for _, f := range fleetsAt(gs, c.System) {
		if f.Owner != c.Owner {
			continue
		}
		for i := range f.Squadrons {
			sq := &f.Squadrons[i]
			if sq.State == fleet.StateDestroyed {
				continue
			}
			for sq.WithinHangarCapacity(cfg) && c.FighterSquadrons > 0 {
				sq.EmbarkedFighters = append(sq.EmbarkedFighters, fleet.Ship{ID: gs.Counters.NewShip(), Class: config.ClassFighter})
				c.FighterSquadrons--
				if !sq.WithinHangarCapacity(cfg) {
					sq.EmbarkedFighters = sq.EmbarkedFighters[:len(sq.EmbarkedFighters)-1]
					c.FighterSquadrons++
					break
				}
			}
		}
	}
}

func autoRepair(gs *state.GameState, c *colony.Colony, cfg *config.GameConfig) {
	queued := make(map[ids.SquadronId]bool)
	for _, p := range c.RepairQueue {
		queued[p.TargetSquadron] = true
	}
	for _, f := range fleetsAt(gs, c.System) {
		if f.Owner != c.Owner {
			continue
		}
		for i := range f.Squadrons {
			sq := &f.Squadrons[i]
			if sq.State != fleet.StateCrippled || queued[sq.ID] {
				continue
			}
			c.RepairQueue = append(c.RepairQueue, colony.ConstructionProject{
				Kind: colony.ProjectRepair, TurnsRemaining: repairTurns, TargetSquadron: sq.ID,
			})
			queued[sq.ID] = true
		}
	}
}

// resolveColonization resolves every Colonize order this turn via the
// Simultaneous Resolver (spec §4.4/S2): intents are grouped by the
// colonizing fleet's current system (a fleet colonizes where it already
// sits, having arrived on a prior turn's movement), strength is each
// fleet's attack total — which is 0 for pure-ETAC fleets, so two
// unescorted colonizer fleets tie and fall to the deterministic coin-flip
// exactly as spec S2 describes. The loser's fleet is auto-rerouted toward
// the nearest other uncolonized system it can reach (StandingAutoColonize).
func resolveColonization(gs *state.GameState, packets map[ids.HouseId]orders.OrderPacket, cfg *config.GameConfig, log *events.Log, turn int32) {
	type claim struct {
		house ids.HouseId
		fleet ids.FleetId
	}
	bySystem := make(map[ids.SystemId][]resolve.Intent[claim])
	for _, h := range sortedHouseIDs(gs) {
		for _, cmd := range packets[h].FleetCommands {
			if cmd.Kind != orders.CmdColonize {
				continue
			}
			f, ok := gs.Fleets[cmd.Fleet]
			if !ok || f.Owner != h {
				continue
			}
			// A Colonize order only resolves once the fleet has actually
			// reached its target system — Maintenance Phase moves it one
			// hop per turn toward cmd.Target, so a fleet still en route
			// must not found a colony at whatever system it currently
			// occupies. An order with no Target set means "colonize here".
			target := cmd.Target
			if target == ids.SystemId(0) {
				target = f.Location
			}
			if f.Location != target {
				continue
			}
			if _, colonized := gs.ColonyBySystem(f.Location); colonized {
				continue
			}
			bySystem[f.Location] = append(bySystem[f.Location], resolve.Intent[claim]{
				Value:    claim{house: h, fleet: f.ID},
				Strength: float64(fleetAttackStrength(f, cfg)),
			})
		}
	}

	systems := make(map[ids.SystemId]struct{}, len(bySystem))
	for sys := range bySystem {
		systems[sys] = struct{}{}
	}
	for _, sys := range sortedSystemIDs(systems) {
		intents := bySystem[sys]
		outcome, ok := resolve.Resolve(intents, gs.Seed, turn, int64(sys))
		if !ok {
			continue
		}

		c := &colony.Colony{
			ID:         gs.Counters.NewColony(),
			Owner:      outcome.Winner.Value.house,
			System:     sys,
			Population: colony.Population{Units: colonizationStartingPU, Souls: colonizationStartingPU},
		}
		gs.AddColony(c)
		log.Append(events.GameEvent{Kind: events.KindColonyFounded, Turn: turn, House: c.Owner, System: sys, Colony: c.ID})

		for _, in := range intents {
			if in.Value.fleet == outcome.Winner.Value.fleet {
				continue
			}
			log.Append(events.GameEvent{Kind: events.KindConflictLost, Turn: turn, House: in.Value.house, System: sys, Reason: "colonization"})
			if next, ok := bfsNearestMatch(gs.StarMap, sys, func(candidate ids.SystemId) bool {
				if candidate == sys {
					return false
				}
				_, has := gs.ColonyBySystem(candidate)
				return !has
			}); ok {
				gs.FleetCommands[in.Value.fleet] = orders.FleetCommand{Fleet: in.Value.fleet, Kind: orders.CmdColonize, Target: next}
				gs.StandingCommands[in.Value.fleet] = orders.StandingCommand{Fleet: in.Value.fleet, Kind: orders.StandingAutoColonize}
			}
		}
	}
}

// executeZeroTurnCommands runs Part B's synchronous administrative orders
// (spec §6's 7 ZeroTurnKinds). Every op is a no-op (silently skipped,
// spec §9's "never panic on missing lookups") if its fleets/squadrons
// aren't owned by h or can't be found — admission is the caller's job;
// this is defensive re-validation at execution time (spec §4.2).
func executeZeroTurnCommands(gs *state.GameState, cmds []orders.ZeroTurnCommand, h ids.HouseId, log *events.Log, turn int32) {
	for _, cmd := range cmds {
		src, ok := gs.Fleets[cmd.SourceFleet]
		if !ok || src.Owner != h {
			continue
		}
		switch cmd.Kind {
		case orders.ZeroTurnDetachShips:
			detachSquadron(gs, src, cmd.Squadron, h)
		case orders.ZeroTurnTransferShips, orders.ZeroTurnAssignSquadronToFleet:
			dst, ok := gs.Fleets[cmd.TargetFleet]
			if !ok || dst.Owner != h || dst.Location != src.Location {
				continue
			}
			moveSquadron(src, dst, cmd.Squadron)
		case orders.ZeroTurnMergeFleets:
			dst, ok := gs.Fleets[cmd.TargetFleet]
			if !ok || dst.Owner != h || dst.Location != src.Location {
				continue
			}
			for _, sq := range src.Squadrons {
				dst.Squadrons = append(dst.Squadrons, sq)
			}
			src.Squadrons = nil
			gs.RemoveFleet(src.ID)
			log.Append(events.GameEvent{Kind: events.KindOrderCompleted, Turn: turn, House: h, Fleet: dst.ID, Reason: "mergeFleets"})
		case orders.ZeroTurnLoadCargo:
			loadCargo(gs, src, cmd.Ship, cmd.GroundUnit, h)
		case orders.ZeroTurnUnloadCargo:
			unloadCargo(gs, src, cmd.Ship, cmd.GroundUnit)
		case orders.ZeroTurnTransferShipBetweenSquadrons:
			dst, ok := gs.Fleets[cmd.TargetFleet]
			if !ok || dst.Owner != h {
				continue
			}
			transferShipBetweenSquadrons(src, dst, cmd.Ship, cmd.Squadron)
		}
	}
}

func findSquadronIndex(f *fleet.Fleet, id ids.SquadronId) int {
	for i := range f.Squadrons {
		if f.Squadrons[i].ID == id {
			return i
		}
	}
	return -1
}

// moveSquadron relocates one squadron from src to dst, used by
// TransferShips and AssignSquadronToFleet.
func moveSquadron(src, dst *fleet.Fleet, id ids.SquadronId) bool {
	idx := findSquadronIndex(src, id)
	if idx == -1 {
		return false
	}
	sq := src.Squadrons[idx]
	dst.Squadrons = append(dst.Squadrons, sq)
	src.Squadrons = append(src.Squadrons[:idx], src.Squadrons[idx+1:]...)
	return true
}

// detachSquadron splits one squadron off src into a brand-new fleet at the
// same location. Detaching at ship granularity within a squadron is out of
// scope — this engine's Squadron is the smallest unit a fleet can be split
// along.
func detachSquadron(gs *state.GameState, src *fleet.Fleet, id ids.SquadronId, h ids.HouseId) {
	idx := findSquadronIndex(src, id)
	if idx == -1 {
		return
	}
	sq := src.Squadrons[idx]
	src.Squadrons = append(src.Squadrons[:idx], src.Squadrons[idx+1:]...)
	gs.AddFleet(&fleet.Fleet{
		ID:        gs.Counters.NewFleet(),
		Owner:     h,
		Location:  src.Location,
		Status:    src.Status,
		Squadrons: []fleet.Squadron{sq},
	})
}

func findSpaceliftIndex(f *fleet.Fleet, ship ids.ShipId) int {
	for i := range f.Spacelift {
		if f.Spacelift[i].ID == ship {
			return i
		}
	}
	return -1
}

func loadCargo(gs *state.GameState, f *fleet.Fleet, ship ids.ShipId, unit ids.GroundUnitId, h ids.HouseId) {
	idx := findSpaceliftIndex(f, ship)
	if idx == -1 {
		return
	}
	u, ok := gs.GroundUnit(unit)
	if !ok || u.Owner != h {
		return
	}
	if c, ok := gs.ColonyBySystem(f.Location); ok {
		c.Armies = removeGroundUnit(c.Armies, unit)
		c.Marines = removeGroundUnit(c.Marines, unit)
	}
	f.Spacelift[idx].Cargo = append(f.Spacelift[idx].Cargo, unit)
}

func unloadCargo(gs *state.GameState, f *fleet.Fleet, ship ids.ShipId, unit ids.GroundUnitId) {
	idx := findSpaceliftIndex(f, ship)
	if idx == -1 {
		return
	}
	f.Spacelift[idx].Cargo = removeGroundUnit(f.Spacelift[idx].Cargo, unit)
	c, ok := gs.ColonyBySystem(f.Location)
	if !ok {
		return
	}
	u, ok := gs.GroundUnit(unit)
	if !ok {
		return
	}
	if u.Class == config.ClassMarine {
		c.Marines = append(c.Marines, unit)
	} else {
		c.Armies = append(c.Armies, unit)
	}
}

func removeGroundUnit(list []ids.GroundUnitId, id ids.GroundUnitId) []ids.GroundUnitId {
	for i, g := range list {
		if g == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func transferShipBetweenSquadrons(src, dst *fleet.Fleet, ship ids.ShipId, dstSquadron ids.SquadronId) {
	dstIdx := findSquadronIndex(dst, dstSquadron)
	if dstIdx == -1 {
		return
	}
	for si := range src.Squadrons {
		sq := &src.Squadrons[si]
		for ei, e := range sq.Escorts {
			if e.ID == ship {
				sq.Escorts = append(sq.Escorts[:ei], sq.Escorts[ei+1:]...)
				dst.Squadrons[dstIdx].Escorts = append(dst.Squadrons[dstIdx].Escorts, e)
				return
			}
		}
	}
}

// classifyBuildItem maps a BuildOrder's free-form Item string onto a
// construction-queue kind: a known ship class, ground-unit class, or
// facility-kind literal.
func classifyBuildItem(item string, cfg *config.GameConfig) (colony.ProjectKind, int, bool) {
	if _, ok := cfg.ShipStatsFor(config.ShipClass(item)); ok {
		return colony.ProjectShip, shipBuildTurns, true
	}
	if _, ok := cfg.GroundUnitStatsFor(config.GroundUnitClass(item)); ok {
		return colony.ProjectGroundUnit, groundUnitBuildTurns, true
	}
	switch colony.ProjectKind(item) {
	case colony.ProjectStarbase, colony.ProjectSpaceport, colony.ProjectShipyard,
		colony.ProjectDrydock, colony.ProjectGroundBattery, colony.ProjectShield:
		return colony.ProjectKind(item), facilityBuildTurns, true
	}
	return "", 0, false
}

// enqueueBuildOrders queues every admitted BuildOrder onto its colony's
// construction queue (spec §4.1 Part C: "enqueue build orders").
func enqueueBuildOrders(gs *state.GameState, buildOrders []orders.BuildOrder, h ids.HouseId, cfg *config.GameConfig, log *events.Log, turn int32) {
	for _, order := range buildOrders {
		c, ok := gs.Colonies[order.Colony]
		if !ok || c.Owner != h {
			continue
		}
		kind, duration, ok := classifyBuildItem(order.Item, cfg)
		if !ok {
			log.Append(events.GameEvent{Kind: events.KindOrderRejected, Turn: turn, House: h, Colony: c.ID, Reason: "unknown build item " + order.Item})
			continue
		}
		for i := 0; i < order.Count; i++ {
			c.ConstructionQueue = append(c.ConstructionQueue, colony.ConstructionProject{Kind: kind, Item: order.Item, TurnsRemaining: duration})
		}
	}
}

// creditResearch credits this turn's PP allocation directly into RP (1:1;
// no separate RP-conversion-rate parameter exists to convert otherwise),
// then greedily auto-unlocks the cheapest affordable node repeatedly until
// none remain — absent a field in OrderPacket naming which specific node
// a house wants, unlocking cheapest-first spends the pool predictably
// without ever leaving affordable RP stranded.
func creditResearch(hse *house.House, alloc map[string]int, techTrees map[techtree.Field]techtree.Tree, log *events.Log, turn int32) {
	fields := make([]string, 0, len(alloc))
	for f := range alloc {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, fieldName := range fields {
		field := techtree.Field(fieldName)
		tree, ok := techTrees[field]
		if !ok {
			continue
		}
		techState := hse.TechState(field)
		techState.CreditRP(alloc[fieldName])
		for {
			nodeID, ok := cheapestAffordableNode(techState, tree)
			if !ok {
				break
			}
			techState.Unlock(tree, nodeID)
			log.Append(events.GameEvent{Kind: events.KindTechUnlocked, Turn: turn, House: hse.ID, Reason: fieldName, StrPayload: nodeID})
		}
	}
}

func cheapestAffordableNode(s *techtree.State, tree techtree.Tree) (string, bool) {
	best := ""
	bestCost := -1
	for _, tier := range tree.Tiers {
		for _, n := range tier {
			if !s.CanUnlock(tree, n.ID) {
				continue
			}
			if bestCost == -1 || n.RPCost < bestCost || (n.RPCost == bestCost && n.ID < best) {
				best = n.ID
				bestCost = n.RPCost
			}
		}
	}
	if bestCost == -1 {
		return "", false
	}
	return best, true
}

// installStandingOrders replaces a fleet's persistent directive (spec §4.1
// Part C: "install standing orders").
func installStandingOrders(gs *state.GameState, cmds []orders.StandingCommand, h ids.HouseId) {
	for _, cmd := range cmds {
		f, ok := gs.Fleets[cmd.Fleet]
		if !ok || f.Owner != h {
			continue
		}
		gs.StandingCommands[cmd.Fleet] = cmd
	}
}

// recordFleetCommands stores this turn's admitted fleet commands into
// gs.FleetCommands for next turn's standing-order re-evaluation and for
// Maintenance Phase's movement executor (spec §4.1 Part C: "store
// combat/movement orders for next-turn execution"). A fleet already
// carrying a Seek-Home order this turn — assigned during Conflict Phase's
// retreat handling (spec §4.5) — keeps it rather than being overwritten by
// whatever order the house originally submitted for it: once retreating,
// a fleet stays retreating for the turn regardless of its standing order.
func recordFleetCommands(gs *state.GameState, cmds []orders.FleetCommand, h ids.HouseId) {
	for _, cmd := range cmds {
		f, ok := gs.Fleets[cmd.Fleet]
		if !ok || f.Owner != h {
			continue
		}
		if existing, has := gs.FleetCommands[cmd.Fleet]; has && existing.Kind == orders.CmdSeekHome {
			continue
		}
		gs.FleetCommands[cmd.Fleet] = cmd
	}
}

// applyColonyManagement applies per-colony administrative settings: tax
// rate and terraform initiation (spec §6 ColonyManagementKind).
func applyColonyManagement(gs *state.GameState, actions []orders.ColonyManagementAction, h ids.HouseId, log *events.Log, turn int32) {
	for _, action := range actions {
		c, ok := gs.Colonies[action.Colony]
		if !ok || c.Owner != h {
			continue
		}
		switch action.Kind {
		case orders.ManageSetTaxRate:
			rate := action.Value
			if rate < 0 {
				rate = 0
			}
			if rate > 1 {
				rate = 1
			}
			c.TaxRate = rate
		case orders.ManageStartTerraform:
			if c.Terraform != nil {
				log.Append(events.GameEvent{Kind: events.KindOrderRejected, Turn: turn, House: h, Colony: c.ID, Reason: "terraform already in progress"})
				continue
			}
			c.Terraform = &colony.TerraformProject{TargetClass: action.TargetClass, TurnsRemaining: terraformTurns}
		}
	}
}
