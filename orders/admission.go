package orders

import (
	"github.com/greenm01/ec4x/events"
	"github.com/greenm01/ec4x/ids"
)

// FleetOwner resolves a fleet's current owner, mirroring the signature
// every package in this engine uses for a "look up, don't panic" index
// read (state.GameState.Fleets). Kept as a function type here so Admit does
// not need to import state (which itself imports orders), avoiding an
// import cycle.
type FleetOwner func(ids.FleetId) (ids.HouseId, bool)

// ColonyOwner resolves a colony's current owner the same way.
type ColonyOwner func(ids.ColonyId) (ids.HouseId, bool)

// Admit runs the synchronous admission check of spec §4.2/§4.1 Command
// Phase Part B: every order referencing a fleet or colony house h does
// not currently own is dropped from the packet and reported as
// OrderRejected, before the packet ever reaches Conflict/Command/
// Maintenance execution.
//
// Capacity admission (dock capacity, Planet-Breaker <= 1, capital/total
// squadron caps — spec §4.10) is deliberately not duplicated here: it
// already runs as a post-hoc enforcement pass once per house every Income
// Phase (capacity.EnforceCapital/EnforceTotalSquadrons/EnforceFighters/
// EnforcePlanetBreakers, wired in phases/income.go). Admission-time
// capacity rejection would require simulating the command-cost effect of
// an entire pending order batch before any of it executes; the engine
// instead lets a turn's orders land and corrects over-cap state
// immediately afterward with a grace period, which spec §4.10 already
// specifies as the steady-state mechanism.
func Admit(packet OrderPacket, fleetOwner FleetOwner, colonyOwner ColonyOwner, log *events.Log, turn int32) OrderPacket {
	h := packet.House
	admitted := packet

	admitted.FleetCommands = filterFleetCommands(packet.FleetCommands, h, fleetOwner, log, turn)
	admitted.ZeroTurnCommands = filterZeroTurnCommands(packet.ZeroTurnCommands, h, fleetOwner, log, turn)
	admitted.StandingOrders = filterStandingCommands(packet.StandingOrders, h, fleetOwner, log, turn)
	admitted.BuildOrders = filterBuildOrders(packet.BuildOrders, h, colonyOwner, log, turn)
	admitted.ColonyManagement = filterColonyManagement(packet.ColonyManagement, h, colonyOwner, log, turn)
	admitted.PopulationTransfers = filterPopulationTransfers(packet.PopulationTransfers, h, colonyOwner, log, turn)

	return admitted
}

func reject(log *events.Log, turn int32, h ids.HouseId, reason string) {
	log.Append(events.GameEvent{Kind: events.KindOrderRejected, Turn: turn, House: h, Reason: reason})
}

func filterFleetCommands(cmds []FleetCommand, h ids.HouseId, owner FleetOwner, log *events.Log, turn int32) []FleetCommand {
	var out []FleetCommand
	for _, cmd := range cmds {
		o, ok := owner(cmd.Fleet)
		if !ok || o != h {
			reject(log, turn, h, "fleet command against unowned or unknown fleet")
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func filterZeroTurnCommands(cmds []ZeroTurnCommand, h ids.HouseId, owner FleetOwner, log *events.Log, turn int32) []ZeroTurnCommand {
	var out []ZeroTurnCommand
	for _, cmd := range cmds {
		o, ok := owner(cmd.SourceFleet)
		if !ok || o != h {
			reject(log, turn, h, "zero-turn command against unowned or unknown source fleet")
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func filterStandingCommands(cmds []StandingCommand, h ids.HouseId, owner FleetOwner, log *events.Log, turn int32) []StandingCommand {
	var out []StandingCommand
	for _, cmd := range cmds {
		o, ok := owner(cmd.Fleet)
		if !ok || o != h {
			reject(log, turn, h, "standing order against unowned or unknown fleet")
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func filterBuildOrders(cmds []BuildOrder, h ids.HouseId, owner ColonyOwner, log *events.Log, turn int32) []BuildOrder {
	var out []BuildOrder
	for _, cmd := range cmds {
		o, ok := owner(cmd.Colony)
		if !ok || o != h {
			reject(log, turn, h, "build order against unowned or unknown colony")
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func filterColonyManagement(actions []ColonyManagementAction, h ids.HouseId, owner ColonyOwner, log *events.Log, turn int32) []ColonyManagementAction {
	var out []ColonyManagementAction
	for _, a := range actions {
		o, ok := owner(a.Colony)
		if !ok || o != h {
			reject(log, turn, h, "colony management action against unowned or unknown colony")
			continue
		}
		out = append(out, a)
	}
	return out
}

func filterPopulationTransfers(transfers []PopulationTransfer, h ids.HouseId, owner ColonyOwner, log *events.Log, turn int32) []PopulationTransfer {
	var out []PopulationTransfer
	for _, t := range transfers {
		fromOwner, ok := owner(t.From)
		if !ok || fromOwner != h {
			reject(log, turn, h, "population transfer from unowned or unknown colony")
			continue
		}
		toOwner, ok := owner(t.To)
		if !ok || toOwner != h {
			reject(log, turn, h, "population transfer to unowned or unknown colony")
			continue
		}
		out = append(out, t)
	}
	return out
}
