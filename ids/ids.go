// Package ids defines the opaque integer-wrapped identifier newtypes used
// throughout the engine. IDs are never recycled within a game: each one is
// handed out by a monotonic per-game counter (see Counters) and remains
// valid (if looked up) or simply absent forever after (P8).
package ids

import "fmt"

// HouseId identifies a player's house for the lifetime of a game.
type HouseId int32

// SystemId identifies a star system on the read-only star map.
type SystemId int32

// ColonyId identifies a colony. Colonies are essentially never destroyed
// (see spec lifecycle notes); ownership is reassigned instead.
type ColonyId int32

// FleetId identifies a fleet. Destroyed by combat, salvage, or absorption.
type FleetId int32

// SquadronId identifies a squadron within a fleet.
type SquadronId int32

// ShipId identifies an individual ship (or fighter) within a squadron.
type ShipId int32

// GroundUnitId identifies an army or marine unit garrisoned at a colony or
// embarked as cargo aboard a spacelift ship.
type GroundUnitId int32

func (h HouseId) String() string       { return fmt.Sprintf("H%d", int32(h)) }
func (s SystemId) String() string      { return fmt.Sprintf("S%d", int32(s)) }
func (c ColonyId) String() string      { return fmt.Sprintf("C%d", int32(c)) }
func (f FleetId) String() string       { return fmt.Sprintf("F%d", int32(f)) }
func (sq SquadronId) String() string   { return fmt.Sprintf("Q%d", int32(sq)) }
func (sh ShipId) String() string       { return fmt.Sprintf("SH%d", int32(sh)) }
func (g GroundUnitId) String() string  { return fmt.Sprintf("G%d", int32(g)) }

// Invalid is the zero value shared by every ID newtype; it never denotes a
// real entity. Lookups against it must return "absent", never panic.
const Invalid = 0

// Counters hands out monotonically increasing IDs per category for a
// single game. It is embedded in GameState so that every ID minted across
// a game's lifetime is unique, even after the entity it named is removed.
type Counters struct {
	NextColony     int32 `bson:"nextColony" json:"nextColony"`
	NextFleet      int32 `bson:"nextFleet" json:"nextFleet"`
	NextSquadron   int32 `bson:"nextSquadron" json:"nextSquadron"`
	NextShip       int32 `bson:"nextShip" json:"nextShip"`
	NextGroundUnit int32 `bson:"nextGroundUnit" json:"nextGroundUnit"`
}

func (c *Counters) NewColony() ColonyId {
	c.NextColony++
	return ColonyId(c.NextColony)
}

func (c *Counters) NewFleet() FleetId {
	c.NextFleet++
	return FleetId(c.NextFleet)
}

func (c *Counters) NewSquadron() SquadronId {
	c.NextSquadron++
	return SquadronId(c.NextSquadron)
}

func (c *Counters) NewShip() ShipId {
	c.NextShip++
	return ShipId(c.NextShip)
}

func (c *Counters) NewGroundUnit() GroundUnitId {
	c.NextGroundUnit++
	return GroundUnitId(c.NextGroundUnit)
}
