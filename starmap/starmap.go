// Package starmap defines the read-only-after-init star map: systems and
// the jump-lane graph fleets move across (spec §3 "starMap (systems + jump
// lanes, read-only after init)"). Map generation itself is an external
// collaborator's job (spec §1); this package only holds the graph and the
// pathfinding fleet movement needs.
package starmap

import "github.com/greenm01/ec4x/ids"

// System is a node on the star map. Colonization state, defending fleets,
// and facilities live on colony.Colony (keyed by the same SystemId), not
// here — the map itself only describes topology.
type System struct {
	ID   ids.SystemId `bson:"id" json:"id"`
	Name string       `bson:"name" json:"name"`
	X    float64      `bson:"x" json:"x"`
	Y    float64      `bson:"y" json:"y"`
}

// StarMap is the immutable jump-lane graph. Constructed once at game
// start and never mutated thereafter.
type StarMap struct {
	Systems map[ids.SystemId]System          `bson:"systems" json:"systems"`
	Lanes   map[ids.SystemId][]ids.SystemId  `bson:"lanes" json:"lanes"` // adjacency, symmetric
}

// New builds an empty star map, ready to have AddSystem/AddLane called
// during init (by the external map-generation collaborator or a test).
func New() *StarMap {
	return &StarMap{
		Systems: make(map[ids.SystemId]System),
		Lanes:   make(map[ids.SystemId][]ids.SystemId),
	}
}

// AddSystem registers a system node.
func (m *StarMap) AddSystem(s System) {
	m.Systems[s.ID] = s
}

// AddLane adds a symmetric jump lane between two systems.
func (m *StarMap) AddLane(a, b ids.SystemId) {
	if !m.hasLane(a, b) {
		m.Lanes[a] = append(m.Lanes[a], b)
	}
	if !m.hasLane(b, a) {
		m.Lanes[b] = append(m.Lanes[b], a)
	}
}

func (m *StarMap) hasLane(from, to ids.SystemId) bool {
	for _, n := range m.Lanes[from] {
		if n == to {
			return true
		}
	}
	return false
}

// Exists reports whether a system ID is valid on this map (I1: "Every
// fleet's location is a valid SystemId in the star map").
func (m *StarMap) Exists(id ids.SystemId) bool {
	_, ok := m.Systems[id]
	return ok
}

// Neighbors returns the systems directly reachable in one jump from id.
// Returns nil (not a panic) for an unknown system.
func (m *StarMap) Neighbors(id ids.SystemId) []ids.SystemId {
	return m.Lanes[id]
}

// ShortestPath computes a minimum-hop path from -> to using breadth-first
// search over the jump-lane graph, including both endpoints. Returns
// (nil, false) if no path exists or either endpoint is unknown — callers
// treat this as "can't move there" rather than a fatal error.
func (m *StarMap) ShortestPath(from, to ids.SystemId) ([]ids.SystemId, bool) {
	if !m.Exists(from) || !m.Exists(to) {
		return nil, false
	}
	if from == to {
		return []ids.SystemId{from}, true
	}

	type frame struct {
		id   ids.SystemId
		path []ids.SystemId
	}
	visited := map[ids.SystemId]bool{from: true}
	queue := []frame{{id: from, path: []ids.SystemId{from}}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range m.Lanes[cur.id] {
			if visited[next] {
				continue
			}
			visited[next] = true
			nextPath := append(append([]ids.SystemId{}, cur.path...), next)
			if next == to {
				return nextPath, true
			}
			queue = append(queue, frame{id: next, path: nextPath})
		}
	}
	return nil, false
}

// HopDistance returns the number of jumps from -> to, or (-1, false) if
// unreachable.
func (m *StarMap) HopDistance(from, to ids.SystemId) (int, bool) {
	path, ok := m.ShortestPath(from, to)
	if !ok {
		return -1, false
	}
	return len(path) - 1, true
}
