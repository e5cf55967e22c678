// Package techtree implements per-field research trees: tiers of nodes
// gated by accumulated RP (spec §3 "tech tree (per-field level +
// accumulated RP)", SPEC_FULL.md §4.12). The tiered-tree shape is adapted
// from the teacher's biology/formation trees (essences.BioTree/BioTreeState,
// ships.formation_tree.go) — the RP/node-unlock bookkeeping is identical in
// shape to their XP/node-unlock bookkeeping; the biology-specific payload
// (AoE targeting, spawn effects, status-effect stacking) has no EC4X
// equivalent and was not carried over.
package techtree

import "github.com/greenm01/ec4x/ids"

// Field is one of the four research tracks a house can invest RP into.
type Field string

const (
	FieldMilitary     Field = "military"
	FieldConstruction Field = "construction" // CST — construction technology level
	FieldEconomy      Field = "economy"
	FieldEspionage    Field = "espionage"
)

// StatMods is a set of additive/multiplicative deltas a node applies to
// derived ship/facility stats. Never applied to blueprint data in place —
// always layered on at compute time (SPEC_FULL.md §4.13).
type StatMods struct {
	AttackDelta      int     `bson:"attackDelta,omitempty" json:"attackDelta,omitempty"`
	DefenseDelta     int     `bson:"defenseDelta,omitempty" json:"defenseDelta,omitempty"`
	WEPDelta         int     `bson:"wepDelta,omitempty" json:"wepDelta,omitempty"`
	BuildCostMult    float64 `bson:"buildCostMult,omitempty" json:"buildCostMult,omitempty"`
	ProductionMult   float64 `bson:"productionMult,omitempty" json:"productionMult,omitempty"`
	DetectionBonus   float64 `bson:"detectionBonus,omitempty" json:"detectionBonus,omitempty"`
	CICBonus         int     `bson:"cicBonus,omitempty" json:"cicBonus,omitempty"`
}

// Node is a single selectable node in a tech tree. Nodes in the same tier
// do not need to be mutually exclusive (unlike the teacher's bio trees);
// EC4X research is cumulative.
type Node struct {
	ID           string   `bson:"id" json:"id"`
	Title        string   `bson:"title" json:"title"`
	Description  string   `bson:"description" json:"description"`
	RPCost       int      `bson:"rpCost" json:"rpCost"`
	Prereqs      []string `bson:"prereqs,omitempty" json:"prereqs,omitempty"` // node IDs, same field
	Effect       StatMods `bson:"effect" json:"effect"`
}

// Tree is the static definition of one field's research path: an ordered
// list of tiers, each a set of nodes.
type Tree struct {
	Field Field    `bson:"field" json:"field"`
	Tiers [][]Node `bson:"tiers" json:"tiers"`
}

// NodeByID finds a node anywhere in the tree by ID.
func (t Tree) NodeByID(id string) (Node, bool) {
	for _, tier := range t.Tiers {
		for _, n := range tier {
			if n.ID == id {
				return n, true
			}
		}
	}
	return Node{}, false
}

// State is a house's progress along one field's tree.
type State struct {
	House         ids.HouseId `bson:"house" json:"house"`
	Field         Field       `bson:"field" json:"field"`
	TotalRP       int         `bson:"totalRp" json:"totalRp"`
	SpentRP       int         `bson:"spentRp" json:"spentRp"`
	AvailableRP   int         `bson:"availableRp" json:"availableRp"`
	UnlockedNodes []string    `bson:"unlockedNodes" json:"unlockedNodes"`
}

// Level reports the house's level in this field: the count of unlocked
// nodes, matching spec §3's "per-field level" shorthand for tech level.
func (s *State) Level() int {
	return len(s.UnlockedNodes)
}

// HasUnlocked reports whether a node is already unlocked.
func (s *State) HasUnlocked(nodeID string) bool {
	for _, id := range s.UnlockedNodes {
		if id == nodeID {
			return true
		}
	}
	return false
}

// CreditRP adds research output to the pool (called from the Command
// Phase research step).
func (s *State) CreditRP(amount int) {
	if amount <= 0 {
		return
	}
	s.TotalRP += amount
	s.AvailableRP += amount
}

// CanUnlock reports whether a node can be unlocked right now: not already
// unlocked, affordable, and every prerequisite satisfied.
func (s *State) CanUnlock(tree Tree, nodeID string) bool {
	if s.HasUnlocked(nodeID) {
		return false
	}
	node, ok := tree.NodeByID(nodeID)
	if !ok {
		return false
	}
	if node.RPCost > s.AvailableRP {
		return false
	}
	for _, prereq := range node.Prereqs {
		if !s.HasUnlocked(prereq) {
			return false
		}
	}
	return true
}

// Unlock spends RP and unlocks a node. Returns false (no-op) if the node
// cannot be unlocked right now — callers downgrade to a no-op rather than
// erroring, per spec §9's "never panic on missing lookups" discipline.
func (s *State) Unlock(tree Tree, nodeID string) bool {
	if !s.CanUnlock(tree, nodeID) {
		return false
	}
	node, _ := tree.NodeByID(nodeID)
	s.AvailableRP -= node.RPCost
	s.SpentRP += node.RPCost
	s.UnlockedNodes = append(s.UnlockedNodes, nodeID)
	return true
}

// Revoke removes a node from the unlocked set without refunding RP. No
// engine path calls it: sabotage (SabotageHigh/TechTheft, §4.7) does not
// remove unlocked nodes.
func (s *State) Revoke(nodeID string) bool {
	for i, id := range s.UnlockedNodes {
		if id == nodeID {
			s.UnlockedNodes = append(s.UnlockedNodes[:i], s.UnlockedNodes[i+1:]...)
			return true
		}
	}
	return false
}

// AggregateEffect sums every unlocked node's StatMods into one combined
// delta. The espionage package reads its CICBonus.
func (s *State) AggregateEffect(tree Tree) StatMods {
	var out StatMods
	for _, id := range s.UnlockedNodes {
		node, ok := tree.NodeByID(id)
		if !ok {
			continue
		}
		out.AttackDelta += node.Effect.AttackDelta
		out.DefenseDelta += node.Effect.DefenseDelta
		out.WEPDelta += node.Effect.WEPDelta
		out.BuildCostMult += node.Effect.BuildCostMult
		out.ProductionMult += node.Effect.ProductionMult
		out.DetectionBonus += node.Effect.DetectionBonus
		out.CICBonus += node.Effect.CICBonus
	}
	return out
}

// NewState initializes empty tech progress for a house in one field.
func NewState(house ids.HouseId, field Field) *State {
	return &State{House: house, Field: field}
}
