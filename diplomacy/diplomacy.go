// Package diplomacy tracks pairwise diplomatic relations between houses
// and enforces the escalate-only transition policy of spec §4.8.
//
// Adapted from the teacher's diplomacy package (state.go/provider.go/
// memory_provider.go): the relation table becomes a per-house Table (one
// house's view of every other house), keyed by ids.HouseId instead of
// bson.ObjectID, with no Provider interface; and Relation gains Neutral/Hostile (the teacher only
// modeled Ally/Enemy/Ceasefire for a live MMO's alliance system; EC4X
// needs the full Neutral->Hostile->Enemy escalation ladder of spec §4.8).
package diplomacy

import "github.com/greenm01/ec4x/ids"

// Relation is a pairwise diplomatic state. Ordered so that "escalation"
// (spec §4.8: "states only escalate, never downgrade implicitly") can be
// expressed as a monotonic comparison for the automatic-escalation paths
// (e.g. spy-scout detection). Direct player actions (DeclareHostile,
// DeclareEnemy, SetNeutral) may still set any value explicitly.
type Relation int

const (
	RelationNeutral Relation = iota
	RelationHostile
	RelationEnemy
)

func (r Relation) String() string {
	switch r {
	case RelationNeutral:
		return "Neutral"
	case RelationHostile:
		return "Hostile"
	case RelationEnemy:
		return "Enemy"
	default:
		return "Unknown"
	}
}

// Table holds one house's view of its relation to every other house.
// Per spec S6, relations are tracked per-relation (per directed pair from
// a house's own perspective), not globally symmetric: "the symmetric
// relation H2<->H1 in H1's table is not auto-changed".
type Table struct {
	House     ids.HouseId                    `bson:"house" json:"house"`
	Relations map[ids.HouseId]Relation       `bson:"relations" json:"relations"`
}

// NewTable builds an empty relation table for a house; unlisted houses
// default to Neutral (see RelationWith).
func NewTable(house ids.HouseId) *Table {
	return &Table{House: house, Relations: make(map[ids.HouseId]Relation)}
}

// RelationWith returns the current relation from this table's house
// toward other. Absent entries default to Neutral rather than panicking.
func (t *Table) RelationWith(other ids.HouseId) Relation {
	if r, ok := t.Relations[other]; ok {
		return r
	}
	return RelationNeutral
}

// TransitionResult is emitted whenever a relation actually changes, for
// the DiplomaticRelationChanged event (spec §4.8/S6).
type TransitionResult struct {
	Changed bool
	From    Relation
	To      Relation
}

// Escalate raises the relation toward other to at least min, never
// downgrading an existing stronger relation (e.g. never demotes Enemy to
// Hostile). Used by automatic escalation paths such as spy-scout
// detection (S6: "transitions to Hostile ... never demotes Enemy").
func (t *Table) Escalate(other ids.HouseId, min Relation) TransitionResult {
	current := t.RelationWith(other)
	if current >= min {
		return TransitionResult{Changed: false, From: current, To: current}
	}
	t.Relations[other] = min
	return TransitionResult{Changed: true, From: current, To: min}
}

// SetExplicit sets the relation unconditionally — used by direct player
// actions (DeclareHostile, DeclareEnemy, SetNeutral) which may move the
// relation in either direction, unlike automatic escalation.
func (t *Table) SetExplicit(other ids.HouseId, to Relation) TransitionResult {
	current := t.RelationWith(other)
	if current == to {
		return TransitionResult{Changed: false, From: current, To: current}
	}
	t.Relations[other] = to
	return TransitionResult{Changed: true, From: current, To: to}
}

// AreEnemies reports whether the two houses are mutually hostile enough
// to permit combat: enemy from either side's perspective, or both
// hostile. Combat-eligibility callers (Combat Engine task-force assembly)
// use this rather than inspecting a single table directly.
func AreEnemies(a, b *Table) bool {
	ra := a.RelationWith(b.House)
	rb := b.RelationWith(a.House)
	if ra == RelationEnemy || rb == RelationEnemy {
		return true
	}
	return ra == RelationHostile && rb == RelationHostile
}
