// Package resolve implements the generic Simultaneous Resolver of spec
// §4.4: a conflict-resolution kernel parameterized on an intent type and
// a strength projector, reused by colonization, planetary-combat
// priority, blockade, and espionage-priority resolution.
//
// New to this codebase — the teacher (a live-tick MMO) has no analogue
// for resolving N simultaneous competing intents against one target; this
// is grounded directly in spec §4.4's three-step algorithm, using
// rngseed for the deterministic tiebreak (spec §5/§9).
package resolve

import "github.com/greenm01/ec4x/rngseed"

// Intent is one house's competing claim on a target. T is typically an
// ids.SystemId, ids.ColonyId, or similar target identifier.
type Intent[T any] struct {
	Value    T
	Strength float64
}

// Outcome reports the result of resolving one group of intents sharing a
// target: the winning intent and whether it won by strict majority or by
// tiebreak.
type Outcome[T any] struct {
	Winner      Intent[T]
	WasTiebreak bool
}

// Resolve runs the three-step algorithm of spec §4.4 against one group of
// intents competing for the same target:
//  1. Sort descending by strength.
//  2. If one is strictly maximal, it wins.
//  3. Otherwise, seed a deterministic RNG from (turn, targetID) and pick
//     uniformly among the tied-for-first intents.
//
// Returns (Outcome{}, false) for an empty slate — callers treat "no
// contenders" as a no-op, not an error.
func Resolve[T any](intents []Intent[T], gameSeed int64, turn int32, targetID int64) (Outcome[T], bool) {
	if len(intents) == 0 {
		return Outcome[T]{}, false
	}
	if len(intents) == 1 {
		return Outcome[T]{Winner: intents[0]}, true
	}

	best := intents[0].Strength
	var tied []Intent[T]
	for _, in := range intents {
		if in.Strength > best {
			best = in.Strength
		}
	}
	for _, in := range intents {
		if in.Strength == best {
			tied = append(tied, in)
		}
	}

	if len(tied) == 1 {
		return Outcome[T]{Winner: tied[0]}, true
	}

	rng := rngseed.New(gameSeed, turn, rngseed.OpColonization, targetID)
	winner := tied[rng.Intn(len(tied))]
	return Outcome[T]{Winner: winner, WasTiebreak: true}, true
}

// PriorityOrder sorts a group of competing intents into strict attack
// priority order, resolving ties with the same deterministic tiebreak as
// Resolve — used by planetary combat (spec §4.4: "resolver determines
// attack priority order; then attacks execute sequentially") and
// espionage (prestige-ranked priority; dishonored status is not part of
// the ranking).
func PriorityOrder[T any](intents []Intent[T], gameSeed int64, turn int32, targetID int64) []Intent[T] {
	remaining := append([]Intent[T]{}, intents...)
	ordered := make([]Intent[T], 0, len(remaining))

	for len(remaining) > 0 {
		outcome, ok := Resolve(remaining, gameSeed, turn, targetID+int64(len(ordered)))
		if !ok {
			break
		}
		ordered = append(ordered, outcome.Winner)
		remaining = removeFirstEqual(remaining, outcome.Winner)
	}
	return ordered
}

func removeFirstEqual[T any](intents []Intent[T], target Intent[T]) []Intent[T] {
	out := make([]Intent[T], 0, len(intents))
	removed := false
	for _, in := range intents {
		if !removed && in.Strength == target.Strength && equalValue(in.Value, target.Value) {
			removed = true
			continue
		}
		out = append(out, in)
	}
	return out
}

func equalValue[T any](a, b T) bool {
	return any(a) == any(b)
}
