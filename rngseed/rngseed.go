// Package rngseed derives deterministic per-operation random seeds, per
// spec §5/§9: "every random draw derives its seed from (gameSeed, turn,
// opKind, targetId) so that reruns are bit-exact" and "one RNG seeded per
// random operation class, not a single shared stream, so that local
// changes ... don't shift downstream outcomes."
package rngseed

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
)

// OpKind discriminates independent random-draw classes so that, e.g.,
// adding an extra combat round never perturbs an unrelated colonization
// tiebreak's outcome.
type OpKind string

const (
	OpSpaceCombat     OpKind = "space_combat"
	OpOrbitalCombat   OpKind = "orbital_combat"
	OpBlockade        OpKind = "blockade"
	OpPlanetaryCombat OpKind = "planetary_combat"
	OpEspionage       OpKind = "espionage"
	OpColonization    OpKind = "colonization"
	OpDetection       OpKind = "detection"
	OpIntelCorruption OpKind = "intel_corruption"
)

// Derive computes a deterministic 64-bit seed from the game seed, turn
// number, operation class, and a target identifier (system/colony/fleet
// id or any other int64-convertible key). Identical inputs always yield
// the identical seed (P1, P9).
func Derive(gameSeed int64, turn int32, op OpKind, targetID int64) int64 {
	h := fnv.New64a()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(gameSeed))
	h.Write(buf[:])

	binary.LittleEndian.PutUint32(buf[:4], uint32(turn))
	h.Write(buf[:4])

	h.Write([]byte(op))

	binary.LittleEndian.PutUint64(buf[:], uint64(targetID))
	h.Write(buf[:])

	return int64(h.Sum64())
}

// New returns a *rand.Rand seeded deterministically from the given inputs.
// Each call site should mint its own Rand rather than sharing one across
// operation classes.
func New(gameSeed int64, turn int32, op OpKind, targetID int64) *rand.Rand {
	seed := Derive(gameSeed, turn, op, targetID)
	return rand.New(rand.NewSource(seed))
}
