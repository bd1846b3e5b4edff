// Package dice provides the randomness abstraction used by the combat engine.
//
// Every roll the engine makes is a single d6 drawn from one logical stream, so a
// seeded Source reproduces an entire duel.
package dice

// D6Sides is the number of faces on the only die the ruleset uses.
const D6Sides = 6

// Source is the randomness provider for dice rolls.
//
// Implementations need not be safe for concurrent use; a duel consumes its Source
// from a single goroutine.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollD6 draws one d6 face from src.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a value in [1, 6].
func RollD6(src Source) int {
	return src.Intn(D6Sides) + 1
}
