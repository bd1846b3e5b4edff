package combat

// noWound marks a Strength/Toughness pairing that can never wound.
const noWound = 0

// weaponSkillChart is indexed [attacker WS-1][defender WS-1].
var weaponSkillChart = [10][10]int{
	{4, 4, 5, 5, 5, 5, 5, 5, 5, 5},
	{3, 4, 4, 4, 5, 5, 5, 5, 5, 5},
	{2, 3, 4, 4, 4, 4, 5, 5, 5, 5},
	{2, 3, 3, 4, 4, 4, 4, 5, 5, 5},
	{2, 2, 3, 3, 4, 4, 4, 4, 4, 4},
	{2, 2, 3, 3, 3, 4, 4, 4, 4, 4},
	{2, 2, 2, 3, 3, 3, 4, 4, 4, 4},
	{2, 2, 2, 3, 3, 3, 3, 4, 4, 4},
	{2, 2, 2, 2, 3, 3, 3, 3, 4, 4},
	{2, 2, 2, 2, 2, 3, 3, 3, 3, 4},
}

// toughnessChart is indexed [attacker S-1][defender T-1]. A strength four or more
// below the toughness can never wound.
var toughnessChart = [10][10]int{
	{4, 5, 6, 6, noWound, noWound, noWound, noWound, noWound, noWound},
	{3, 4, 5, 6, 6, noWound, noWound, noWound, noWound, noWound},
	{2, 3, 4, 5, 6, 6, noWound, noWound, noWound, noWound},
	{2, 2, 3, 4, 5, 6, 6, noWound, noWound, noWound},
	{2, 2, 2, 3, 4, 5, 6, 6, noWound, noWound},
	{2, 2, 2, 2, 3, 4, 5, 6, 6, noWound},
	{2, 2, 2, 2, 2, 3, 4, 5, 6, 6},
	{2, 2, 2, 2, 2, 2, 3, 4, 5, 6},
	{2, 2, 2, 2, 2, 2, 2, 3, 4, 5},
	{2, 2, 2, 2, 2, 2, 2, 2, 3, 4},
}

// chartIndex clamps a characteristic to the 1..10 chart range and returns its index.
func chartIndex(v int) int {
	switch {
	case v < 1:
		return 0
	case v > 10:
		return 9
	default:
		return v - 1
	}
}

// ToHitTarget returns the d6 score needed for an attacker with weapon skill ws to
// hit a defender with weapon skill defWS.
//
// Postcondition: result is in 2..5.
func ToHitTarget(ws, defWS int) int {
	return weaponSkillChart[chartIndex(ws)][chartIndex(defWS)]
}

// ToWoundTarget returns the d6 score needed for strength s to wound toughness t.
//
// Postcondition: ok is false iff s can never wound t; otherwise target is in 2..6.
func ToWoundTarget(s, t int) (target int, ok bool) {
	target = toughnessChart[chartIndex(s)][chartIndex(t)]
	return target, target != noWound
}
