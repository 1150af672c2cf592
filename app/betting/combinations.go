package betting

import "math"

// Combinations returns the number of ways to choose r items from n, using the
// multiplicative formula with a final round to absorb floating-point drift.
// r > n yields 0; r == 0 or r == n yields 1.
func Combinations(n, r int) int {
	if r > n {
		return 0
	}
	if r == 0 || r == n {
		return 1
	}

	result := 1.0
	for i := 0; i < r; i++ {
		result = result * float64(n-i) / float64(i+1)
	}
	return int(math.Round(result))
}
