package betting

// Limits holds the staking limits applied to every ticket.
type Limits struct {
	MinStake  float64 `json:"minStake"`
	MaxStake  float64 `json:"maxStake"`
	MaxPayout float64 `json:"maxPayout"`
}

// The total stake of a system ticket may exceed MaxStake, since it is a
// per-combination stake multiplied out, but only up to this factor.
const systemStakeCapMultiplier = 10

// DefaultLimits returns the platform staking limits.
func DefaultLimits() Limits {
	return Limits{
		MinStake:  1,
		MaxStake:  10000,
		MaxPayout: 100000,
	}
}
