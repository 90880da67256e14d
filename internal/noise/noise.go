// Package noise provides counter-based random streams for thermostatting.
//
// Draws are keyed by (counter, salt, particle id), so every rank produces the
// identical stream without communication, and advancing the counter once per
// integration step guarantees non-repeating values.
package noise

import "github.com/san-kum/lbmd/internal/geom"

// Salt separates the random streams of the different consumers so that two
// kernels running in the same step never see correlated draws.
type Salt uint64

const (
	SaltLangevin Salt = iota
	SaltLangevinRot
	SaltNPTVel
	SaltNPTVol
	SaltDPD
	SaltLBCoupling
)

// splitmix64 finalizer; good avalanche behavior for cheap keyed hashing.
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

func uniform(key uint64) float64 {
	// 53 high bits -> [0, 1)
	return float64(mix(key)>>11) / (1 << 53)
}

// Uniform3 returns three independent uniform draws in [-0.5, 0.5) for the
// given counter value, stream salt and particle id.
func Uniform3(counter uint64, salt Salt, id int) geom.Vec3 {
	base := mix(counter) ^ mix(uint64(salt)<<32) ^ mix(uint64(id))
	return geom.Vec3{
		uniform(base) - 0.5,
		uniform(base+1) - 0.5,
		uniform(base+2) - 0.5,
	}
}

// Uniform returns a single draw in [-0.5, 0.5).
func Uniform(counter uint64, salt Salt, id int) float64 {
	return uniform(mix(counter)^mix(uint64(salt)<<32)^mix(uint64(id))) - 0.5
}
