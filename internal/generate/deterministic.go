package generate

import (
	"hash/fnv"
	"time"
)

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// seedFunc returns a pseudo-random seed used when the configuration leaves the seed at zero.
var seedFunc = func() int64 { return time.Now().UnixNano() }

// SetSeedFunc overrides the seed provider (use only in tests).
func SetSeedFunc(f func() int64) { seedFunc = f }

// DeriveSeed gives every (level, module) job its own stream so output does not
// depend on scheduling order.
func DeriveSeed(base int64, level, module string) int64 {
	h := fnv.New64a()
	h.Write([]byte(level))
	h.Write([]byte{0})
	h.Write([]byte(module))
	return int64(h.Sum64() ^ uint64(base))
}
