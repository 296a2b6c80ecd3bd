package server

import (
	"hash/fnv"
	"math/rand"
)

// deterministicSeedValue folds a root seed and a subsystem label into a
// stable source seed so each subsystem draws from its own stream.
func deterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

func newDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(deterministicSeedValue(rootSeed, label)))
}

func randomFloat(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()
	}
	return rng.Float64()
}

func randomRange(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + randomFloat(rng)*(max-min)
}
