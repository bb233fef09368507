package pool

import (
	"math"

	"github.com/cespare/xxhash/v2"
)

// CalcGroupID hashes a group id token to the 64-bit identifier stored in the
// pool. Rows with equal tokens land in the same group.
func CalcGroupID(token string) uint64 {
	return xxhash.Sum64String(token)
}

// CalcSubgroupID hashes a subgroup id token to its 32-bit identifier.
func CalcSubgroupID(token string) uint32 {
	return uint32(xxhash.Sum64String(token))
}

// CatFeatureValue hashes a categorical token into the float32 slot it
// occupies in the feature buffer. The 32-bit hash is reinterpreted as float
// bits, not converted numerically, so distinct tokens keep distinct values.
func CatFeatureValue(token string) float32 {
	return math.Float32frombits(uint32(xxhash.Sum64String(token)))
}
