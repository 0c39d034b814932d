package utils

import (
	"hash/fnv"
	"strings"
)

// HashKey hashes the parts joined by "|" after lowercasing and trimming, so
// "Apple" and " apple" map to the same value.
func HashKey(parts ...string) uint64 {
	norm := make([]string, len(parts))
	for i, p := range parts {
		norm[i] = strings.ToLower(strings.TrimSpace(p))
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.Join(norm, "|")))
	return h.Sum64()
}
