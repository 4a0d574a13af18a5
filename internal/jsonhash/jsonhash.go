// Package jsonhash computes a structural-equality hash of arbitrary values
// by canonical JSON serialization. Two deep-equal values hash identically
// regardless of identity, which makes the hash safe to share across parse
// invocations as a memoization key.
package jsonhash

import (
	"hash/fnv"

	json "github.com/goccy/go-json"
)

// Sum returns a 64-bit structural hash of v. ok is false when v cannot be
// serialized (functions, channels, cyclic values); callers must skip
// memoization in that case.
func Sum(v any) (sum uint64, ok bool) {
	defer func() {
		if recover() != nil {
			sum, ok = 0, false
		}
	}()
	// Map keys are emitted in sorted order, so serialization is canonical for
	// the value shapes the engine handles.
	b, err := json.Marshal(v)
	if err != nil {
		return 0, false
	}
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64(), true
}
