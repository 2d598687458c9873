package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// LayoutKey builds the cache key for a layout computation: a SHA-256
// digest over the circuit payload and the options that influence the
// result (strategy, canvas, tuning constants, seed, grid size). Two
// invocations with identical inputs always map to the same key.
func LayoutKey(circuitJSON []byte, opts any) string {
	optsJSON, _ := json.Marshal(opts)
	h := sha256.New()
	h.Write(circuitJSON)
	h.Write([]byte{0})
	h.Write(optsJSON)
	return fmt.Sprintf("layout:%s", hex.EncodeToString(h.Sum(nil)))
}

// Hash returns the full SHA-256 hex digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
