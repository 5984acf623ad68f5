// Package integrity provides content-addressed hashing for reasoning
// traces. All functions are pure and deterministic.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
)

// TraceRecord is the hashed view of one trace event. Only these four
// fields participate in the fingerprint; timestamps, confidence, and
// metadata are deliberately excluded so that two runs producing the
// same content hash identically regardless of when or by whom they ran.
type TraceRecord struct {
	Input    string
	Output   string
	Language string
	Agent    string
}

// TraceHash produces the 64-character lowercase hex SHA-256 fingerprint
// of an ordered trace. Each record's fields are fed into a running digest
// in (input, output, language, agent) order, so reordering events or
// changing any byte of any field yields a different hash.
//
// The hash proves exact reproducibility of identical input, nothing
// more: near-duplicate traces hash completely differently by design.
func TraceHash(records []TraceRecord) string {
	h := sha256.New()
	for _, r := range records {
		h.Write([]byte(r.Input))
		h.Write([]byte(r.Output))
		h.Write([]byte(r.Language))
		h.Write([]byte(r.Agent))
	}
	return hex.EncodeToString(h.Sum(nil))
}
