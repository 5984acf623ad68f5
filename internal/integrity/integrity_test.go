package integrity

import (
	"testing"
)

func sampleRecords() []TraceRecord {
	return []TraceRecord{
		{Input: "classify the question", Output: "domain: logistics", Language: "id", Agent: "Classification"},
		{Input: "translate to English", Output: "quantum logistics question", Language: "en", Agent: "Translation"},
		{Input: "reason about QAOA", Output: "QAOA fits routing problems", Language: "en", Agent: "Reasoning"},
	}
}

func TestTraceHash_Deterministic(t *testing.T) {
	h1 := TraceHash(sampleRecords())
	h2 := TraceHash(sampleRecords())

	if h1 != h2 {
		t.Fatalf("hash not deterministic: %q != %q", h1, h2)
	}
	if len(h1) != 64 {
		t.Fatalf("expected 64-char hex SHA-256, got %d chars", len(h1))
	}
	for _, c := range h1 {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			t.Fatalf("expected lowercase hex, got %q in %q", c, h1)
		}
	}
}

func TestTraceHash_FieldSensitivity(t *testing.T) {
	base := TraceHash(sampleRecords())

	mutations := map[string]func(r *TraceRecord){
		"input":    func(r *TraceRecord) { r.Input = "different" },
		"output":   func(r *TraceRecord) { r.Output = "different" },
		"language": func(r *TraceRecord) { r.Language = "zh" },
		"agent":    func(r *TraceRecord) { r.Agent = "Validation" },
	}
	for field, mutate := range mutations {
		records := sampleRecords()
		mutate(&records[1])
		if TraceHash(records) == base {
			t.Errorf("changing %s of one record should change the hash", field)
		}
	}
}

func TestTraceHash_OrderSensitive(t *testing.T) {
	records := sampleRecords()
	base := TraceHash(records)

	records[0], records[1] = records[1], records[0]
	if TraceHash(records) == base {
		t.Fatal("reordering records should change the hash")
	}
}

func TestTraceHash_Empty(t *testing.T) {
	h := TraceHash(nil)
	if len(h) != 64 {
		t.Fatalf("empty trace should still yield a 64-char digest, got %d chars", len(h))
	}
	if h != TraceHash([]TraceRecord{}) {
		t.Fatal("nil and empty slices should hash identically")
	}
}
