package kiroku_test

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/kiroku"
)

var hexHash = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestEmitProvenance_HashDeterminism(t *testing.T) {
	// Identical (input, output, language, agent) tuples hash identically
	// regardless of contributor, backend, or wall clock.
	s1 := kiroku.NewSession("alice", "backend_a")
	s2 := kiroku.NewSession("bob", "backend_b")
	for _, s := range []*kiroku.Session{s1, s2} {
		s.LogEvent(kiroku.KindReasoning, "test", "result", "en", 0.9)
	}

	p1 := s1.EmitProvenance()
	p2 := s2.EmitProvenance()
	assert.Equal(t, p1.TraceHash, p2.TraceHash)

	s3 := kiroku.NewSession("carol", "backend_c")
	s3.LogEvent(kiroku.KindReasoning, "different", "result", "en", 0.9)
	assert.NotEqual(t, p1.TraceHash, s3.EmitProvenance().TraceHash)
}

func TestEmitProvenance_ConfidenceAndMetadataExcluded(t *testing.T) {
	s1 := kiroku.NewSession("alice", "backend_a")
	s1.LogEvent(kiroku.KindReasoning, "test", "result", "en", 0.9)

	s2 := kiroku.NewSession("alice", "backend_a")
	s2.LogEventMetadata(kiroku.KindReasoning, "test", "result", "en", 0.1,
		map[string]string{"note": "differs"})

	assert.Equal(t, s1.EmitProvenance().TraceHash, s2.EmitProvenance().TraceHash)
}

func TestEmitProvenance_Fields(t *testing.T) {
	s := kiroku.NewSession("test_user", "test_backend")
	s.LogEvent(kiroku.KindClassification, "q", "c", "en", 0.9)
	s.LogEvent(kiroku.KindReasoning, "c", "r", "en", 0.92)
	s.LogEvent(kiroku.KindRetrieval, "r", "docs", "en", 0.88)

	p := s.EmitProvenance()
	assert.Regexp(t, hexHash, p.TraceHash)
	assert.Equal(t, []kiroku.AgentKind{
		kiroku.KindClassification, kiroku.KindReasoning, kiroku.KindRetrieval,
	}, p.AgentSequence)
	assert.Equal(t, "test_user", p.ContributorID)
	assert.Equal(t, "test_backend", p.Backend)
	assert.Equal(t, 3, p.TraceDepth)
	assert.Len(t, p.Transitions, 2)
	assert.False(t, p.Timestamp.IsZero())

	// Uniqueness per the formula: 3/8 kinds + 1/5 languages + 2/3 density,
	// averaged.
	want := (3.0/8.0 + 1.0/5.0 + 2.0/3.0) / 3.0
	assert.InDelta(t, want, p.UniquenessScore, 1e-9)
}

func TestEmitProvenance_EmptyTrace(t *testing.T) {
	s := kiroku.NewSession("test_user", "test_backend")

	p := s.EmitProvenance()
	assert.Regexp(t, hexHash, p.TraceHash)
	assert.Equal(t, 0, p.TraceDepth)
	assert.Empty(t, p.AgentSequence)
	// Transition density is special-cased to 0 on an empty trace.
	assert.Equal(t, 0.0, p.UniquenessScore)
}

// The language term divides by a soft constant of 5, so traces spanning
// more than 5 languages push the score past the usual [0,1] intuition.
// That is by contract: no hard ceiling applies.
func TestEmitProvenance_UniquenessExceedsTypicalBounds(t *testing.T) {
	s := kiroku.NewSession("test_user", "test_backend")
	languages := []string{"en", "id", "zh", "es", "fr", "de", "ja", "ko", "pt", "ru"}
	kinds := kiroku.AgentKinds()
	for i, lang := range languages {
		s.LogEvent(kinds[i%len(kinds)], "in", "out", lang, 0.9)
	}

	p := s.EmitProvenance()
	// 10 languages / 5 = 2.0, all 8 kinds = 1.0, density 0.9: mean 1.3.
	assert.InDelta(t, 1.3, p.UniquenessScore, 1e-9)
	assert.Greater(t, p.UniquenessScore, 1.0)
}

func TestExportProvenanceJSON(t *testing.T) {
	s := kiroku.NewSession("test_user", "test_backend")
	s.LogEvent(kiroku.KindClassification, "q", "c", "en", 0.9)
	s.LogEvent(kiroku.KindValidation, "c", "ok", "en", 0.95)

	doc, err := s.ExportProvenanceJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &decoded))
	assert.Regexp(t, hexHash, decoded["trace_hash"])
	assert.Equal(t, "test_user", decoded["contributor_id"])
	assert.Equal(t, "test_backend", decoded["backend_used"])
	assert.Equal(t, float64(2), decoded["trace_depth"])

	transitions, ok := decoded["transitions"].([]any)
	require.True(t, ok)
	assert.Len(t, transitions, 1)
}

// End-to-end: the three-step scenario from the acceptance checklist.
func TestProvenance_EndToEnd(t *testing.T) {
	s := kiroku.NewSession("e2e_user", "e2e_backend")
	s.LogEvent(kiroku.KindClassification, "classify", "done", "en", 0.9)
	s.LogEvent(kiroku.KindReasoning, "reason", "done", "en", 0.92)
	s.LogEvent(kiroku.KindRetrieval, "retrieve", "done", "en", 0.88)

	assert.Equal(t, 2, s.TransitionCount())
	assert.Equal(t, 3, s.TraceDepth())

	p := s.EmitProvenance()
	assert.Regexp(t, hexHash, p.TraceHash)
	assert.Greater(t, p.UniquenessScore, 0.0)
	assert.Less(t, p.UniquenessScore, 1.0)
}
