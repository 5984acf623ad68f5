package kiroku

import (
	"encoding/json"
	"math"
	"time"

	"github.com/ashita-ai/kiroku/internal/integrity"
)

// languageNorm is the soft normalization constant for language diversity
// in the uniqueness score. It is not a cap: traces spanning more than
// five languages push the language signal, and so the overall score,
// past its typical bounds.
const languageNorm = 5.0

// ProvenanceLog is a derived, read-only fingerprint of what a session
// actually did: the content-addressed trace hash plus the metadata needed
// to score and rank the submission.
//
// Two sessions with byte-identical ordered (input, output, language,
// agent-kind) tuples yield identical hashes regardless of contributor,
// backend, or wall clock.
type ProvenanceLog struct {
	TraceHash       string            `json:"trace_hash"`
	AgentSequence   []AgentKind       `json:"agent_sequence"`
	ContributorID   string            `json:"contributor_id"`
	Backend         string            `json:"backend_used"`
	Timestamp       time.Time         `json:"timestamp"`
	TraceDepth      int               `json:"trace_depth"`
	UniquenessScore float64           `json:"uniqueness_score"`
	Transitions     []AgentTransition `json:"transitions"`
}

// EmitProvenance derives the provenance log for the current trace. Pure:
// it reads session state and never mutates it.
func (s *Session) EmitProvenance() ProvenanceLog {
	sequence := make([]AgentKind, len(s.Trace))
	for i, e := range s.Trace {
		sequence[i] = e.Agent
	}

	transitions := make([]AgentTransition, len(s.Transitions))
	copy(transitions, s.Transitions)

	return ProvenanceLog{
		TraceHash:       integrity.TraceHash(s.hashRecords()),
		AgentSequence:   sequence,
		ContributorID:   s.ContributorID,
		Backend:         s.Backend,
		Timestamp:       time.Now().UTC(),
		TraceDepth:      len(s.Trace),
		UniquenessScore: s.uniquenessScore(),
		Transitions:     transitions,
	}
}

// uniquenessScore is the mean of three diversity signals: distinct agent
// kinds over the closed set size, distinct languages over a soft
// normalization constant, and transition density capped at 1. An empty
// trace contributes zero transition density rather than dividing by zero.
//
// This is a heuristic diversity measure, not a similarity check against
// any corpus.
func (s *Session) uniquenessScore() float64 {
	agentDiversity := float64(len(s.agentDistribution())) / float64(NumAgentKinds)
	languageDiversity := float64(len(s.languageDistribution())) / languageNorm

	var density float64
	if len(s.Trace) > 0 {
		density = math.Min(1, float64(len(s.Transitions))/float64(len(s.Trace)))
	}

	return (agentDiversity + languageDiversity + density) / 3.0
}

// ExportProvenanceJSON renders the provenance log as a pretty-printed
// JSON document for external verification.
func (s *Session) ExportProvenanceJSON() (string, error) {
	out, err := json.MarshalIndent(s.EmitProvenance(), "", "  ")
	if err != nil {
		return "", &SerializationError{What: "provenance", Err: err}
	}
	return string(out), nil
}
