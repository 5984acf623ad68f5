// Package kiroku records reasoning-agent sessions, folds their traces into
// compressed summaries, derives content-addressed provenance fingerprints,
// and aggregates many contributors' submissions into a ranked leaderboard.
//
// The package is a pure in-memory library: every operation is a synchronous
// value transformation over session or leaderboard state. A Session is owned
// by exactly one writer. A Leaderboard shared across writers must serialize
// AddEntry calls, because rank and average recomputation read-then-write the
// full entry set.
//
// Typical flow:
//
//	s := kiroku.NewSession("nurcholish", "quantum_backend_v3")
//	s.LogEvent(kiroku.KindClassification, input, output, "id", 0.94)
//	...
//	fold := s.FoldMemory()
//	prov := s.EmitProvenance()
//	board.AddEntry(prov, s.Languages())
package kiroku

// AgentKind identifies which specialist agent produced a trace event.
// The set is closed: uniqueness scoring normalizes agent diversity
// against NumAgentKinds.
type AgentKind string

const (
	KindClassification AgentKind = "Classification"
	KindReasoning      AgentKind = "Reasoning"
	KindAction         AgentKind = "Action"
	KindRetrieval      AgentKind = "Retrieval"
	KindMeta           AgentKind = "Meta"
	KindSynthesis      AgentKind = "Synthesis"
	KindValidation     AgentKind = "Validation"
	KindTranslation    AgentKind = "Translation"
)

// NumAgentKinds is the size of the closed agent-kind set.
const NumAgentKinds = 8

// AgentKinds returns the closed set of agent kinds in declaration order.
func AgentKinds() []AgentKind {
	return []AgentKind{
		KindClassification,
		KindReasoning,
		KindAction,
		KindRetrieval,
		KindMeta,
		KindSynthesis,
		KindValidation,
		KindTranslation,
	}
}

// String returns the display name. The same bytes feed the trace hash,
// so renaming a kind is a hash-breaking change.
func (k AgentKind) String() string { return string(k) }
