package kiroku

import (
	"encoding/json"
	"fmt"
)

// MemoryFold is a derived, read-only snapshot of a session's trace:
// a bounded summary, the compression ratio against the raw input/output
// text, qualitative insights, and a per-language event histogram.
// Folds are recomputed on demand, never persisted.
type MemoryFold struct {
	SessionID            string         `json:"session_id"`
	FoldedTrace          []AgentEvent   `json:"folded_trace"`
	Summary              string         `json:"summary"`
	CompressionRatio     float64        `json:"compression_ratio"`
	KeyInsights          []string       `json:"key_insights"`
	LanguageDistribution map[string]int `json:"language_distribution"`
}

// FoldMemory compresses the current trace into a MemoryFold. It is a pure
// function of the session state: calling it twice without intervening
// LogEvent calls yields equal folds.
//
// The compression ratio is summary length over total input+output length,
// defined as 1.0 for an empty trace. It is uncapped and can exceed 1.0
// for tiny traces.
func (s *Session) FoldMemory() MemoryFold {
	var totalChars int
	for _, e := range s.Trace {
		totalChars += len(e.Input) + len(e.Output)
	}

	summary := s.generateSummary()
	ratio := 1.0
	if totalChars > 0 {
		ratio = float64(len(summary)) / float64(totalChars)
	}

	trace := make([]AgentEvent, len(s.Trace))
	copy(trace, s.Trace)

	return MemoryFold{
		SessionID:            s.SessionID,
		FoldedTrace:          trace,
		Summary:              summary,
		CompressionRatio:     ratio,
		KeyInsights:          s.keyInsights(),
		LanguageDistribution: s.languageDistribution(),
	}
}

// generateSummary renders the fixed-template session summary. The agent
// distribution prints in sorted key order, so the summary is reproducible
// from the same trace contents.
func (s *Session) generateSummary() string {
	return fmt.Sprintf(
		"Session %s with %d reasoning steps across %d languages. Agent distribution: %v. Transitions: %d",
		s.SessionID,
		len(s.Trace),
		len(s.languageDistribution()),
		s.agentDistribution(),
		len(s.Transitions),
	)
}

// keyInsights emits, in fixed order, only the insights whose trigger
// holds: high-confidence step count, multilingual spread, and transition
// complexity.
func (s *Session) keyInsights() []string {
	var insights []string

	highConf := 0
	for _, e := range s.Trace {
		if e.Confidence > 0.8 {
			highConf++
		}
	}
	if highConf > 0 {
		insights = append(insights, fmt.Sprintf("%d high-confidence reasoning steps", highConf))
	}

	if langs := len(s.languageDistribution()); langs > 1 {
		insights = append(insights, fmt.Sprintf("Multilingual reasoning across %d languages", langs))
	}

	if len(s.Transitions) > 5 {
		insights = append(insights, fmt.Sprintf("Complex reasoning with %d agent transitions", len(s.Transitions)))
	}

	return insights
}

// ExportJSON renders the fold as a pretty-printed JSON document.
func (f MemoryFold) ExportJSON() (string, error) {
	out, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return "", &SerializationError{What: "memory fold", Err: err}
	}
	return string(out), nil
}
