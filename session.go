package kiroku

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ashita-ai/kiroku/internal/integrity"
)

// AgentEvent is one recorded step in a reasoning session. Events are
// immutable once appended and owned exclusively by the session's trace.
//
// Inputs are trusted: no validation is performed on the confidence range,
// the language tag format, or the agent kind. Deliberate permissiveness,
// callers own their data.
type AgentEvent struct {
	Timestamp  time.Time         `json:"timestamp"`
	Agent      AgentKind         `json:"agent"`
	Input      string            `json:"input"`
	Output     string            `json:"output"`
	Language   string            `json:"language"`
	Confidence float64           `json:"confidence"`
	Metadata   map[string]string `json:"metadata"`
}

// AgentTransition is a derived hand-off between two differing agent kinds.
// One is recorded whenever a logged event's kind differs from the previous
// event's kind; never for the first event or for same-kind repeats.
type AgentTransition struct {
	FromAgent       AgentKind `json:"from_agent"`
	ToAgent         AgentKind `json:"to_agent"`
	Timestamp       time.Time `json:"timestamp"`
	Reason          string    `json:"reason"`
	TransitionScore float64   `json:"transition_score"`
}

// ContributorProfile is a rolling per-contributor summary maintained
// across sessions by UpdateProfile.
type ContributorProfile struct {
	ContributorID      string   `json:"contributor_id"`
	PreferredLanguages []string `json:"preferred_languages"`
	ExpertiseDomains   []string `json:"expertise_domains"`
	ReasoningStyle     string   `json:"reasoning_style"`
	TotalSessions      int      `json:"total_sessions"`
	AvgTraceDepth      float64  `json:"avg_trace_depth"`
}

// reasonNaturalFlow tags transitions derived automatically by LogEvent.
const reasonNaturalFlow = "natural_flow"

// Session records one reasoning run: the ordered event trace, the derived
// transitions, and the contributor's profile. A Session is an independently
// owned value; no global state is involved. Mutate only through LogEvent,
// LogEventMetadata, TrackTransition, and UpdateProfile.
type Session struct {
	SessionID     string
	ContributorID string
	Backend       string
	Trace         []AgentEvent
	Transitions   []AgentTransition
	Profile       ContributorProfile

	current   AgentKind
	hasActive bool
}

// NewSession creates a session for one reasoning run with a default
// profile. The session id is unique per construction.
func NewSession(contributorID, backend string) *Session {
	return NewSessionWithProfile(contributorID, backend, ContributorProfile{
		ContributorID:      contributorID,
		PreferredLanguages: []string{"en"},
		ExpertiseDomains:   []string{},
		ReasoningStyle:     "analytical",
	})
}

// NewSessionWithProfile creates a session carrying an existing contributor
// profile, so rolling averages continue across sessions.
func NewSessionWithProfile(contributorID, backend string, profile ContributorProfile) *Session {
	return &Session{
		SessionID:     "session_" + uuid.NewString(),
		ContributorID: contributorID,
		Backend:       backend,
		Profile:       profile,
	}
}

// LogEvent appends one event with the current time. If a prior active
// agent exists and differs from agent, a transition is recorded first.
func (s *Session) LogEvent(agent AgentKind, input, output, language string, confidence float64) {
	s.LogEventMetadata(agent, input, output, language, confidence, nil)
}

// LogEventMetadata is LogEvent with an explicit metadata map.
func (s *Session) LogEventMetadata(agent AgentKind, input, output, language string, confidence float64, metadata map[string]string) {
	if s.hasActive && s.current != agent {
		s.TrackTransition(s.current, agent, reasonNaturalFlow)
	}

	if metadata == nil {
		// A nil map marshals as JSON null; exports expect an object.
		metadata = map[string]string{}
	}

	s.Trace = append(s.Trace, AgentEvent{
		Timestamp:  time.Now().UTC(),
		Agent:      agent,
		Input:      input,
		Output:     output,
		Language:   language,
		Confidence: confidence,
		Metadata:   metadata,
	})
	s.current = agent
	s.hasActive = true
}

// TrackTransition appends a hand-off record between two agent kinds.
// The transition score is computed from the trace as it stands, before
// the event that caused the hand-off is appended.
func (s *Session) TrackTransition(from, to AgentKind, reason string) {
	s.Transitions = append(s.Transitions, AgentTransition{
		FromAgent:       from,
		ToAgent:         to,
		Timestamp:       time.Now().UTC(),
		Reason:          reason,
		TransitionScore: s.transitionScore(),
	})
}

// transitionScore is the mean confidence of the last up-to-3 events
// already in the trace, or 1.0 when the trace is empty.
func (s *Session) transitionScore() float64 {
	if len(s.Trace) == 0 {
		return 1.0
	}
	n := len(s.Trace)
	if n > 3 {
		n = 3
	}
	var sum float64
	for _, e := range s.Trace[len(s.Trace)-n:] {
		sum += e.Confidence
	}
	return sum / float64(n)
}

// TraceDepth returns the number of recorded events.
func (s *Session) TraceDepth() int { return len(s.Trace) }

// TransitionCount returns the number of derived transitions. It always
// equals the count of adjacent trace pairs with differing agent kinds.
func (s *Session) TransitionCount() int { return len(s.Transitions) }

// Languages returns the distinct language tags of the trace in
// first-seen order.
func (s *Session) Languages() []string {
	seen := make(map[string]bool, len(s.Trace))
	var langs []string
	for _, e := range s.Trace {
		if !seen[e.Language] {
			seen[e.Language] = true
			langs = append(langs, e.Language)
		}
	}
	return langs
}

// UpdateProfile folds the current trace into the contributor's rolling
// profile: session count, incremental-mean trace depth, and the top 3
// languages by event count in the current trace only. Count ties break
// by language tag ascending, a deterministic stand-in for the otherwise
// unspecified tie order.
func (s *Session) UpdateProfile() {
	s.Profile.TotalSessions++
	n := float64(s.Profile.TotalSessions)
	s.Profile.AvgTraceDepth = (s.Profile.AvgTraceDepth*(n-1) + float64(len(s.Trace))) / n

	dist := s.languageDistribution()
	langs := make([]string, 0, len(dist))
	for lang := range dist {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		if dist[langs[i]] != dist[langs[j]] {
			return dist[langs[i]] > dist[langs[j]]
		}
		return langs[i] < langs[j]
	})
	if len(langs) > 3 {
		langs = langs[:3]
	}
	s.Profile.PreferredLanguages = langs
}

// languageDistribution counts events per language tag.
func (s *Session) languageDistribution() map[string]int {
	dist := make(map[string]int, len(s.Trace))
	for _, e := range s.Trace {
		dist[e.Language]++
	}
	return dist
}

// agentDistribution counts events per agent kind.
func (s *Session) agentDistribution() map[AgentKind]int {
	counts := make(map[AgentKind]int, len(s.Trace))
	for _, e := range s.Trace {
		counts[e.Agent]++
	}
	return counts
}

// ExportTraceJSON renders the full trace as pretty-printed JSON, one
// document entry per event in trace order.
func (s *Session) ExportTraceJSON() (string, error) {
	out, err := json.MarshalIndent(s.Trace, "", "  ")
	if err != nil {
		return "", &SerializationError{What: "trace", Err: err}
	}
	return string(out), nil
}

// hashRecords projects the trace into the hashed field tuples, in order.
func (s *Session) hashRecords() []integrity.TraceRecord {
	records := make([]integrity.TraceRecord, len(s.Trace))
	for i, e := range s.Trace {
		records[i] = integrity.TraceRecord{
			Input:    e.Input,
			Output:   e.Output,
			Language: e.Language,
			Agent:    e.Agent.String(),
		}
	}
	return records
}
