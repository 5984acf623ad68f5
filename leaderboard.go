package kiroku

import (
	"encoding/json"
	"math"
	"sort"
	"time"
)

// Combined-score weights and normalization constants. Fixed design
// choices, not configurable.
const (
	combinedDepthWeight    = 0.3
	combinedUniqueWeight   = 0.4
	combinedSubsWeight     = 0.15
	combinedAvgDepthWeight = 0.15

	combinedDepthNorm    = 100.0
	combinedSubsNorm     = 5.0
	combinedAvgDepthNorm = 50.0
)

// RankingCriterion selects one of the five leaderboard orderings.
type RankingCriterion int

const (
	ByTraceDepth RankingCriterion = iota
	ByUniquenessScore
	ByTotalSubmissions
	ByAvgTraceDepth
	ByCombined
)

func (c RankingCriterion) String() string {
	switch c {
	case ByTraceDepth:
		return "Trace Depth"
	case ByUniquenessScore:
		return "Uniqueness Score"
	case ByTotalSubmissions:
		return "Total Submissions"
	case ByAvgTraceDepth:
		return "Average Trace Depth"
	case ByCombined:
		return "Combined Score"
	default:
		return "Unknown"
	}
}

// ContributorStats is the leaderboard's per-contributor aggregate.
// TraceDepth and UniquenessScore are running maxima; ProvenanceHash,
// Backend, and LastUpdated are last-write-wins; AvgTraceDepth is the
// exact mean over the contributor's full submission history.
type ContributorStats struct {
	ContributorID    string    `json:"contributor_id"`
	TraceDepth       int       `json:"trace_depth"`
	ProvenanceHash   string    `json:"provenance_hash"`
	Backend          string    `json:"backend_used"`
	LastUpdated      time.Time `json:"last_updated"`
	UniquenessScore  float64   `json:"uniqueness_score"`
	TotalSubmissions int       `json:"total_submissions"`
	AvgTraceDepth    float64   `json:"avg_trace_depth"`
	LanguagesUsed    []string  `json:"languages_used"`
	Rank             int       `json:"rank"`
}

// Leaderboard aggregates provenance submissions across contributors:
// one ContributorStats per distinct contributor id, plus the full
// submission history used for exact average recomputation. Entries are
// created on first submission and updated, never removed.
//
// Leaderboard is not safe for concurrent use; a shared instance must
// serialize AddEntry externally.
type Leaderboard struct {
	entries []ContributorStats
	history map[string][]ProvenanceLog
}

// NewLeaderboard creates an empty leaderboard.
func NewLeaderboard() *Leaderboard {
	return &Leaderboard{
		history: make(map[string][]ProvenanceLog),
	}
}

// AddEntry folds one provenance submission into the aggregate. The
// submission is always appended to the contributor's history; the stats
// entry is created on first sight or updated per the field rules on
// ContributorStats.
//
// Ranks for all entries are then recomputed under ByCombined, keeping the
// displayed rank fresh after every submission. A caller that wants ranks
// under a different criterion must call UpdateRanks afterwards.
func (l *Leaderboard) AddEntry(provenance ProvenanceLog, languages []string) {
	id := provenance.ContributorID
	l.history[id] = append(l.history[id], provenance)

	if i := l.find(id); i >= 0 {
		e := &l.entries[i]
		e.TotalSubmissions++
		if provenance.TraceDepth > e.TraceDepth {
			e.TraceDepth = provenance.TraceDepth
		}
		e.ProvenanceHash = provenance.TraceHash
		e.Backend = provenance.Backend
		e.LastUpdated = provenance.Timestamp
		if provenance.UniquenessScore > e.UniquenessScore {
			e.UniquenessScore = provenance.UniquenessScore
		}

		// Exact mean over the full history, not an incremental update.
		var sum float64
		for _, p := range l.history[id] {
			sum += float64(p.TraceDepth)
		}
		e.AvgTraceDepth = sum / float64(len(l.history[id]))

		for _, lang := range languages {
			if !contains(e.LanguagesUsed, lang) {
				e.LanguagesUsed = append(e.LanguagesUsed, lang)
			}
		}
	} else {
		l.entries = append(l.entries, ContributorStats{
			ContributorID:    id,
			TraceDepth:       provenance.TraceDepth,
			ProvenanceHash:   provenance.TraceHash,
			Backend:          provenance.Backend,
			LastUpdated:      provenance.Timestamp,
			UniquenessScore:  provenance.UniquenessScore,
			TotalSubmissions: 1,
			AvgTraceDepth:    float64(provenance.TraceDepth),
			LanguagesUsed:    append([]string(nil), languages...),
		})
	}

	l.UpdateRanks(ByCombined)
}

// Ranked returns all entries ordered under the given criterion. The sort
// is stable: entries tied under a criterion with no specified tie-break
// keep their first-submission order.
func (l *Leaderboard) Ranked(criterion RankingCriterion) []ContributorStats {
	ranked := make([]ContributorStats, len(l.entries))
	copy(ranked, l.entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return less(criterion, ranked[i], ranked[j])
	})
	return ranked
}

// less orders a strictly before b under the criterion (descending keys).
func less(criterion RankingCriterion, a, b ContributorStats) bool {
	switch criterion {
	case ByTraceDepth:
		if a.TraceDepth != b.TraceDepth {
			return a.TraceDepth > b.TraceDepth
		}
		return a.UniquenessScore > b.UniquenessScore
	case ByUniquenessScore:
		if a.UniquenessScore != b.UniquenessScore {
			return a.UniquenessScore > b.UniquenessScore
		}
		return a.TraceDepth > b.TraceDepth
	case ByTotalSubmissions:
		return a.TotalSubmissions > b.TotalSubmissions
	case ByAvgTraceDepth:
		return a.AvgTraceDepth > b.AvgTraceDepth
	default:
		return combinedScore(a) > combinedScore(b)
	}
}

// combinedScore is the weighted blend of all four ranking signals.
// ln(1) = 0, so a first submission contributes nothing from the
// submission term.
func combinedScore(s ContributorStats) float64 {
	depth := float64(s.TraceDepth) / combinedDepthNorm
	subs := math.Log(float64(s.TotalSubmissions)) / combinedSubsNorm
	avg := s.AvgTraceDepth / combinedAvgDepthNorm
	return combinedDepthWeight*depth +
		combinedUniqueWeight*s.UniquenessScore +
		combinedSubsWeight*subs +
		combinedAvgDepthWeight*avg
}

// UpdateRanks recomputes every entry's Rank (1 = best) under the given
// criterion.
func (l *Leaderboard) UpdateRanks(criterion RankingCriterion) {
	for pos, ranked := range l.Ranked(criterion) {
		if i := l.find(ranked.ContributorID); i >= 0 {
			l.entries[i].Rank = pos + 1
		}
	}
}

// TopN returns the first n entries of the ranking under the given
// criterion, or all entries when fewer than n exist.
func (l *Leaderboard) TopN(n int, criterion RankingCriterion) []ContributorStats {
	ranked := l.Ranked(criterion)
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Stats returns the aggregate for one contributor. The second return is
// false when the contributor has never submitted.
func (l *Leaderboard) Stats(contributorID string) (ContributorStats, bool) {
	if i := l.find(contributorID); i >= 0 {
		return l.entries[i], true
	}
	return ContributorStats{}, false
}

// History returns every provenance log the contributor ever submitted,
// oldest first, or nil when the contributor is unknown.
func (l *Leaderboard) History(contributorID string) []ProvenanceLog {
	history, ok := l.history[contributorID]
	if !ok {
		return nil
	}
	out := make([]ProvenanceLog, len(history))
	copy(out, history)
	return out
}

// TotalContributors returns the number of distinct contributors.
func (l *Leaderboard) TotalContributors() int { return len(l.entries) }

// TotalSubmissions returns the number of submissions across all
// contributors.
func (l *Leaderboard) TotalSubmissions() int {
	total := 0
	for _, e := range l.entries {
		total += e.TotalSubmissions
	}
	return total
}

// ExportJSON renders the ranking under the given criterion as a
// pretty-printed JSON document.
func (l *Leaderboard) ExportJSON(criterion RankingCriterion) (string, error) {
	out, err := json.MarshalIndent(l.Ranked(criterion), "", "  ")
	if err != nil {
		return "", &SerializationError{What: "leaderboard", Err: err}
	}
	return string(out), nil
}

func (l *Leaderboard) find(contributorID string) int {
	for i := range l.entries {
		if l.entries[i].ContributorID == contributorID {
			return i
		}
	}
	return -1
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
