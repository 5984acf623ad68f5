package main

import (
	"fmt"
	"strings"

	"github.com/ashita-ai/kiroku"
)

// Table rendering for the demo output. Box-drawing display is driver
// concern only; the library exports structured JSON.

const tableWidth = 76

func banner(title string) {
	line := strings.Repeat("═", tableWidth)
	fmt.Printf("\n╔%s╗\n", line)
	fmt.Printf("║ %-*s ║\n", tableWidth-2, title)
	fmt.Printf("╚%s╝\n\n", line)
}

func heading(title string) {
	fmt.Println(strings.Repeat("═", tableWidth))
	fmt.Println(title)
	fmt.Println(strings.Repeat("═", tableWidth))
	fmt.Println()
}

// renderLeaderboard prints the top n entries under the given criterion.
func renderLeaderboard(board *kiroku.Leaderboard, criterion kiroku.RankingCriterion, n int) {
	line := strings.Repeat("═", tableWidth)
	fmt.Printf("╔%s╗\n", line)
	fmt.Printf("║ %-*s ║\n", tableWidth-2, "Contributor Leaderboard")
	fmt.Printf("╠%s╣\n", line)
	fmt.Printf("║ Ranking criterion: %-*s ║\n", tableWidth-21, criterion)
	fmt.Printf("╠%s╣\n", line)

	for i, entry := range board.TopN(n, criterion) {
		row := fmt.Sprintf("%2d. %-24s │ Depth: %4d │ Unique: %.3f │ Subs: %3d",
			i+1,
			truncate(entry.ContributorID, 24),
			entry.TraceDepth,
			entry.UniquenessScore,
			entry.TotalSubmissions)
		fmt.Printf("║ %-*s ║\n", tableWidth-2, row)
	}

	fmt.Printf("╚%s╝\n\n", line)
}

// renderContributor prints the detail view for one contributor.
func renderContributor(stats kiroku.ContributorStats) {
	line := strings.Repeat("═", tableWidth)
	fmt.Printf("╔%s╗\n", line)
	fmt.Printf("║ %-*s ║\n", tableWidth-2, "Contributor: "+truncate(stats.ContributorID, 55))
	fmt.Printf("╠%s╣\n", line)

	rows := []string{
		fmt.Sprintf("Rank:              #%d", stats.Rank),
		fmt.Sprintf("Max trace depth:   %d", stats.TraceDepth),
		fmt.Sprintf("Avg trace depth:   %.2f", stats.AvgTraceDepth),
		fmt.Sprintf("Uniqueness score:  %.3f", stats.UniquenessScore),
		fmt.Sprintf("Total submissions: %d", stats.TotalSubmissions),
		fmt.Sprintf("Backend:           %s", truncate(stats.Backend, 50)),
		fmt.Sprintf("Languages:         %s", strings.Join(stats.LanguagesUsed, ", ")),
		fmt.Sprintf("Provenance hash:   %s", truncate(stats.ProvenanceHash, 50)),
		fmt.Sprintf("Last updated:      %s", stats.LastUpdated.Format("2006-01-02 15:04:05 UTC")),
	}
	for _, row := range rows {
		fmt.Printf("║ %-*s ║\n", tableWidth-2, row)
	}

	fmt.Printf("╚%s╝\n\n", line)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
