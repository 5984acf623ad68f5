package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/ashita-ai/kiroku"
	"github.com/ashita-ai/kiroku/internal/config"
	"github.com/ashita-ai/kiroku/internal/storage"
)

type demo struct {
	cfg         config.Config
	logger      *slog.Logger
	archive     *storage.Archive
	sessions    metric.Int64Counter
	submissions metric.Int64Counter
}

// multilingualReasoning walks one session through a cross-language
// research question: classify in Indonesian, translate, reason and
// retrieve in English, synthesize back in Indonesian.
func (d *demo) multilingualReasoning(ctx context.Context) error {
	heading("Demo 1: Multilingual Scientific Reasoning")

	s := kiroku.NewSession("nurcholish", "quantum_backend_v3")
	d.sessions.Add(ctx, 1)

	s.LogEvent(kiroku.KindClassification,
		"Apa aplikasi quantum computing untuk optimasi logistik di Indonesia?",
		"Task: quantum_optimization, Domain: Logistics, Language: Indonesian",
		"id", 0.94)
	s.LogEvent(kiroku.KindTranslation,
		"Translate to English for broader literature search",
		"What are quantum computing applications for logistics optimization in Indonesia?",
		"en", 0.92)
	s.LogEvent(kiroku.KindReasoning,
		"Analyze quantum algorithms for logistics",
		"QAOA and VQE can optimize routing, scheduling, and resource allocation",
		"en", 0.95)
	s.LogEvent(kiroku.KindRetrieval,
		"Search Indonesian research papers",
		"Found 5 papers from ITB and UI on quantum logistics optimization",
		"en", 0.89)
	s.LogEvent(kiroku.KindValidation,
		"Verify practical implementations",
		"Confirmed pilot projects in Jakarta and Surabaya",
		"en", 0.91)
	s.LogEvent(kiroku.KindSynthesis,
		"Compile final answer in Indonesian",
		"Quantum computing digunakan untuk optimasi rute pengiriman dan penjadwalan di Indonesia",
		"id", 0.96)

	fmt.Printf("Reasoning trace: %d steps, %d transitions, languages %v\n",
		s.TraceDepth(), s.TransitionCount(), s.Languages())

	fold := s.FoldMemory()
	fmt.Printf("Memory fold: compression %.2f%%, insights %v\n",
		fold.CompressionRatio*100, fold.KeyInsights)

	prov := s.EmitProvenance()
	fmt.Printf("Provenance: hash %s..., uniqueness %.3f\n\n",
		prov.TraceHash[:16], prov.UniquenessScore)

	return d.archiveSubmission(ctx, prov, s.Languages())
}

// contributorLeaderboard builds sessions for several contributors
// concurrently and aggregates them into one leaderboard. Each session is
// owned by exactly one goroutine; AddEntry is serialized behind a mutex
// because rank recomputation reads-then-writes the full entry set.
func (d *demo) contributorLeaderboard(ctx context.Context) error {
	heading("Demo 2: Contributor Leaderboard")

	board := kiroku.NewLeaderboard()
	var mu sync.Mutex

	submit := func(ctx context.Context, s *kiroku.Session) error {
		prov := s.EmitProvenance()
		langs := s.Languages()

		mu.Lock()
		board.AddEntry(prov, langs)
		mu.Unlock()

		d.submissions.Add(ctx, 1)
		d.logger.Debug("submission aggregated",
			"contributor", prov.ContributorID,
			"depth", prov.TraceDepth,
			"uniqueness", prov.UniquenessScore)
		return d.archiveSubmission(ctx, prov, langs)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Deep multilingual trace.
		s := kiroku.NewSession("nurcholish", "quantum_backend_v3")
		d.sessions.Add(gctx, 1)
		kinds := []kiroku.AgentKind{
			kiroku.KindClassification, kiroku.KindReasoning, kiroku.KindTranslation,
			kiroku.KindRetrieval, kiroku.KindValidation, kiroku.KindSynthesis,
		}
		for i := 0; i < 25; i++ {
			lang := "id"
			if i%2 == 1 {
				lang = "en"
			}
			s.LogEvent(kinds[i%len(kinds)], "input", "output", lang, 0.9)
		}
		return submit(gctx, s)
	})

	g.Go(func() error {
		// Moderate depth, single agent kind.
		s := kiroku.NewSession("alice_researcher", "quantum_backend_v2")
		d.sessions.Add(gctx, 1)
		for i := 0; i < 15; i++ {
			s.LogEvent(kiroku.KindReasoning, "input", "output", "en", 0.88)
		}
		return submit(gctx, s)
	})

	g.Go(func() error {
		// Distinct content every step: high uniqueness.
		s := kiroku.NewSession("bob_scientist", "quantum_backend_v3")
		d.sessions.Add(gctx, 1)
		kinds := []kiroku.AgentKind{
			kiroku.KindClassification, kiroku.KindReasoning,
			kiroku.KindAction, kiroku.KindSynthesis,
		}
		for i := 0; i < 20; i++ {
			s.LogEvent(kinds[i%len(kinds)],
				fmt.Sprintf("unique_%d", i), fmt.Sprintf("result_%d", i), "en", 0.92)
		}
		return submit(gctx, s)
	})

	g.Go(func() error {
		// Repeat submitter.
		for submission := 0; submission < 3; submission++ {
			s := kiroku.NewSession("charlie_dev", "quantum_backend_v1")
			d.sessions.Add(gctx, 1)
			for i := 0; i < 10; i++ {
				s.LogEvent(kiroku.KindReasoning, "input", "output", "en", 0.85)
			}
			if err := submit(gctx, s); err != nil {
				return err
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	renderLeaderboard(board, kiroku.ByCombined, d.cfg.TopN)

	if top := board.TopN(1, kiroku.ByCombined); len(top) > 0 {
		if stats, ok := board.Stats(top[0].ContributorID); ok {
			renderContributor(stats)
		}
	}

	doc, err := board.ExportJSON(kiroku.ByCombined)
	if err != nil {
		return err
	}
	return d.exportJSON("leaderboard.json", doc)
}

// memoryAndProvenance builds a long mixed trace and walks through memory
// folding, provenance emission, profile updates, and JSON export.
func (d *demo) memoryAndProvenance(ctx context.Context) error {
	heading("Demo 3: Memory Folding & Provenance Logging")

	s := kiroku.NewSession("demo_user", "quantum_backend_v3")
	d.sessions.Add(ctx, 1)

	languages := []string{"en", "id", "zh", "es", "fr"}
	kinds := []kiroku.AgentKind{
		kiroku.KindClassification, kiroku.KindReasoning, kiroku.KindTranslation,
		kiroku.KindRetrieval, kiroku.KindValidation, kiroku.KindSynthesis,
	}
	for i := 0; i < 30; i++ {
		s.LogEvent(kinds[i%len(kinds)],
			fmt.Sprintf("Complex input step %d", i),
			fmt.Sprintf("Detailed output for step %d", i),
			languages[i%len(languages)],
			0.75+float64(i)*0.005)
	}

	fmt.Printf("Trace: %d events, %d transitions, session %s\n",
		s.TraceDepth(), s.TransitionCount(), s.SessionID)

	fold := s.FoldMemory()
	fmt.Printf("Summary (%d chars): %s\n", len(fold.Summary), fold.Summary)
	fmt.Printf("Compression ratio: %.2f%%\n", fold.CompressionRatio*100)
	for _, insight := range fold.KeyInsights {
		fmt.Printf("  - %s\n", insight)
	}
	for lang, count := range fold.LanguageDistribution {
		fmt.Printf("  %s: %d events\n", lang, count)
	}

	prov := s.EmitProvenance()
	fmt.Printf("Provenance hash: %s\n", prov.TraceHash)
	fmt.Printf("Uniqueness score: %.3f\n", prov.UniquenessScore)

	s.UpdateProfile()
	fmt.Printf("Profile: %d sessions, avg depth %.2f, preferred languages %v\n\n",
		s.Profile.TotalSessions, s.Profile.AvgTraceDepth, s.Profile.PreferredLanguages)

	traceDoc, err := s.ExportTraceJSON()
	if err != nil {
		return err
	}
	if err := d.exportJSON("trace.json", traceDoc); err != nil {
		return err
	}

	provDoc, err := s.ExportProvenanceJSON()
	if err != nil {
		return err
	}
	if err := d.exportJSON("provenance.json", provDoc); err != nil {
		return err
	}

	return d.archiveSubmission(ctx, prov, s.Languages())
}
