// Command kiroku runs the demo driver for the kiroku library: it records
// multilingual reasoning sessions, folds their memory, emits provenance
// logs, aggregates a contributor leaderboard, and renders the results as
// tables. It is a consumer of the public API; nothing here is required to
// use the library.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/metric"

	"github.com/ashita-ai/kiroku"
	"github.com/ashita-ai/kiroku/internal/config"
	"github.com/ashita-ai/kiroku/internal/storage"
	"github.com/ashita-ai/kiroku/internal/telemetry"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run0())
}

func run0() int {
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("KIROKU_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		slog.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	var archive *storage.Archive
	if cfg.ArchivePath != "" {
		archive, err = storage.Open(cfg.ArchivePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := archive.Close(); err != nil {
				logger.Warn("archive close", "error", err)
			}
		}()
		logger.Info("provenance archive open", "path", cfg.ArchivePath)
	}

	meter := telemetry.Meter("kiroku/demo")
	sessionsRecorded, _ := meter.Int64Counter("kiroku.sessions.recorded",
		metric.WithDescription("Demo sessions recorded"))
	submissionsAggregated, _ := meter.Int64Counter("kiroku.submissions.aggregated",
		metric.WithDescription("Provenance submissions aggregated into the leaderboard"))

	d := &demo{
		cfg:         cfg,
		logger:      logger,
		archive:     archive,
		sessions:    sessionsRecorded,
		submissions: submissionsAggregated,
	}

	banner("kiroku — reasoning-trace provenance demo")

	if err := d.multilingualReasoning(ctx); err != nil {
		return err
	}
	if err := d.contributorLeaderboard(ctx); err != nil {
		return err
	}
	if err := d.memoryAndProvenance(ctx); err != nil {
		return err
	}

	banner("demo complete")
	return nil
}

// exportJSON writes one exported document under the configured export
// directory. A configured directory that cannot be written is an error;
// an unconfigured one disables export silently.
func (d *demo) exportJSON(name, doc string) error {
	if d.cfg.ExportDir == "" {
		return nil
	}
	if err := os.MkdirAll(d.cfg.ExportDir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(d.cfg.ExportDir, name)
	if err := os.WriteFile(path, []byte(doc+"\n"), 0o644); err != nil {
		return fmt.Errorf("write export %s: %w", name, err)
	}
	d.logger.Info("exported document", "path", path)
	return nil
}

// archiveSubmission persists one provenance log when the archive is
// configured.
func (d *demo) archiveSubmission(ctx context.Context, prov kiroku.ProvenanceLog, languages []string) error {
	if d.archive == nil {
		return nil
	}
	sequence := make([]string, len(prov.AgentSequence))
	for i, kind := range prov.AgentSequence {
		sequence[i] = kind.String()
	}
	_, err := d.archive.SaveSubmission(ctx, storage.Submission{
		ContributorID:   prov.ContributorID,
		Backend:         prov.Backend,
		TraceHash:       prov.TraceHash,
		TraceDepth:      prov.TraceDepth,
		UniquenessScore: prov.UniquenessScore,
		AgentSequence:   sequence,
		Languages:       languages,
		SubmittedAt:     prov.Timestamp,
	})
	return err
}
