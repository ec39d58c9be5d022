package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/plateworks/chanmerge/internal/compositor"
	"github.com/plateworks/chanmerge/internal/config"
	"github.com/plateworks/chanmerge/internal/display"
	"github.com/plateworks/chanmerge/internal/index"
	"github.com/plateworks/chanmerge/internal/logging"
	"github.com/plateworks/chanmerge/internal/naming"
	"github.com/plateworks/chanmerge/internal/planner"
	"github.com/plateworks/chanmerge/internal/probe"
)

// Run is the top-level batch entry point: discover → index → plan → execute.
// The returned error covers only an unreadable input directory; everything
// per-file or per-job lands in the report instead.
func Run(ctx context.Context, cfg *config.Config, comp compositor.Compositor) (RunStats, *Report, error) {
	log := logging.Component("pipeline")
	var stats RunStats
	report := NewReport()

	files, err := Discover(cfg.InputDir, cfg.Extensions)
	if err != nil {
		return stats, report, fmt.Errorf("discover scans: %w", err)
	}
	stats.Found = len(files)
	log.Info().Int("files", stats.Found).Str("dir", cfg.InputDir).Msg("discovered channel scans")

	ix := buildIndex(cfg, log, files, &stats, report)
	stats.Indexed = ix.Len()

	for _, c := range ix.Collisions() {
		stats.Collisions++
		report.Add(Event{
			Kind:   EventCollision,
			File:   c.Name,
			Detail: fmt.Sprintf("%s overwrote %s", c.Winner, c.Loser),
		})
		log.Warn().
			Str("name", c.Name).
			Str("kept", c.Winner).
			Str("lost", c.Loser).
			Msg("normalized-name collision, later file wins")
	}

	groups, excluded := ix.Groups()
	for _, e := range excluded {
		stats.Excluded++
		report.Add(Event{
			Kind:    EventExcluded,
			File:    e.Record.Name,
			ImageID: e.Record.ImageID,
			Detail:  string(e.Reason),
		})
		log.Info().
			Str("file", e.Record.Name).
			Str("reason", string(e.Reason)).
			Msg("excluded from merging")
	}

	jobs, incomplete := planner.Plan(groups)
	for _, inc := range incomplete {
		stats.Incomplete++
		report.Add(Event{
			Kind:    EventIncomplete,
			ImageID: inc.ImageID,
			Detail:  fmt.Sprintf("missing %v", inc.Missing),
		})
		log.Warn().
			Str("image", inc.ImageID).
			Interface("missing", inc.Missing).
			Msg("incomplete channel set, no merge")
	}
	stats.Planned = len(jobs)
	log.Info().Int("jobs", stats.Planned).Int("images", len(groups)).Msg("planned merges")

	if err := executeJobs(ctx, cfg, comp, log, jobs, &stats, report); err != nil {
		return stats, report, err
	}

	logSummary(log, cfg, &stats)
	return stats, report, nil
}

// buildIndex normalizes, parses and classifies every discovered file, probing
// scan headers along the way. Parse failures are reported and skipped.
func buildIndex(
	cfg *config.Config,
	log zerolog.Logger,
	files []string,
	stats *RunStats,
	report *Report,
) *index.Index {
	ix := index.New()
	for _, path := range files {
		base := filepath.Base(path)
		normalized := naming.Normalize(base)
		if normalized != base {
			log.Debug().Str("from", base).Str("to", normalized).Msg("normalized filename")
		}

		rec, err := naming.Parse(normalized, path, cfg.Extensions...)
		if err != nil {
			stats.ParseFailures++
			report.Add(Event{Kind: EventParseError, File: base, Detail: err.Error()})
			log.Warn().Str("file", base).Err(err).Msg("skipping unparseable file")
			continue
		}
		rec.Channel = naming.Classify(rec.Token)

		// Header probe is advisory: a corrupt file will fail its merge with
		// a proper job error later, so only warn here. Skipped on dry runs,
		// which must work on name lists alone.
		if !cfg.DryRun && rec.Channel.Mergeable() {
			inspectScan(log, path, base)
		}

		ix.Add(rec)
	}
	return ix
}

func inspectScan(log zerolog.Logger, path, base string) {
	info, err := probe.Inspect(path)
	if err != nil {
		log.Warn().Str("file", base).Err(err).Msg("cannot read TIFF header")
		return
	}
	log.Debug().
		Str("file", base).
		Str("size", info.Dimensions()).
		Str("model", info.Model).
		Msg("scan header")
	if !info.IsGray() {
		log.Warn().
			Str("file", base).
			Str("model", info.Model).
			Msg("expected a single-channel greyscale scan")
	}
}

// executeJobs runs the merge jobs, in parallel up to cfg.Jobs. Workers never
// return an error: a failed merge is recorded and its siblings proceed. Only
// context cancellation stops scheduling early.
func executeJobs(
	ctx context.Context,
	cfg *config.Config,
	comp compositor.Compositor,
	log zerolog.Logger,
	jobs []planner.MergeJob,
	stats *RunStats,
	report *Report,
) error {
	if len(jobs) == 0 {
		return nil
	}
	if !cfg.DryRun {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	var g errgroup.Group
	g.SetLimit(cfg.Jobs)
	var mu sync.Mutex

	for _, job := range jobs {
		outPath := filepath.Join(cfg.OutputDir, job.OutputName)

		if cfg.SkipExisting && !cfg.DryRun {
			if _, err := os.Stat(outPath); err == nil {
				// Workers spawned for earlier jobs may be updating stats.
				mu.Lock()
				stats.Skipped++
				mu.Unlock()
				log.Info().Str("out", job.OutputName).Msg("skip, output exists")
				continue
			}
		}

		if cfg.DryRun {
			stats.Merged++
			log.Info().
				Str("out", job.OutputName).
				Str("red", job.Red.Name).
				Str("green", job.Green.Name).
				Str("blue", job.Blue.Name).
				Msg("[dry] would merge")
			continue
		}

		job := job
		g.Go(func() error {
			if ctx.Err() != nil {
				mu.Lock()
				stats.Skipped++
				mu.Unlock()
				return nil
			}

			err := comp.Compose(ctx, job.Red.Path, job.Green.Path, job.Blue.Path, outPath)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				os.Remove(outPath) // don't leave partial output behind
				stats.Failed++
				report.Add(Event{
					Kind:    EventMergeFailed,
					File:    job.OutputName,
					ImageID: job.ImageID,
					Detail:  err.Error(),
				})
				log.Error().
					Str("out", job.OutputName).
					Str("image", job.ImageID).
					Err(err).
					Msg("merge failed")
				return nil
			}

			stats.Merged++
			if fi, statErr := os.Stat(outPath); statErr == nil {
				stats.OutputBytes += fi.Size()
			}
			log.Info().
				Str("out", job.OutputName).
				Str("red", job.Red.Name).
				Str("green", job.Green.Name).
				Str("blue", job.Blue.Name).
				Msg("merged")
			return nil
		})
	}

	g.Wait() // workers always return nil
	if ctx.Err() != nil {
		log.Warn().Msg("interrupted")
	}
	return nil
}

func logSummary(log zerolog.Logger, cfg *config.Config, stats *RunStats) {
	ev := log.Info().
		Int("merged", stats.Merged).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed)
	if stats.ParseFailures > 0 {
		ev = ev.Int("unparseable", stats.ParseFailures)
	}
	if stats.Collisions > 0 {
		ev = ev.Int("collisions", stats.Collisions)
	}
	if stats.Excluded > 0 {
		ev = ev.Int("excluded", stats.Excluded)
	}
	if stats.Incomplete > 0 {
		ev = ev.Int("incomplete", stats.Incomplete)
	}
	if cfg.DryRun {
		ev.Msg("done (dry run)")
		return
	}
	ev.Str("written", display.FormatBytes(stats.OutputBytes)).Msg("done")
}
