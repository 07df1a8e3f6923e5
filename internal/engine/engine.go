package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/reelforge/internal/config"
	"github.com/ivlev/reelforge/internal/system"
	"github.com/ivlev/reelforge/internal/timeline"
)

// ErrInvalidRange is returned when the requested frame range is empty or negative.
var ErrInvalidRange = errors.New("invalid frame range")

// Project evaluates a timeline over a frame range and exports the result
type Project struct {
	Config   *config.Config
	Timeline *timeline.Timeline
	logger   zerolog.Logger
}

// NewProject wires a run configuration to a built timeline
func NewProject(cfg *config.Config, tl *timeline.Timeline, logger zerolog.Logger) *Project {
	return &Project{
		Config:   cfg,
		Timeline: tl,
		logger:   logger.With().Str("component", "engine").Logger(),
	}
}

// Range resolves the configured [from, to) span against the timeline length
func (p *Project) Range() (int, int, error) {
	from, to := p.Config.FrameFrom, p.Config.FrameTo
	if to == 0 {
		to = p.Timeline.Config().TotalFrames
	}
	if from < 0 || to <= from {
		return 0, 0, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, from, to)
	}
	return from, to, nil
}

// Evaluate computes the layer stack of every frame in [from, to) on a pool of
// workers. Frames are independent, so workers share nothing but the read-only
// timeline; each result lands in its own slot and the output is in frame order.
func (p *Project) Evaluate(ctx context.Context, from, to int) ([]FrameStack, error) {
	if from < 0 || to <= from {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, from, to)
	}

	count := to - from
	results := make([]FrameStack, count)
	workers := system.ResolveWorkers(p.Config.Workers, count)

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int, workers)

	g.Go(func() error {
		defer close(jobs)
		for f := from; f < to; f++ {
			select {
			case jobs <- f:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for f := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				layers, err := p.Timeline.LayersAt(f)
				if err != nil {
					return fmt.Errorf("frame %d: %w", f, err)
				}
				results[f-from] = FrameStack{Frame: f, Layers: layers}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Debug().Int("from", from).Int("to", to).Int("workers", workers).Msg("frames evaluated")
	return results, nil
}

// Run evaluates the configured range, writes the plan to Config.OutputPath
// (when set) and returns it.
func (p *Project) Run(ctx context.Context) (*Plan, error) {
	startTime := time.Now()

	from, to, err := p.Range()
	if err != nil {
		return nil, err
	}

	tl := p.Timeline
	schedule := tl.Schedule()
	if schedule.Overlaps() {
		p.logger.Warn().
			Int("cta_start", schedule.CTA.Start).
			Msg("cta window pulled over the tail steps to fit the video length")
	}
	if gap := schedule.TailGap(tl.Config().TotalFrames); gap > 0 {
		p.logger.Info().Int("frames", gap).Msg("no narrative scene after the cta")
	}

	p.logger.Info().
		Str("title", tl.Title()).
		Int("fps", tl.Config().FPS).
		Int("from", from).
		Int("to", to).
		Int("captions", len(tl.Captions())).
		Int("beats", len(tl.Overlays())).
		Msg("evaluating timeline")

	evalStart := time.Now()
	frames, err := p.Evaluate(ctx, from, to)
	if err != nil {
		return nil, err
	}
	evalTime := time.Since(evalStart)

	plan := &Plan{
		Version:     PlanVersion,
		RunID:       uuid.NewString(),
		Title:       tl.Title(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Timeline:    tl.Config(),
		Schedule:    schedule,
		Overlays:    tl.Overlays(),
		From:        from,
		To:          to,
		Frames:      frames,
	}

	if p.Config.OutputPath != "" {
		if err := os.MkdirAll(filepath.Dir(p.Config.OutputPath), 0755); err != nil {
			return nil, err
		}
		if err := WritePlan(plan, p.Config.OutputPath); err != nil {
			return nil, fmt.Errorf("write plan: %w", err)
		}
		p.logger.Info().Str("path", p.Config.OutputPath).Str("run_id", plan.RunID).Msg("plan written")
	}

	if p.Config.ShowStats {
		p.report(plan, time.Since(startTime), evalTime)
	}

	return plan, nil
}

func (p *Project) report(plan *Plan, total, eval time.Duration) {
	frames := len(plan.Frames)
	fps := float64(frames) / eval.Seconds()
	workers := system.ResolveWorkers(p.Config.Workers, frames)

	ev := p.logger.Info().
		Str("build", p.Config.BuildVersion).
		Str("run_id", plan.RunID).
		Int("frames", frames).
		Int("workers", workers).
		Dur("total", total).
		Dur("evaluate", eval).
		Float64("frames_per_sec", fps)

	mem, err := system.MemoryReport()
	if err != nil {
		p.logger.Warn().Err(err).Msg("memory stats unavailable")
	} else {
		ev = ev.Uint64("heap_mb", mem.HeapMB).Uint64("host_available_mb", mem.AvailableMB).Float64("host_used_pct", mem.UsedPercent)
	}
	ev.Msg("performance report")

	if p.Config.BenchmarkLog == "" {
		return
	}

	entry := fmt.Sprintf("[%s] Build: %s | Title: %s | Frames: %d | Workers: %d | Total: %.3fs | Evaluate: %.3fs | FPS: %.1f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		plan.Title,
		frames,
		workers,
		total.Seconds(),
		eval.Seconds(),
		fps,
	)

	f, err := os.OpenFile(p.Config.BenchmarkLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		p.logger.Warn().Err(err).Str("path", p.Config.BenchmarkLog).Msg("could not write benchmark log")
		return
	}
	defer f.Close()
	f.WriteString(entry)
}
