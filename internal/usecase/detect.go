package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/forPelevin/hookcut/internal/config"
	"github.com/forPelevin/hookcut/internal/domain/highlights"
	"github.com/forPelevin/hookcut/internal/types"
)

const (
	PathNone     = "none"
	PathHooks    = "hooks"
	PathFallback = "fallback"

	durationEps = 1e-9
)

type DetectInput struct {
	Transcript types.Transcript
	// AudioPath feeds the peak source. Empty disables the booster.
	AudioPath string
	// MediaDuration clamps highlight ends when positive.
	MediaDuration float64
}

type DetectResult struct {
	// Highlights is never nil so it serializes as [] when empty.
	Highlights   []types.Highlight
	Path         string
	Reordered    bool
	Degradations []error
}

// Detect runs the full highlight pipeline. Collaborator failures are recorded
// in Degradations; Detect itself never fails.
func (u Usecase) Detect(ctx context.Context, in DetectInput) DetectResult {
	units := highlights.SanitizeUnits(in.Transcript.Units())
	if len(units) == 0 {
		return u.degenerate(ctx, fmt.Errorf("%w: no usable transcript units", ErrInputDegenerate))
	}
	res := DetectResult{Highlights: []types.Highlight{}, Path: PathHooks}
	k := u.cfg.Scoring.MaxClips

	var peaks Outcome[[]types.AudioPeak]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		peaks = u.audioPeaks(gctx, in.AudioPath)
		return nil
	})
	hooks := u.textHooks(ctx, units)
	_ = g.Wait()

	hooks = fitDuration(hooks, in.MediaDuration, u.cfg.Clip.MinSeconds, u.cfg.Clip.MaxSeconds)
	if !peaks.Ok() {
		u.record(ctx, &res, peaks.Reason())
	} else if len(peaks.Value()) > 0 {
		hooks = highlights.Boost(hooks, peaks.Value(), u.cfg.Audio.PeakRadiusSec, u.cfg.Audio.PeakBonus)
	}
	hooks = highlights.Dedupe(highlights.SortByScore(hooks), u.cfg.Scoring.IoUThresh)

	var out []types.Highlight
	if len(hooks) == 0 {
		res.Path = PathFallback
		out = u.fallback(ctx, units, in.MediaDuration)
	} else {
		out = toHighlights(hooks)
		if u.reorderEnabled() {
			pool := toCandidates(hooks, 2*k)
			ro := u.reorder(ctx, in.Transcript, pool, k)
			if ro.Ok() {
				out = ro.Value()
				res.Reordered = true
			} else {
				u.record(ctx, &res, ro.Reason())
			}
		}
	}
	if len(out) > k {
		out = out[:k]
	}
	res.Highlights = fitRounded(types.RoundHighlights(out), u.cfg.Clip.MinSeconds, u.cfg.Clip.MaxSeconds)
	u.d.Metrics.RecordResult(ctx, len(res.Highlights), res.Path == PathFallback)
	u.log.Info("highlights detected", "count", len(res.Highlights), "path", res.Path, "reordered", res.Reordered)
	return res
}

// textHooks runs the deterministic text stages and returns refined hooks.
func (u Usecase) textHooks(ctx context.Context, units []types.Unit) []highlights.Hook {
	opt := u.engineOptions()
	opt.OnStage = func(stage string, d time.Duration) {
		u.d.Metrics.RecordStage(ctx, stage, d.Seconds())
	}
	hooks := highlights.FindHooks(units, opt)
	u.log.Debug("text stages done", "units", len(units), "hooks", len(hooks))
	return hooks
}

func (u Usecase) engineOptions() highlights.Options {
	s := u.cfg.Scoring
	opt := highlights.DefaultOptions()
	opt.Sentences.MaxGap = s.MaxGapSec
	opt.Sentences.MaxDuration = s.MaxSentenceSec
	opt.Window = s.WindowSec
	opt.Hop = s.StrideSec
	opt.TopK = 3 * s.MaxClips
	opt.IoUThresh = s.IoUThresh
	opt.Refine.MergeNextIfCliff = s.MergeCliffhangers
	opt.Refine.MaxLen = u.cfg.Clip.MaxSeconds
	opt.Refine.MinLen = u.cfg.Clip.MinSeconds
	opt.Lexicon = u.lex
	return opt
}

func (u Usecase) audioPeaks(ctx context.Context, audioPath string) Outcome[[]types.AudioPeak] {
	if !u.cfg.Audio.Enabled || u.d.Peaks == nil || audioPath == "" {
		return Ok[[]types.AudioPeak](nil)
	}
	t := time.Now()
	defer u.stage(ctx, "audio", t)
	peaks, err := u.d.Peaks.Peaks(ctx, audioPath)
	if err != nil {
		return Degraded[[]types.AudioPeak](fmt.Errorf("%w: %v", ErrAudioAnalysisUnavailable, err))
	}
	u.log.Debug("audio peaks", "count", len(peaks))
	return Ok(peaks)
}

func (u Usecase) reorderEnabled() bool {
	return u.cfg.Scoring.Mode != config.ModeLocal && u.d.Reorderer != nil
}

func (u Usecase) reorder(ctx context.Context, tr types.Transcript, pool []types.Candidate, k int) Outcome[[]types.Highlight] {
	t := time.Now()
	defer u.stage(ctx, "reorder", t)
	got, err := u.d.Reorderer.Reorder(ctx, tr, pool, k)
	if err != nil {
		return Degraded[[]types.Highlight](fmt.Errorf("%w: %v", ErrExternalServiceUnavailable, err))
	}
	if len(got) == 0 {
		return Degraded[[]types.Highlight](fmt.Errorf("%w: empty response", ErrExternalServiceUnavailable))
	}
	return Ok(got)
}

func (u Usecase) fallback(ctx context.Context, units []types.Unit, mediaEnd float64) []types.Highlight {
	t := time.Now()
	defer u.stage(ctx, "fallback", t)
	spans := highlights.WordDensityFallback(units, highlights.FallbackOptions{
		Span:      30,
		Step:      10,
		TopK:      u.cfg.Scoring.MaxClips,
		MinLen:    u.cfg.Clip.MinSeconds,
		MaxLen:    u.cfg.Clip.MaxSeconds,
		IoUThresh: u.cfg.Scoring.IoUThresh,
	})
	out := make([]types.Highlight, 0, len(spans))
	for _, h := range spans {
		if mediaEnd > 0 && h.End > mediaEnd {
			h.End = mediaEnd
		}
		if inBounds(h.Duration(), u.cfg.Clip.MinSeconds, u.cfg.Clip.MaxSeconds) {
			out = append(out, h)
		}
	}
	u.log.Info("using word-density fallback", "spans", len(out))
	return out
}

// degenerate is the result for unusable input: no highlights, one reason.
func (u Usecase) degenerate(ctx context.Context, reason error) DetectResult {
	res := DetectResult{Highlights: []types.Highlight{}, Path: PathNone}
	u.record(ctx, &res, reason)
	u.d.Metrics.RecordResult(ctx, 0, false)
	return res
}

func (u Usecase) record(ctx context.Context, res *DetectResult, reason error) {
	res.Degradations = append(res.Degradations, reason)
	u.d.Metrics.RecordDegradation(ctx, reasonCode(reason))
	u.log.Warn("degraded", "reason", reasonCode(reason), "error", reason)
}

func (u Usecase) stage(ctx context.Context, name string, start time.Time) {
	u.d.Metrics.RecordStage(ctx, name, time.Since(start).Seconds())
}

// fitDuration clamps hooks to the media end when known and drops those whose
// length falls outside [minS, maxS].
func fitDuration(hooks []highlights.Hook, mediaEnd, minS, maxS float64) []highlights.Hook {
	out := make([]highlights.Hook, 0, len(hooks))
	for _, h := range hooks {
		if mediaEnd > 0 && h.End > mediaEnd {
			h.End = mediaEnd
		}
		if inBounds(h.End-h.Start, minS, maxS) {
			out = append(out, h)
		}
	}
	return out
}

// fitRounded repairs spans that 2-decimal rounding pushed just past maxS and
// drops any that no longer fit.
func fitRounded(hs []types.Highlight, minS, maxS float64) []types.Highlight {
	out := make([]types.Highlight, 0, len(hs))
	for _, h := range hs {
		if h.Duration() > maxS+durationEps {
			h.End -= 0.01
			h = types.RoundHighlights([]types.Highlight{h})[0]
		}
		if inBounds(h.Duration(), minS, maxS) {
			out = append(out, h)
		}
	}
	return out
}

func inBounds(d, minS, maxS float64) bool {
	return d > 0 && d+durationEps >= minS && d-durationEps <= maxS
}

func toHighlights(hooks []highlights.Hook) []types.Highlight {
	out := make([]types.Highlight, len(hooks))
	for i, h := range hooks {
		out[i] = types.Highlight{Start: h.Start, End: h.End}
	}
	return out
}

func toCandidates(hooks []highlights.Hook, n int) []types.Candidate {
	if len(hooks) > n {
		hooks = hooks[:n]
	}
	out := make([]types.Candidate, len(hooks))
	for i, h := range hooks {
		out[i] = types.Candidate{Start: h.Start, End: h.End, Score: h.Score, Text: h.Text}
	}
	return out
}
