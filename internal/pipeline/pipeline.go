package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/forPelevin/hookcut/internal/config"
	"github.com/forPelevin/hookcut/internal/domain/highlights"
	"github.com/forPelevin/hookcut/internal/logging"
	"github.com/forPelevin/hookcut/internal/observe"
	"github.com/forPelevin/hookcut/internal/ports"
	"github.com/forPelevin/hookcut/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/hookcut/internal/ports/adapters/openaichat"
	"github.com/forPelevin/hookcut/internal/ports/adapters/openrouter"
	"github.com/forPelevin/hookcut/internal/ports/adapters/wavpeaks"
	"github.com/forPelevin/hookcut/internal/ports/adapters/whispercpp"
	"github.com/forPelevin/hookcut/internal/types"
	"github.com/forPelevin/hookcut/internal/usecase"
)

type Config struct {
	// Input is a transcript JSON file or a media file.
	Input string
	// MediaPath optionally pairs a transcript input with its media.
	MediaPath string
	OutDir    string
	Render    bool

	// CacheDir is the base directory for local artifacts (audio, transcripts, etc.).
	// If empty, defaults to ".cache".
	CacheDir string

	App     config.Config
	APIKey  string
	Log     *slog.Logger
	Metrics *observe.Metrics
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.Input); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.MediaPath != "" {
		if _, err := os.Stat(c.MediaPath); err != nil {
			return fmt.Errorf("stat media: %w", err)
		}
	}
	if err := c.App.Validate(); err != nil {
		return err
	}
	if !usecase.IsTranscript(c.Input) && c.App.Tools.WhisperModel == "" {
		return errors.New("whisper model path is required")
	}
	return validateBaseURL(c.App.Reorder)
}

func validateBaseURL(r config.Reorder) error {
	if r.Provider == config.ProviderOpenAI {
		return openaichat.ValidateBaseURL(r.BaseURL, r.AllowedHosts)
	}
	return openrouter.ValidateBaseURL(r.BaseURL, r.AllowedHosts)
}

// Report is the outcome of one input.
type Report struct {
	Input      string
	RunID      string
	OutDir     string
	Highlights []types.Highlight
	Manifest   types.Manifest
}

func Run(ctx context.Context, cfg Config) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	log := cfg.Log
	if log == nil {
		log = logging.Discard()
	}
	runID := uuid.New().String()
	log = log.With("run_id", runID, "input", cfg.Input)

	jobID := hash(cfg.Input)
	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	cacheDir := filepath.Join(baseCache, "runs", jobID)
	log.Debug("preparing workspace", "cache", cacheDir)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Report{}, err
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runOutDir := buildRunOutDir(outDir, cfg.Input, time.Now().UTC())
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return Report{}, err
	}
	log.Info("output run dir", "dir", runOutDir)

	deps, err := buildDeps(cfg, cacheDir, log)
	if err != nil {
		return Report{}, err
	}
	res, err := usecase.New(deps, cfg.App).Run(ctx, usecase.Input{
		InputPath: cfg.Input,
		MediaPath: cfg.MediaPath,
		CacheDir:  cacheDir,
		OutDir:    runOutDir,
		Render:    cfg.Render,
	})
	if err != nil {
		return Report{}, err
	}
	res.Manifest.RunID = runID

	if err := writeJSON(filepath.Join(runOutDir, "highlights.json"), res.Detect.Highlights); err != nil {
		return Report{}, err
	}
	manifestPath := filepath.Join(runOutDir, "manifest.json")
	if err := writeJSON(manifestPath, res.Manifest); err != nil {
		return Report{}, err
	}
	log.Info("manifest written", "clips", len(res.Manifest.Clips), "path", manifestPath)

	return Report{
		Input:      cfg.Input,
		RunID:      runID,
		OutDir:     runOutDir,
		Highlights: res.Detect.Highlights,
		Manifest:   res.Manifest,
	}, nil
}

// RunBatch runs independent inputs with at most jobs in flight. A failing
// input does not stop the others; failures are joined into the returned error
// and the matching report is left zero.
func RunBatch(ctx context.Context, cfg Config, inputs []string, jobs int) ([]Report, error) {
	if jobs <= 0 {
		jobs = 1
	}
	reports := make([]Report, len(inputs))
	errs := make([]error, len(inputs))

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, in := range inputs {
		g.Go(func() error {
			c := cfg
			c.Input = in
			rep, err := Run(ctx, c)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", in, err)
				return nil
			}
			reports[i] = rep
			return nil
		})
	}
	_ = g.Wait()
	return reports, errors.Join(errs...)
}

func buildDeps(cfg Config, cacheDir string, log *slog.Logger) (usecase.Deps, error) {
	v := ffmpeg.New(cfg.App.Tools.FFmpeg, cfg.App.Tools.FFprobe)
	deps := usecase.Deps{
		Video:   v,
		ASR:     whispercpp.New(cfg.App.Tools.WhisperBin, cfg.App.Tools.WhisperModel),
		Metrics: cfg.Metrics,
		Log:     log,
	}
	if cfg.App.Audio.Enabled {
		opt := highlights.DefaultPeakOptions()
		opt.ZScore = cfg.App.Audio.PeakZScore
		deps.Peaks = wavpeaks.New(v, cacheDir, cfg.App.Audio.SampleRate, opt)
	}
	r, err := newReorderer(cfg, log)
	if err != nil {
		return usecase.Deps{}, err
	}
	deps.Reorderer = r
	return deps, nil
}

// newReorderer returns nil when reordering is off or no API key is set.
func newReorderer(cfg Config, log *slog.Logger) (ports.Reorderer, error) {
	if cfg.App.Scoring.Mode == config.ModeLocal {
		return nil, nil
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		log.Warn("no api key, using local order", "mode", cfg.App.Scoring.Mode)
		return nil, nil
	}
	r := cfg.App.Reorder
	if err := validateBaseURL(r); err != nil {
		return nil, err
	}
	timeout := time.Duration(r.TimeoutSeconds) * time.Second
	if r.Provider == config.ProviderOpenAI {
		return openaichat.New(cfg.APIKey, r.Model, r.BaseURL, timeout), nil
	}
	return openrouter.New(cfg.APIKey, r.Model, r.BaseURL, timeout), nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, b, 0o644)
}

func buildRunOutDir(outRoot, input string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.PeakSource = (*wavpeaks.Adapter)(nil)
var _ ports.Reorderer = (*openrouter.Adapter)(nil)
var _ ports.Reorderer = (*openaichat.Adapter)(nil)
