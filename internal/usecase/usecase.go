package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/forPelevin/hookcut/internal/config"
	"github.com/forPelevin/hookcut/internal/domain/highlights"
	"github.com/forPelevin/hookcut/internal/logging"
	"github.com/forPelevin/hookcut/internal/observe"
	"github.com/forPelevin/hookcut/internal/ports"
	"github.com/forPelevin/hookcut/internal/types"
)

type Deps struct {
	Video     ports.VideoTool
	ASR       ports.ASR
	Peaks     ports.PeakSource
	Reorderer ports.Reorderer
	Metrics   *observe.Metrics
	Log       *slog.Logger
}

type Usecase struct {
	d   Deps
	cfg config.Config
	lex *highlights.Lexicon
	log *slog.Logger
}

func New(d Deps, cfg config.Config) Usecase {
	log := d.Log
	if log == nil {
		log = logging.Discard()
	}
	return Usecase{d: d, cfg: cfg, lex: highlights.DefaultLexicon(), log: log}
}

type Input struct {
	// InputPath is a transcript JSON file or a media file.
	InputPath string
	// MediaPath optionally pairs a transcript input with its media for audio
	// peaks, duration clamping and rendering.
	MediaPath string
	CacheDir  string
	OutDir    string
	Render    bool
}

type Result struct {
	Detect   DetectResult
	Manifest types.Manifest
}

// IsTranscript reports whether path names a transcript JSON file rather than
// media.
func IsTranscript(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Run loads or transcribes the input, detects highlights and optionally
// renders them. Only plumbing failures (unreadable input, tool errors) are
// returned; analysis problems surface as degradations.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	media := in.MediaPath
	var (
		tr        types.Transcript
		audioPath string
	)
	if IsTranscript(in.InputPath) {
		b, err := os.ReadFile(in.InputPath)
		if err != nil {
			return Result{}, fmt.Errorf("read transcript: %w", err)
		}
		parsed, err := types.ParseTranscript(b)
		if err != nil {
			res := u.degenerate(ctx, fmt.Errorf("%w: %v", ErrInputDegenerate, err))
			return Result{Detect: res, Manifest: u.manifest(in, res, false)}, nil
		}
		tr = parsed
		audioPath = media
	} else {
		if u.d.Video == nil || u.d.ASR == nil {
			return Result{}, errors.New("media input requires video and asr tools")
		}
		media = in.InputPath
		if err := os.MkdirAll(in.CacheDir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create cache dir: %w", err)
		}
		wav := filepath.Join(in.CacheDir, "audio.wav")
		t := time.Now()
		if err := u.d.Video.ExtractAudioMono16k(ctx, media, wav); err != nil {
			return Result{}, err
		}
		u.stage(ctx, "extract", t)

		t = time.Now()
		got, err := u.d.ASR.Transcribe(ctx, wav, in.CacheDir)
		if err != nil {
			return Result{}, err
		}
		u.stage(ctx, "transcribe", t)
		tr = got
		audioPath = wav
	}

	mediaEnd := u.probe(ctx, media)
	res := u.Detect(ctx, DetectInput{
		Transcript:    tr,
		AudioPath:     audioPath,
		MediaDuration: mediaEnd,
	})

	rendered := false
	if in.Render {
		if media == "" || u.d.Video == nil {
			return Result{}, errors.New("render requires a media input")
		}
		if err := u.render(ctx, media, in.OutDir, res.Highlights, mediaEnd); err != nil {
			return Result{}, err
		}
		rendered = true
	}
	return Result{Detect: res, Manifest: u.manifest(in, res, rendered)}, nil
}

func (u Usecase) probe(ctx context.Context, media string) float64 {
	if media == "" || u.d.Video == nil {
		return 0
	}
	d, err := u.d.Video.ProbeDuration(ctx, media)
	if err != nil {
		u.log.Debug("probe duration failed", "media", media, "error", err)
		return 0
	}
	return d.Seconds()
}

// render cuts each highlight padded by the configured buffers.
func (u Usecase) render(ctx context.Context, media, outDir string, hs []types.Highlight, mediaEnd float64) error {
	clipsDir := filepath.Join(outDir, "clips")
	if err := os.MkdirAll(clipsDir, 0o755); err != nil {
		return fmt.Errorf("create clips dir: %w", err)
	}
	t := time.Now()
	defer u.stage(ctx, "render", t)
	for i, h := range hs {
		start := math.Max(0, h.Start-u.cfg.Clip.BufferIn)
		end := h.End + u.cfg.Clip.BufferOut
		if mediaEnd > 0 {
			end = math.Min(end, mediaEnd)
		}
		out := filepath.Join(clipsDir, clipID(i)+".mp4")
		if err := u.d.Video.RenderClip(ctx, media, seconds(start), seconds(end), out); err != nil {
			return fmt.Errorf("render clip %s: %w", clipID(i), err)
		}
		u.log.Info("clip rendered", "id", clipID(i), "start", start, "end", end)
	}
	return nil
}

func (u Usecase) manifest(in Input, res DetectResult, rendered bool) types.Manifest {
	m := types.Manifest{
		Input: in.InputPath,
		Mode:  u.cfg.Scoring.Mode,
		Path:  res.Path,
		Clips: make([]types.ManifestClip, 0, len(res.Highlights)),
	}
	for _, err := range res.Degradations {
		m.Degradations = append(m.Degradations, err.Error())
	}
	for i, h := range res.Highlights {
		c := types.ManifestClip{ID: clipID(i), StartSec: h.Start, EndSec: h.End}
		if rendered {
			c.File = filepath.ToSlash(filepath.Join("clips", c.ID+".mp4"))
		}
		m.Clips = append(m.Clips, c)
	}
	return m
}

func clipID(i int) string { return fmt.Sprintf("%03d", i+1) }

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
