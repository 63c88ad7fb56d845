package ports

import (
	"context"
	"time"

	"github.com/forPelevin/hookcut/internal/types"
)

type VideoTool interface {
	ExtractAudioMono16k(ctx context.Context, inMedia, outWav string) error
	RenderClip(ctx context.Context, inMedia string, start, end time.Duration, outMP4 string) error
	ProbeDuration(ctx context.Context, inMedia string) (time.Duration, error)
}

type ASR interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error)
}

// PeakSource extracts loudness peaks from a media file.
type PeakSource interface {
	Peaks(ctx context.Context, mediaPath string) ([]types.AudioPeak, error)
}

// Reorderer asks an external service to order candidates by appeal. It
// returns at most k highlights drawn from cands.
type Reorderer interface {
	Reorder(ctx context.Context, tr types.Transcript, cands []types.Candidate, k int) ([]types.Highlight, error)
}
