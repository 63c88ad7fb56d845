// Package wavpeaks finds loudness peaks in a media file's soundtrack.
package wavpeaks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/forPelevin/hookcut/internal/domain/highlights"
	"github.com/forPelevin/hookcut/internal/types"
)

const resampleQuality = 4

// Extractor writes a mono PCM WAV of inMedia's audio.
type Extractor interface {
	ExtractAudio(ctx context.Context, inMedia, outWav string, sampleRate int) error
}

type Adapter struct {
	ex         Extractor
	workDir    string
	sampleRate int
	opt        highlights.PeakOptions
}

// New returns an adapter that extracts audio with ex into workDir (the
// system temp dir when empty). WAV inputs are decoded directly.
func New(ex Extractor, workDir string, sampleRate int, opt highlights.PeakOptions) *Adapter {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &Adapter{ex: ex, workDir: workDir, sampleRate: sampleRate, opt: opt}
}

func (a *Adapter) Peaks(ctx context.Context, mediaPath string) ([]types.AudioPeak, error) {
	wavPath := mediaPath
	if !strings.EqualFold(filepath.Ext(mediaPath), ".wav") {
		if a.ex == nil {
			return nil, errors.New("wavpeaks: no audio extractor for non-wav input")
		}
		dir, err := os.MkdirTemp(a.workDir, "peaks-")
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(dir)
		wavPath = filepath.Join(dir, "audio.wav")
		if err := a.ex.ExtractAudio(ctx, mediaPath, wavPath, a.sampleRate); err != nil {
			return nil, fmt.Errorf("wavpeaks extract: %w", err)
		}
	}

	f, err := os.Open(wavPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	samples, rate, err := DecodeMono(ctx, f, a.sampleRate)
	if err != nil {
		return nil, err
	}
	return highlights.DetectPeaks(samples, rate, a.opt), nil
}

// DecodeMono reads a WAV stream, downmixes it to mono and resamples it to
// targetRate when the stream's rate differs. It returns the samples and the
// rate they are at.
func DecodeMono(ctx context.Context, r io.Reader, targetRate int) ([]float64, int, error) {
	s, format, err := wav.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("wavpeaks decode: %w", err)
	}
	defer s.Close()

	var src beep.Streamer = s
	rate := int(format.SampleRate)
	if targetRate > 0 && rate != targetRate {
		src = beep.Resample(resampleQuality, format.SampleRate, beep.SampleRate(targetRate), s)
		rate = targetRate
	}

	var out []float64
	buf := make([][2]float64, 4096)
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		n, ok := src.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, (buf[i][0]+buf[i][1])/2)
		}
		if !ok {
			break
		}
	}
	if err := src.Err(); err != nil {
		return nil, 0, fmt.Errorf("wavpeaks stream: %w", err)
	}
	if len(out) == 0 {
		return nil, 0, errors.New("wavpeaks: no audio samples")
	}
	return out, rate, nil
}
