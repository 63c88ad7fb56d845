package highlights

import (
	"math"

	"github.com/forPelevin/hookcut/internal/types"
)

type PeakOptions struct {
	FrameMS float64
	HopMS   float64
	ZScore  float64
}

func DefaultPeakOptions() PeakOptions {
	return PeakOptions{FrameMS: 250, HopMS: 125, ZScore: 1.2}
}

// DetectPeaks computes frame RMS over a mono signal and returns the frames
// whose z-score exceeds opt.ZScore, timed at the frame centre. Non-finite
// samples count as silence.
func DetectPeaks(samples []float64, sampleRate int, opt PeakOptions) []types.AudioPeak {
	def := DefaultPeakOptions()
	if opt.FrameMS <= 0 {
		opt.FrameMS = def.FrameMS
	}
	if opt.HopMS <= 0 {
		opt.HopMS = def.HopMS
	}
	if opt.ZScore == 0 {
		opt.ZScore = def.ZScore
	}
	if sampleRate <= 0 {
		return nil
	}
	frame := int(float64(sampleRate) * opt.FrameMS / 1000)
	hop := int(float64(sampleRate) * opt.HopMS / 1000)
	if frame <= 0 || hop <= 0 || len(samples) < frame {
		return nil
	}

	rms := make([]float64, 0, (len(samples)-frame)/hop+1)
	for off := 0; off+frame <= len(samples); off += hop {
		var sum float64
		for _, s := range samples[off : off+frame] {
			if finite(s) {
				sum += s * s
			}
		}
		rms = append(rms, math.Sqrt(sum/float64(frame)))
	}

	var mean float64
	for _, r := range rms {
		mean += r
	}
	mean /= float64(len(rms))
	var variance float64
	for _, r := range rms {
		variance += (r - mean) * (r - mean)
	}
	sd := math.Sqrt(variance/float64(len(rms))) + 1e-9

	var out []types.AudioPeak
	for i, r := range rms {
		if z := (r - mean) / sd; !(z > opt.ZScore) {
			continue
		}
		t := (float64(i*hop) + float64(frame)/2) / float64(sampleRate)
		out = append(out, types.AudioPeak{Time: t, RMS: r})
	}
	return out
}

// Boost adds bonus once to every hook whose start or midpoint lies within
// radius seconds of a peak.
func Boost(hooks []Hook, peaks []types.AudioPeak, radius, bonus float64) []Hook {
	out := make([]Hook, len(hooks))
	copy(out, hooks)
	if len(peaks) == 0 {
		return out
	}
	for i := range out {
		mid := (out[i].Start + out[i].End) / 2
		for _, p := range peaks {
			if math.Abs(out[i].Start-p.Time) <= radius || math.Abs(mid-p.Time) <= radius {
				out[i].Score += bonus
				break
			}
		}
	}
	return out
}
