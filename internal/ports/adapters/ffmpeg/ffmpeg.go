package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, inMedia, outWav string) error {
	return a.run(ctx, "ffmpeg extract audio", extractArgs(inMedia, outWav, 16000))
}

// ExtractAudio writes a mono 16-bit PCM WAV at sampleRate.
func (a *Adapter) ExtractAudio(ctx context.Context, inMedia, outWav string, sampleRate int) error {
	return a.run(ctx, "ffmpeg extract audio", extractArgs(inMedia, outWav, sampleRate))
}

func (a *Adapter) RenderClip(ctx context.Context, inMedia string, start, end time.Duration, outMP4 string) error {
	return a.run(ctx, "ffmpeg render clip", renderArgs(inMedia, start, end, outMP4))
}

func (a *Adapter) ProbeDuration(ctx context.Context, inMedia string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inMedia,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	return parseDuration(string(b))
}

func (a *Adapter) run(ctx context.Context, what string, args []string) error {
	b, err := exec.CommandContext(ctx, a.ffmpeg, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w\n%s", what, err, string(b))
	}
	return nil
}

func extractArgs(inMedia, outWav string, sampleRate int) []string {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return []string{
		"-y",
		"-i", inMedia,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-c:a", "pcm_s16le",
		"-f", "wav",
		outWav,
	}
}

func renderArgs(inMedia string, start, end time.Duration, outMP4 string) []string {
	if start < 0 {
		start = 0
	}
	return []string{
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", inMedia,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "192k",
		outMP4,
	}
}

func parseDuration(out string) (time.Duration, error) {
	s := strings.TrimSpace(out)
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
