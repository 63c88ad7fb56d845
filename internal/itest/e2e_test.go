//go:build integration

package itest

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/forPelevin/hookcut/internal/config"
	"github.com/forPelevin/hookcut/internal/pipeline"
	"github.com/forPelevin/hookcut/internal/types"
)

func TestE2E(t *testing.T) {
	for _, bin := range []string{"espeak-ng", "ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Fatalf("%s is required for itest", bin)
		}
	}
	repoRoot := mustRepoRoot(t)

	tmp := t.TempDir()
	in := filepath.Join(tmp, "input.mp4")

	// Generate speech audio via espeak-ng.
	wav := filepath.Join(tmp, "speech.wav")
	text := "Here is the secret nobody tells you about habits. " +
		"Why does motivation fade so fast? The truth is that systems beat goals every single time. " +
		"Top three mistakes I made when I started running. I ignored sleep and paid for it later. " +
		"This is the worst advice I ever followed. Now let me show you what actually worked. " +
		"Step one, write the plan down. Step two, measure the results every week. " +
		"But here is the thing nobody mentions. Small wins compound faster than you think."
	cmd := exec.Command("espeak-ng", "-s", "120", "-w", wav, text)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("espeak-ng failed: %v\n%s", err, string(b))
	}

	// Build a simple mp4 with audio.
	ff := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", "color=c=black:s=640x360:d=90",
		"-i", wav,
		"-shortest",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		in,
	)
	if b, err := ff.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg fixture failed: %v\n%s", err, string(b))
	}

	app := config.Default()
	app.Clip.MinSeconds = 5
	app.Clip.MaxSeconds = 30
	app.Tools.WhisperBin = filepath.Join(repoRoot, ".cache", "bin", "whisper.cpp")
	app.Tools.WhisperModel = filepath.Join(repoRoot, ".cache", "models", "ggml-base.bin")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	rep, err := pipeline.Run(ctx, pipeline.Config{
		Input:    in,
		OutDir:   filepath.Join(tmp, "out"),
		CacheDir: filepath.Join(tmp, "cache"),
		Render:   true,
		App:      app,
	})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(rep.OutDir, "manifest.json"))
	if err != nil {
		t.Fatalf("missing manifest: %v", err)
	}
	var m types.Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(m.Clips) == 0 {
		t.Fatalf("expected at least one clip, manifest: %s", b)
	}
	for _, c := range m.Clips {
		got, err := probeDurationSeconds(filepath.Join(rep.OutDir, filepath.FromSlash(c.File)))
		if err != nil {
			t.Fatalf("probe clip %s: %v", c.ID, err)
		}
		want := c.EndSec - c.StartSec
		if got < want-0.5 || got > want+app.Clip.BufferIn+app.Clip.BufferOut+0.5 {
			t.Fatalf("clip %s lasts %.2fs, highlight spans %.2fs", c.ID, got, want)
		}
	}
}
