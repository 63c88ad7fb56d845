package whispercpp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/forPelevin/hookcut/internal/types"
)

const outputName = "whisper"

type Adapter struct {
	bin   string
	model string
}

func New(binPath, modelPath string) *Adapter {
	return &Adapter{bin: binPath, model: modelPath}
}

// Transcribe runs whisper.cpp on wavPath. A transcript already present in
// cacheDir from an earlier run of the same input is reused.
func (a *Adapter) Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error) {
	outPrefix := filepath.Join(cacheDir, outputName)
	if tr, err := readTranscript(outPrefix + ".json"); err == nil {
		return tr, nil
	}
	if a.model == "" {
		return types.Transcript{}, errors.New("whisper.cpp: model path is required")
	}

	cmd := exec.CommandContext(ctx, a.bin, a.args(wavPath, outPrefix)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}
	tr, err := readTranscript(outPrefix + ".json")
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp output: %w", err)
	}
	return tr, nil
}

func (a *Adapter) args(wavPath, outPrefix string) []string {
	return []string{
		"-m", a.model,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
		"-owts",
	}
}

func readTranscript(path string) (types.Transcript, error) {
	jb, err := os.ReadFile(path)
	if err != nil {
		return types.Transcript{}, err
	}
	tr, err := types.ParseTranscript(jb)
	if err != nil {
		return types.Transcript{}, err
	}
	return clean(tr), nil
}

// clean trims text and drops words that are empty after trimming.
func clean(tr types.Transcript) types.Transcript {
	for i := range tr.Segments {
		seg := &tr.Segments[i]
		seg.Text = strings.TrimSpace(seg.Text)
		words := seg.Words[:0]
		for _, w := range seg.Words {
			w.Word = strings.TrimSpace(w.Word)
			if w.Word != "" {
				words = append(words, w)
			}
		}
		seg.Words = words
	}
	return tr
}
