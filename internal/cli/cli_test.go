package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forPelevin/hookcut/internal/observe"
	"github.com/forPelevin/hookcut/internal/pipeline"
	"github.com/forPelevin/hookcut/internal/types"
)

func TestRootCmd_TranscriptPrintsJSON(t *testing.T) {
	tmp := t.TempDir()
	in := writeTranscript(t, tmp, "talk.json")

	out, _, err := execute(t, in, "--out", filepath.Join(tmp, "out"), "--cache", filepath.Join(tmp, "cache"), "--clips", "3")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	lines := decodeLines(t, out)
	if len(lines) != 1 {
		t.Fatalf("expected 1 report line, got %d:\n%s", len(lines), out)
	}
	got := lines[0]
	if got.Input != in || got.Path != "hooks" || got.RunID == "" {
		t.Fatalf("unexpected report: %+v", got)
	}
	if len(got.Highlights) == 0 || len(got.Highlights) > 3 {
		t.Fatalf("expected 1..3 highlights, got %d", len(got.Highlights))
	}
	if _, err := os.Stat(filepath.Join(got.OutDir, "highlights.json")); err != nil {
		t.Fatalf("highlights.json not written: %v", err)
	}
}

func TestRootCmd_Errors(t *testing.T) {
	tmp := t.TempDir()
	in := writeTranscript(t, tmp, "talk.json")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no args", args: nil, want: "accepts 1 arg(s), received 0"},
		{name: "too many args", args: []string{in, "extra"}, want: "accepts 1 arg(s), received 2"},
		{name: "unknown flag", args: []string{in, "--wat"}, want: "unknown flag: --wat"},
		{name: "clips zero", args: []string{in, "--clips", "0"}, want: "config: clips must be > 0"},
		{name: "bad mode", args: []string{in, "--mode", "turbo"}, want: "mode must be one of"},
		{name: "missing input", args: []string{filepath.Join(tmp, "nope.json")}, want: "config: stat input"},
		{name: "missing config", args: []string{in, "--config", filepath.Join(tmp, "nope.yaml")}, want: "config: open"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestBatchCmd_PrintsOneLinePerInput(t *testing.T) {
	tmp := t.TempDir()
	a := writeTranscript(t, tmp, "a.json")
	b := writeTranscript(t, tmp, "b.json")

	out, _, err := execute(t, "batch", a, b, "--jobs", "2", "--out", filepath.Join(tmp, "out"), "--cache", filepath.Join(tmp, "cache"))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	lines := decodeLines(t, out)
	if len(lines) != 2 {
		t.Fatalf("expected 2 report lines, got %d", len(lines))
	}
	if lines[0].Input != a || lines[1].Input != b {
		t.Fatalf("expected input order preserved, got %q, %q", lines[0].Input, lines[1].Input)
	}
}

func TestRootCmd_StatsGoToStderr(t *testing.T) {
	tmp := t.TempDir()
	in := writeTranscript(t, tmp, "talk.json")

	_, errOut, err := execute(t, in, "--stats", "--out", filepath.Join(tmp, "out"), "--cache", filepath.Join(tmp, "cache"))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"sentencize", "highlights"} {
		if !strings.Contains(strings.ToLower(errOut), want) {
			t.Fatalf("expected stats output to contain %q:\n%s", want, errOut)
		}
	}
}

func TestRenderStats(t *testing.T) {
	got := renderStats(observe.Summary{
		Stages:       []observe.StageStat{{Stage: "score", Count: 2, Sum: 0.5}},
		Degradations: map[string]int64{"audio_analysis_unavailable": 1},
		Highlights:   4,
	})
	for _, want := range []string{"score", "0.500", "degraded: audio_analysis_unavailable", "highlights"} {
		if !strings.Contains(strings.ToLower(got), want) {
			t.Fatalf("expected %q in:\n%s", want, got)
		}
	}
}

func TestRenderReport(t *testing.T) {
	got := renderReport(pipeline.Report{
		Input:      "talk.json",
		Highlights: []types.Highlight{{Start: 1.5, End: 17.25}},
		Manifest:   types.Manifest{Path: "hooks", Degradations: []string{"audio analysis unavailable: boom"}},
	})
	for _, want := range []string{"talk.json (hooks)", "1.50", "17.25", "15.75", "audio analysis unavailable: boom"} {
		if !strings.Contains(strings.ToLower(got), want) {
			t.Fatalf("expected %q in:\n%s", want, got)
		}
	}
}

func TestPrintReports_EmptyHighlightsAreArray(t *testing.T) {
	var buf bytes.Buffer
	if err := printReports(&buf, []pipeline.Report{{Input: "x.json"}}); err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(buf.String(), `"highlights":[]`) {
		t.Fatalf("expected empty highlights array, got %s", buf.String())
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func decodeLines(t *testing.T, out string) []reportLine {
	t.Helper()
	var lines []reportLine
	sc := bufio.NewScanner(strings.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		var l reportLine
		if err := json.Unmarshal(sc.Bytes(), &l); err != nil {
			t.Fatalf("decode %q: %v", sc.Text(), err)
		}
		lines = append(lines, l)
	}
	return lines
}

func writeTranscript(t *testing.T, dir, name string) string {
	t.Helper()
	lines := []string{
		"Here is the secret nobody tells you about building habits.",
		"Why does motivation fade so fast?",
		"The truth is that systems beat goals every single time.",
		"This is the worst advice I ever followed.",
	}
	var tr types.Transcript
	for i := 0; i < 20; i++ {
		tr.Segments = append(tr.Segments, types.Segment{
			Start: float64(i * 5),
			End:   float64(i*5 + 5),
			Text:  lines[i%len(lines)],
		})
	}
	b, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("marshal transcript: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	return path
}
