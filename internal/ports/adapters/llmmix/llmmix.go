// Package llmmix builds the reordering prompt shared by the chat-completion
// adapters and resolves their answers back onto the submitted candidates.
package llmmix

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/forPelevin/hookcut/internal/types"
)

const (
	// SystemPrompt frames the model as a short-form editor.
	SystemPrompt = "You are a short-form content editor. From the provided candidate clips, " +
		"choose the most compelling sequence for viral potential. " +
		"Return strictly valid JSON (no markdown, no code fences)."

	timeTolerance = 0.5
	previewRunes  = 240
)

// ErrNoUsableClips is returned when none of the returned entries maps onto a
// submitted candidate.
var ErrNoUsableClips = errors.New("llmmix: no usable clips in response")

type promptCandidate struct {
	Idx      int     `json:"idx"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

// UserPrompt renders the candidate list. Each candidate carries the text of
// the transcript segments that lie fully inside it, or its own text when
// none do.
func UserPrompt(tr types.Transcript, cands []types.Candidate, k int) (string, error) {
	arr := make([]promptCandidate, 0, len(cands))
	for i, c := range cands {
		arr = append(arr, promptCandidate{
			Idx:      i,
			StartSec: round2(c.Start),
			EndSec:   round2(c.End),
			Score:    round2(c.Score),
			Text:     previewText(tr, c),
		})
	}
	pb, err := json.Marshal(map[string]any{"pick": k, "candidates": arr})
	if err != nil {
		return "", fmt.Errorf("marshal prompt: %w", err)
	}
	return fmt.Sprintf(
		"Pick the top %d clips from the candidate list and order them for maximum engagement. "+
			"Only use candidates from the list. Answer with an object of the form "+
			`{"clips":[{"idx":0,"start":0.0,"end":0.0}]}`+
			"\n\nCandidates JSON:\n%s", k, pb), nil
}

type entry struct {
	Idx   *int     `json:"idx"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// Resolve parses a model answer and maps every entry onto a submitted
// candidate, first by idx and then by matching start and end within half a
// second. Unresolvable and repeated entries are dropped. The result holds at
// most k highlights with the candidates' own bounds.
func Resolve(content string, cands []types.Candidate, k int) ([]types.Highlight, error) {
	entries, err := parseEntries(content)
	if err != nil {
		return nil, err
	}
	used := make([]bool, len(cands))
	out := make([]types.Highlight, 0, k)
	for _, e := range entries {
		if len(out) >= k {
			break
		}
		i := resolveEntry(e, cands, used)
		if i < 0 {
			continue
		}
		used[i] = true
		out = append(out, types.Highlight{Start: cands[i].Start, End: cands[i].End})
	}
	if len(out) == 0 {
		return nil, ErrNoUsableClips
	}
	return out, nil
}

func resolveEntry(e entry, cands []types.Candidate, used []bool) int {
	if e.Idx != nil && *e.Idx >= 0 && *e.Idx < len(cands) && !used[*e.Idx] {
		return *e.Idx
	}
	if e.Start == nil || e.End == nil {
		return -1
	}
	for i, c := range cands {
		if used[i] {
			continue
		}
		if math.Abs(c.Start-*e.Start) <= timeTolerance && math.Abs(c.End-*e.End) <= timeTolerance {
			return i
		}
	}
	return -1
}

func parseEntries(content string) ([]entry, error) {
	t := stripFences(content)
	if strings.HasPrefix(t, "[") {
		var arr []entry
		if err := json.Unmarshal([]byte(t), &arr); err != nil {
			return nil, fmt.Errorf("llmmix: decode array: %w", err)
		}
		return arr, nil
	}
	obj, err := ExtractJSONObject(t)
	if err != nil {
		return nil, err
	}
	var out struct {
		Clips []entry `json:"clips"`
	}
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return nil, fmt.Errorf("llmmix: decode object: %w", err)
	}
	return out.Clips, nil
}

// ExtractJSONObject returns the first {...} span of s after stripping
// markdown code fences.
func ExtractJSONObject(s string) (string, error) {
	t := stripFences(s)
	if t == "" {
		return "", errors.New("llmmix: empty content")
	}
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}
	return "", fmt.Errorf("llmmix: could not locate JSON object in: %q", Truncate(t, 200))
}

func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}
	return t
}

func previewText(tr types.Transcript, c types.Candidate) string {
	var parts []string
	for _, s := range tr.Segments {
		if s.Start >= c.Start && s.End <= c.End {
			if txt := strings.TrimSpace(s.Text); txt != "" {
				parts = append(parts, txt)
			}
		}
	}
	text := strings.Join(parts, " ")
	if text == "" {
		text = strings.TrimSpace(c.Text)
	}
	return Truncate(text, previewRunes)
}

// Truncate cuts s to n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
