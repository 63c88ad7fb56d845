package highlights

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const previewRunes = 240

// Hook is a scored window promoted by selection.
type Hook struct {
	HookID string
	Window
	Score   float64
	Preview string
}

// IoU is the temporal intersection-over-union of [a0,a1] and [b0,b1].
func IoU(a0, a1, b0, b1 float64) float64 {
	inter := maxf(0, minf(a1, b1)-maxf(a0, b0))
	union := (a1 - a0) + (b1 - b0) - inter + 1e-9
	return inter / union
}

// SelectNonOverlapping greedily takes the best-scoring windows whose IoU with
// every accepted window stays within iouThresh. Ties keep input order. The
// result is not a globally optimal interval schedule.
func SelectNonOverlapping(cands []Scored, topK int, iouThresh float64) []Hook {
	if topK <= 0 || len(cands) == 0 {
		return nil
	}
	order := make([]Scored, len(cands))
	copy(order, cands)
	sort.SliceStable(order, func(i, j int) bool { return order[i].Score > order[j].Score })

	out := make([]Hook, 0, topK)
	for _, c := range order {
		if len(out) >= topK {
			break
		}
		if !fitsAll(out, c.Start, c.End, iouThresh) {
			continue
		}
		out = append(out, Hook{
			HookID:  fmt.Sprintf("H%d", len(out)+1),
			Window:  c.Window,
			Score:   c.Score,
			Preview: preview(c.Text),
		})
	}
	return out
}

func fitsAll(chosen []Hook, start, end, iouThresh float64) bool {
	for _, h := range chosen {
		if IoU(start, end, h.Start, h.End) > iouThresh {
			return false
		}
	}
	return true
}

// Dedupe keeps hooks in order, dropping any whose IoU with an earlier kept
// hook exceeds iouThresh.
func Dedupe(hooks []Hook, iouThresh float64) []Hook {
	out := make([]Hook, 0, len(hooks))
	for _, h := range hooks {
		if fitsAll(out, h.Start, h.End, iouThresh) {
			out = append(out, h)
		}
	}
	return out
}

// SortByScore returns hooks ordered by descending score, ties in input order.
func SortByScore(hooks []Hook) []Hook {
	out := make([]Hook, len(hooks))
	copy(out, hooks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func preview(text string) string {
	p := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if utf8.RuneCountInString(p) <= previewRunes {
		return p
	}
	return string([]rune(p)[:previewRunes]) + "…"
}
