package highlights

import (
	"sort"
	"strings"

	"github.com/forPelevin/hookcut/internal/types"
)

type FallbackOptions struct {
	Span      float64
	Step      float64
	TopK      int
	MinLen    float64
	MaxLen    float64
	IoUThresh float64
}

// WordDensityFallback ranks fixed-length spans by how many words of units
// fully inside them are spoken. It needs no scoring model and is used when
// the hook path yields nothing.
func WordDensityFallback(units []types.Unit, opt FallbackOptions) []types.Highlight {
	if len(units) == 0 || opt.TopK <= 0 {
		return nil
	}
	if opt.Span <= 0 {
		opt.Span = 30
	}
	if opt.Step <= 0 {
		opt.Step = 10
	}
	if opt.MaxLen > 0 && opt.Span > opt.MaxLen {
		opt.Span = opt.MaxLen
	}
	if opt.MinLen > 0 && opt.Span < opt.MinLen {
		opt.Span = opt.MinLen
	}

	endT := 0.0
	for _, u := range units {
		endT = maxf(endT, u.End)
	}

	type span struct {
		words      int
		start, end float64
	}
	var spans []span
	for step := 0; ; step++ {
		t := float64(step) * opt.Step
		if t >= endT {
			break
		}
		sp := span{start: t, end: minf(t+opt.Span, endT)}
		for _, u := range units {
			if u.Start >= sp.start && u.End <= t+opt.Span {
				sp.words += len(strings.Fields(u.Text))
			}
		}
		spans = append(spans, sp)
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].words > spans[j].words })

	out := make([]types.Highlight, 0, opt.TopK)
	for _, sp := range spans {
		if len(out) >= opt.TopK {
			break
		}
		d := sp.end - sp.start
		if d <= 0 || (opt.MinLen > 0 && d < opt.MinLen) || (opt.MaxLen > 0 && d > opt.MaxLen) {
			continue
		}
		if opt.IoUThresh > 0 && overlapsAny(out, sp.start, sp.end, opt.IoUThresh) {
			continue
		}
		out = append(out, types.Highlight{Start: sp.start, End: sp.end})
	}
	return out
}

func overlapsAny(hs []types.Highlight, start, end, iouThresh float64) bool {
	for _, h := range hs {
		if IoU(start, end, h.Start, h.End) > iouThresh {
			return true
		}
	}
	return false
}
