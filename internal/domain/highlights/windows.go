package highlights

import "strings"

// Window is a fixed-duration text span built by sliding over sentences.
// Consecutive windows overlap by window-hop seconds.
type Window struct {
	ID    int
	Start float64
	End   float64
	Text  string
}

func (w Window) Duration() float64 { return w.End - w.Start }

// Segment builds rolling windows of length window stepping by hop from the
// first sentence start until the last sentence end. Windows without text are
// omitted.
func Segment(sents []Sentence, window, hop float64) []Window {
	if len(sents) == 0 || window <= 0 || hop <= 0 {
		return nil
	}
	t0 := sents[0].Start
	tEnd := sents[len(sents)-1].End
	for _, s := range sents {
		tEnd = maxf(tEnd, s.End)
	}

	var out []Window
	first := 0
	for step := 0; ; step++ {
		// Derive the cursor from the step count so hop error does not accumulate.
		cur := t0 + float64(step)*hop
		if cur >= tEnd {
			break
		}
		segEnd := cur + window
		for first < len(sents) && sents[first].End < cur {
			first++
		}
		var parts []string
		for j := first; j < len(sents) && sents[j].Start <= segEnd; j++ {
			if t := strings.TrimSpace(sents[j].Text); t != "" {
				parts = append(parts, t)
			}
		}
		if len(parts) == 0 {
			continue
		}
		out = append(out, Window{
			ID:    len(out),
			Start: cur,
			End:   minf(segEnd, tEnd),
			Text:  strings.Join(parts, " "),
		})
	}
	return out
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
