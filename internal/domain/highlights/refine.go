package highlights

import "strings"

type RefineOptions struct {
	LeadPad          float64
	TailPad          float64
	MergeNextIfCliff bool
	MaxLen           float64
	// MinLen grows a refined span across whole following sentences until it
	// reaches MinLen, never past MaxLen. Zero disables growth.
	MinLen float64
}

func DefaultRefineOptions() RefineOptions {
	return RefineOptions{LeadPad: 0.25, TailPad: 0.35, MergeNextIfCliff: true, MaxLen: 14}
}

// Refine snaps each hook to its containing sentence, extends across a
// cliffhanger into the next sentence when that fits, and caps the length.
// Hooks that overlap no sentence keep their bounds.
func Refine(hooks []Hook, sents []Sentence, opt RefineOptions) []Hook {
	if opt.MaxLen <= 0 {
		opt.MaxLen = DefaultRefineOptions().MaxLen
	}
	out := make([]Hook, 0, len(hooks))
	for _, h := range hooks {
		i := containingSentence(h.Start, h.End, sents)
		if i < 0 {
			h.Start = maxf(0, h.Start)
			if h.End-h.Start > opt.MaxLen {
				h.End = h.Start + opt.MaxLen
			}
			out = append(out, h)
			continue
		}
		s := sents[i]
		start := maxf(0, s.Start-opt.LeadPad)
		end := s.End + opt.TailPad
		next := i + 1

		if opt.MergeNextIfCliff && next < len(sents) && isCliffhanger(s.Text) {
			if cand := sents[next].End + opt.TailPad; cand-start <= opt.MaxLen {
				end = maxf(end, cand)
				next++
			}
		}
		for ; opt.MinLen > 0 && end-start < opt.MinLen && next < len(sents); next++ {
			cand := sents[next].End + opt.TailPad
			if cand-start > opt.MaxLen {
				break
			}
			end = maxf(end, cand)
		}
		if end-start > opt.MaxLen {
			end = start + opt.MaxLen
		}
		h.Start, h.End = start, end
		out = append(out, h)
	}
	return out
}

func containingSentence(start, end float64, sents []Sentence) int {
	best := -1
	bestOverlap := 0.0
	for i, s := range sents {
		inter := minf(end, s.End) - maxf(start, s.Start)
		if inter > bestOverlap {
			bestOverlap = inter
			best = i
		}
	}
	return best
}

// isCliffhanger reports whether the sentence stops on a connective, i.e. the
// thought continues in the next sentence.
func isCliffhanger(text string) bool {
	fields := strings.Fields(text)
	for i := len(fields) - 1; i >= 0; i-- {
		tok := normalizeToken(fields[i])
		if tok == "" {
			continue
		}
		switch stripClitic(tok) {
		case "because", "so", "and", "but", "then", "which", "that", "when", "if":
			return true
		default:
			return false
		}
	}
	return false
}

const tokenPunct = "\"'`’‘[](){}.,!?;:…”“—–-"

func normalizeToken(s string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(s)), tokenPunct)
}

// stripClitic drops a trailing 's or 'll so "that's" reads as "that".
func stripClitic(tok string) string {
	for _, suf := range []string{"'s", "’s", "'ll", "’ll"} {
		if t, ok := strings.CutSuffix(tok, suf); ok && t != "" {
			return strings.Trim(t, tokenPunct)
		}
	}
	return tok
}
