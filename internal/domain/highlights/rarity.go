package highlights

import (
	"math"
	"regexp"

	"golang.org/x/text/cases"
)

var reToken = regexp.MustCompile(`[a-zA-Z0-9']+`)

// RarityIndex maps a case-folded token to its inverse document frequency
// across one window set.
type RarityIndex map[string]float64

// Tokenize returns the case-folded word tokens of text.
func Tokenize(text string) []string {
	// A Caser keeps state, so each call gets its own.
	folded := cases.Fold().String(text)
	return reToken.FindAllString(folded, -1)
}

func qualifying(text string, lex *Lexicon) []string {
	toks := Tokenize(text)
	out := toks[:0]
	for _, t := range toks {
		if len(t) <= 2 || lex.isStopword(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// BuildRarityIndex computes idf(t) = ln(N/(df(t)+1)) over windows, floored at
// zero so a token present everywhere contributes nothing.
func BuildRarityIndex(windows []Window, lex *Lexicon) RarityIndex {
	df := make(map[string]int)
	for _, w := range windows {
		seen := make(map[string]struct{})
		for _, t := range qualifying(w.Text, lex) {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}
	n := float64(len(windows))
	idx := make(RarityIndex, len(df))
	for t, c := range df {
		idx[t] = math.Max(0, math.Log(n/(float64(c)+1)))
	}
	return idx
}

// Rarity returns the mean idf of each window's qualifying tokens, aligned
// with windows.
func Rarity(windows []Window, lex *Lexicon) []float64 {
	idx := BuildRarityIndex(windows, lex)
	out := make([]float64, len(windows))
	for i, w := range windows {
		toks := qualifying(w.Text, lex)
		if len(toks) == 0 {
			continue
		}
		var sum float64
		for _, t := range toks {
			sum += idx[t]
		}
		out[i] = sum / float64(len(toks))
	}
	return out
}
