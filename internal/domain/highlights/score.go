package highlights

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reNum       = regexp.MustCompile(`\b[0-9]+(?:\.[0-9]+)?\b`)
	reListNoun  = regexp.MustCompile(`(?i)\b(top|step|reason|lesson|rule|mistake)s?\b`)
	interrogate = []string{"what", "why", "how", "when", "where", "who"}
)

// Scored pairs a window with its hook score.
type Scored struct {
	Window
	Score float64
}

// Score combines rarity with lexical engagement heuristics into one value,
// rounded to 4 decimals. A nil lexicon zeroes the lexicon terms.
func Score(w Window, rarity float64, lex *Lexicon) float64 {
	text := w.Text
	score := 1.2 * rarity

	if isQuestion(text) {
		score += 0.6
	}
	if strings.Contains(text, "!") {
		score += 0.3
	}
	if reNum.MatchString(text) {
		score += 0.25
		if reListNoun.MatchString(text) {
			score += 0.15
		}
	}

	if lex != nil {
		toks := Tokenize(text)
		score += 0.25 * float64(countIn(lex.Curiosity, toks))
		score += 0.20 * float64(countIn(lex.Urgency, toks))
		score += 0.20 * float64(countIn(lex.Superlatives, toks))
		score += 0.30 * float64(countIn(lex.Controversy, toks))
	}

	// Hooks land best around 6-12s.
	switch d := w.Duration(); {
	case d >= 6 && d <= 12:
		score += 0.5
	case (d >= 3 && d < 6) || (d > 12 && d <= 18):
		score += 0.2
	default:
		score -= 0.2
	}

	if n := utf8.RuneCountInString(text); n > 350 {
		score -= 0.0004 * float64(n-350)
	}
	return math.Round(score*1e4) / 1e4
}

// ScoreAll scores windows against their precomputed rarity.
func ScoreAll(windows []Window, rarity []float64, lex *Lexicon) []Scored {
	out := make([]Scored, len(windows))
	for i, w := range windows {
		r := 0.0
		if i < len(rarity) {
			r = rarity[i]
		}
		out[i] = Scored{Window: w, Score: Score(w, r, lex)}
	}
	return out
}

func isQuestion(text string) bool {
	if strings.Contains(text, "?") {
		return true
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, w := range interrogate {
		if strings.HasPrefix(lower, w) {
			return true
		}
	}
	return false
}
