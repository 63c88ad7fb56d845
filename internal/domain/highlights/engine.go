// Package highlights implements the highlight detection engine: sentence
// reconstruction, rolling windows, rarity-weighted hook scoring,
// non-overlapping selection, boundary refinement and audio peak boosting.
//
// Every function is pure and safe to call from concurrent goroutines.
package highlights

import (
	"math"
	"sort"
	"time"

	"github.com/forPelevin/hookcut/internal/types"
)

type Options struct {
	Sentences SentenceOptions
	Window    float64
	Hop       float64
	TopK      int
	IoUThresh float64
	Refine    RefineOptions
	Lexicon   *Lexicon
	// OnStage, when set, is called after each stage with its wall time.
	OnStage func(stage string, d time.Duration)
}

func DefaultOptions() Options {
	return Options{
		Sentences: DefaultSentenceOptions(),
		Window:    10,
		Hop:       5,
		TopK:      5,
		IoUThresh: 0.3,
		Refine:    DefaultRefineOptions(),
		Lexicon:   DefaultLexicon(),
	}
}

// FindHooks runs sentencize, segment, rarity, score, select and refine over
// units and returns the refined hooks in selection order.
func FindHooks(units []types.Unit, opt Options) []Hook {
	if opt.Lexicon == nil {
		opt.Lexicon = DefaultLexicon()
	}
	t := time.Now()
	lap := func(stage string) {
		if opt.OnStage != nil {
			opt.OnStage(stage, time.Since(t))
		}
		t = time.Now()
	}

	sents := Sentencize(units, opt.Sentences)
	lap("sentencize")
	windows := Segment(sents, opt.Window, opt.Hop)
	lap("segment")
	if len(windows) == 0 {
		return nil
	}
	scored := ScoreAll(windows, Rarity(windows, opt.Lexicon), opt.Lexicon)
	lap("score")
	hooks := SelectNonOverlapping(scored, opt.TopK, opt.IoUThresh)
	lap("select")
	refined := Refine(hooks, sents, opt.Refine)
	lap("refine")
	return refined
}

// MaxTimestamp is the latest unit end, in seconds, accepted by SanitizeUnits.
// It keeps the window and fallback sweeps bounded.
const MaxTimestamp = 48 * 60 * 60

// SanitizeUnits drops units with non-finite, negative, non-increasing or
// out-of-range bounds and orders the rest by start.
func SanitizeUnits(units []types.Unit) []types.Unit {
	out := make([]types.Unit, 0, len(units))
	for _, u := range units {
		if !finite(u.Start) || !finite(u.End) || u.End <= u.Start || u.Start < 0 || u.End > MaxTimestamp {
			continue
		}
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
