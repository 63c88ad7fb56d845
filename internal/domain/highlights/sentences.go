package highlights

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/forPelevin/hookcut/internal/types"
)

var reTerminal = regexp.MustCompile(`[.!?…]+['"”]?$`)

type Sentence struct {
	ID    string
	Start float64
	End   float64
	Text  string
}

type SentenceOptions struct {
	MaxGap      float64 // seconds of silence that close a sentence
	MaxDuration float64 // seconds after which a sentence is force-closed
	// PassThroughLimit bounds the unit count for which already sentence-sized
	// units are adopted as-is.
	PassThroughLimit int
}

func DefaultSentenceOptions() SentenceOptions {
	return SentenceOptions{MaxGap: 0.6, MaxDuration: 20, PassThroughLimit: 400}
}

// Sentencize groups ordered transcript units into sentence-like spans.
func Sentencize(units []types.Unit, opt SentenceOptions) []Sentence {
	if len(units) == 0 {
		return nil
	}
	def := DefaultSentenceOptions()
	if opt.MaxGap <= 0 {
		opt.MaxGap = def.MaxGap
	}
	if opt.MaxDuration <= 0 {
		opt.MaxDuration = def.MaxDuration
	}
	if opt.PassThroughLimit <= 0 {
		opt.PassThroughLimit = def.PassThroughLimit
	}

	if len(units) < opt.PassThroughLimit && meanWords(units) > 3 {
		return passThrough(units)
	}

	var (
		out        []Sentence
		parts      []string
		open       bool
		start, end float64
	)
	for i, u := range units {
		if !open {
			start, end = u.Start, u.End
			open = true
		}
		if t := strings.TrimSpace(u.Text); t != "" {
			parts = append(parts, t)
		}
		// A unit may end inside an earlier one, so the sentence runs to the
		// furthest end seen.
		end = maxf(end, u.End)

		last := i == len(units)-1
		gap := 0.0
		if !last {
			gap = units[i+1].Start - end
		}
		terminal := reTerminal.MatchString(strings.TrimSpace(u.Text))
		// Never close while the next unit still overlaps the buffer.
		if last || (gap >= 0 && (terminal || gap >= opt.MaxGap || end-start >= opt.MaxDuration)) {
			out = append(out, Sentence{
				ID:    sentenceID(len(out)),
				Start: start,
				End:   end,
				Text:  strings.Join(parts, " "),
			})
			parts = parts[:0]
			open = false
		}
	}
	return out
}

// passThrough adopts units as sentences, folding any unit that starts before
// the previous sentence ends into it.
func passThrough(units []types.Unit) []Sentence {
	out := make([]Sentence, 0, len(units))
	for _, u := range units {
		text := strings.TrimSpace(u.Text)
		if n := len(out); n > 0 && u.Start < out[n-1].End {
			prev := &out[n-1]
			prev.End = maxf(prev.End, u.End)
			if text != "" {
				prev.Text = strings.TrimSpace(prev.Text + " " + text)
			}
			continue
		}
		out = append(out, Sentence{ID: sentenceID(len(out)), Start: u.Start, End: u.End, Text: text})
	}
	return out
}

func meanWords(units []types.Unit) float64 {
	total := 0
	for _, u := range units {
		total += len(strings.Fields(u.Text))
	}
	return float64(total) / float64(len(units))
}

func sentenceID(i int) string { return fmt.Sprintf("S%d", i+1) }
