package highlights

import "github.com/forPelevin/hookcut/internal/types"

// toyTranscript is six sentence-sized units spanning 0-23s.
func toyTranscript() []types.Unit {
	return []types.Unit{
		{Start: 0.0, End: 2.2, Text: "Okay, here is the surprising part."},
		{Start: 2.2, End: 5.8, Text: "Most people miss this because they start in the wrong place."},
		{Start: 5.8, End: 9.0, Text: "What if I told you there is a simple rule anyone can apply?"},
		{Start: 9.0, End: 14.0, Text: "Top 3 mistakes I made when learning fast."},
		{Start: 14.0, End: 18.0, Text: "And then I realized the truth."},
		{Start: 18.0, End: 23.0, Text: "So here is exactly what I did to fix it."},
	}
}

func wordUnits(words []string, start, step float64) []types.Unit {
	out := make([]types.Unit, 0, len(words))
	for i, w := range words {
		s := start + float64(i)*step
		out = append(out, types.Unit{Start: s, End: s + step*0.9, Text: w})
	}
	return out
}
