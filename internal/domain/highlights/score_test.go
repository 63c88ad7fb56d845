package highlights

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Table(t *testing.T) {
	lex := DefaultLexicon()
	tests := []struct {
		name string
		text string
		dur  float64
		lex  *Lexicon
		want float64
	}{
		{"sweet spot", "zzz", 8, lex, 0.5},
		{"sweet spot lower edge", "zzz", 6, lex, 0.5},
		{"sweet spot upper edge", "zzz", 12, lex, 0.5},
		{"short", "zzz", 4, lex, 0.2},
		{"short edge", "zzz", 3, lex, 0.2},
		{"long", "zzz", 15, lex, 0.2},
		{"long edge", "zzz", 18, lex, 0.2},
		{"too short", "zzz", 2.9, lex, -0.2},
		{"too long", "zzz", 20, lex, -0.2},
		{"exclamation", "zzz!", 20, lex, 0.1},
		{"digits", "5 tips", 20, lex, 0.05},
		{"listicle", "top 5 tips", 20, lex, 0.2},
		{"curiosity counted twice", "secret secret", 20, lex, 0.3},
		{"nil lexicon", "secret secret", 20, nil, -0.2},
		{"controversy and urgency", "scam now", 20, lex, 0.3},
		{"interrogative opener", "Why zzz", 20, nil, 0.4},
		{"length penalty", strings.Repeat("z", 400), 20, lex, -0.22},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(Window{Start: 0, End: tt.dur, Text: tt.text}, 0, tt.lex)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestScore_RarityWeight(t *testing.T) {
	w := Window{Start: 0, End: 20, Text: "zzz"}
	assert.InDelta(t, 1.2*0.5-0.2, Score(w, 0.5, nil), 1e-9)
}

func TestScore_RoundedToFourDecimals(t *testing.T) {
	got := Score(Window{Start: 0, End: 8, Text: "zzz"}, 0.123456789, nil)
	assert.Equal(t, 0.6481, got)
}

func TestScore_QuestionBeatsStatement(t *testing.T) {
	w := Window{Start: 0, End: 10}
	q := w
	q.Text = "Is this the simple rule anyone can apply?"
	s := w
	s.Text = "Is this the simple rule anyone can apply."
	lex := DefaultLexicon()
	assert.Greater(t, Score(q, 0.4, lex), Score(s, 0.4, lex))
}

// The toy transcript with its third sentence phrased as a question must
// outscore the same transcript with a plain statement in every window that
// contains it.
func TestScore_ToyScenarioQuestionBonus(t *testing.T) {
	question := toyTranscript()
	statement := toyTranscript()
	statement[2].Text = strings.Replace(statement[2].Text, "?", ".", 1)
	statement[2].Text = strings.Replace(statement[2].Text, "What if", "Say if", 1)
	question[2].Text = strings.Replace(question[2].Text, "What if", "Say if", 1)

	lex := DefaultLexicon()
	score := func(units []Window) []Scored { return ScoreAll(units, Rarity(units, lex), lex) }
	qw := Segment(Sentencize(question, DefaultSentenceOptions()), 10, 5)
	sw := Segment(Sentencize(statement, DefaultSentenceOptions()), 10, 5)
	qs, ss := score(qw), score(sw)

	assert.Len(t, qs, len(ss))
	compared := 0
	for i := range qs {
		if !strings.Contains(qs[i].Text, "anyone can apply?") {
			continue
		}
		compared++
		assert.Greater(t, qs[i].Score, ss[i].Score, "window %d", i)
	}
	assert.Positive(t, compared)

	hooks := SelectNonOverlapping(qs, 3, 0.3)
	assert.LessOrEqual(t, len(hooks), 3)
}
