package highlights

import "strings"

// Lexicon holds the fixed token sets the hook scorer looks up. Build it once
// with DefaultLexicon and share the pointer; nothing writes to it afterwards.
type Lexicon struct {
	Stopwords    map[string]struct{}
	Curiosity    map[string]struct{}
	Urgency      map[string]struct{}
	Superlatives map[string]struct{}
	Controversy  map[string]struct{}
}

// DefaultLexicon returns the built-in English lexicon.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Stopwords: wordSet(`
			a an the and or but if then so because as while of to in on for with at by from into during
			about against between through before after above below up down off over under again further
			is are was were be been being do does did have has had having i you he she it we they me him her them
			my your his her its our their this that these those not no nor than too very just also like`),
		Curiosity: wordSet(`
			secret secrets reveal revealed surprising surprise shock shocked insane wild unexpected
			what why how when where who watch look story truth hidden behind inside`),
		Urgency: wordSet(`now today finally breaking urgent warning alert last chance deadline`),
		Superlatives: wordSet(`
			best worst first only biggest smallest fastest slowest cheapest craziest ultimate`),
		Controversy: wordSet(`
			hate love cancel exposed expose scam fraud vs versus debate controversial rumor drama illegal`),
	}
}

func (l *Lexicon) isStopword(tok string) bool {
	if l == nil {
		return false
	}
	_, ok := l.Stopwords[tok]
	return ok
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}

func countIn(set map[string]struct{}, toks []string) int {
	n := 0
	for _, t := range toks {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}
