package scorer

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// fallbackTitle is used when the cluster text yields no usable phrases.
const fallbackTitle = "A Tool to Solve a Recurring Problem"

// phraseStoplist filters noun phrases too generic to name an opportunity.
var phraseStoplist = map[string]struct{}{
	"thing":    {},
	"things":   {},
	"stuff":    {},
	"something": {},
	"anything": {},
	"people":   {},
	"time":     {},
	"way":      {},
	"ways":     {},
	"lot":      {},
	"lots":     {},
	"bit":      {},
	"one":      {},
	"ones":     {},
	"day":      {},
	"days":     {},
	"everyone": {},
	"problem":  {},
	"problems": {},
	"issue":    {},
	"issues":   {},
}

// SynthesizeTitle composes an opportunity title from the concatenated
// cluster text. Noun phrases are pulled out by part-of-speech tagging;
// when no phrase survives the stoplist, single nouns and verbs are used as
// a fallback, and a generic title after that.
func SynthesizeTitle(texts []string) string {
	joined := strings.Join(texts, " ")
	if strings.TrimSpace(joined) == "" {
		return fallbackTitle
	}

	doc, err := prose.NewDocument(joined, prose.WithExtraction(false))
	if err != nil {
		return fallbackTitle
	}

	phrases := nounPhrases(doc.Tokens())
	if len(phrases) == 0 {
		phrases = contentWords(doc.Tokens())
	}

	top := topPhrases(phrases, 2)

	switch len(top) {
	case 0:
		return fallbackTitle
	case 1:
		return fmt.Sprintf("A Tool to Automate %s", titleCase(top[0]))
	default:
		return fmt.Sprintf("A Platform to Streamline %s and %s", titleCase(top[0]), titleCase(top[1]))
	}
}

// nounPhrases collects maximal adjective+noun token runs containing at
// least one noun.
func nounPhrases(tokens []prose.Token) []string {
	var phrases []string
	var current []string
	hasNoun := false

	flush := func() {
		if hasNoun && len(current) > 0 {
			phrase := strings.ToLower(strings.Join(current, " "))
			if usable(phrase) {
				phrases = append(phrases, phrase)
			}
		}
		current = nil
		hasNoun = false
	}

	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok.Tag, "NN"):
			current = append(current, tok.Text)
			hasNoun = true
		case strings.HasPrefix(tok.Tag, "JJ"):
			current = append(current, tok.Text)
		default:
			flush()
		}
	}
	flush()

	return phrases
}

// contentWords is the fallback source of title material: individual common
// nouns and verbs.
func contentWords(tokens []prose.Token) []string {
	var words []string
	for _, tok := range tokens {
		if strings.HasPrefix(tok.Tag, "NN") || strings.HasPrefix(tok.Tag, "VB") {
			word := strings.ToLower(tok.Text)
			if usable(word) {
				words = append(words, word)
			}
		}
	}
	return words
}

func usable(phrase string) bool {
	if len(phrase) < 3 {
		return false
	}
	words := strings.Fields(phrase)
	for _, w := range words {
		if _, generic := phraseStoplist[w]; !generic {
			return true
		}
	}
	return false
}

// topPhrases returns the most frequent phrases, ties broken by first
// occurrence so titles are stable for a fixed input.
func topPhrases(phrases []string, n int) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string

	for i, p := range phrases {
		if _, ok := counts[p]; !ok {
			firstSeen[p] = i
			order = append(order, p)
		}
		counts[p]++
	}

	var top []string
	for len(top) < n {
		best := ""
		for _, p := range order {
			if contains(top, p) {
				continue
			}
			if best == "" || counts[p] > counts[best] ||
				(counts[p] == counts[best] && firstSeen[p] < firstSeen[best]) {
				best = p
			}
		}
		if best == "" {
			break
		}
		top = append(top, best)
	}

	return top
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func titleCase(phrase string) string {
	words := strings.Fields(phrase)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
