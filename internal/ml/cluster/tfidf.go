package cluster

import (
	"math"
	"regexp"
	"strings"
)

// tokenPattern keeps word tokens of two or more characters, matching the
// tokenizer the original vector space was built with.
var tokenPattern = regexp.MustCompile(`\w\w+`)

// vector is a sparse l2-normalized term-weight vector over a shared
// vocabulary. Term indices are vocabulary positions.
type vector map[int]float64

// vectorize builds TF-IDF vectors for the given texts. The vocabulary and
// document frequencies are computed from scratch on every call: the vector
// space belongs to one batch and must never leak across invocations.
func vectorize(texts []string) []vector {
	tokenized := make([][]string, len(texts))
	for i, text := range texts {
		tokenized[i] = tokenize(text)
	}

	vocab := make(map[string]int)
	docFreq := make(map[int]int)
	for _, tokens := range tokenized {
		seen := make(map[int]struct{})
		for _, tok := range tokens {
			idx, ok := vocab[tok]
			if !ok {
				idx = len(vocab)
				vocab[tok] = idx
			}
			seen[idx] = struct{}{}
		}
		for idx := range seen {
			docFreq[idx]++
		}
	}

	n := float64(len(texts))
	idf := make([]float64, len(vocab))
	for idx, df := range docFreq {
		// Smoothed idf, so no term ever gets a zero or negative weight.
		idf[idx] = math.Log((1+n)/(1+float64(df))) + 1
	}

	vectors := make([]vector, len(texts))
	for i, tokens := range tokenized {
		v := make(vector)
		for _, tok := range tokens {
			v[vocab[tok]] += 1
		}
		var norm float64
		for idx := range v {
			v[idx] *= idf[idx]
			norm += v[idx] * v[idx]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for idx := range v {
				v[idx] /= norm
			}
		}
		vectors[i] = v
	}

	return vectors
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if !isStopWord(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Cosine returns the cosine similarity of two vectors. Vectors coming out
// of vectorize are unit length, so this is a plain sparse dot product; a
// zero vector has similarity 0 with everything.
func Cosine(a, b vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for idx, av := range a {
		if bv, ok := b[idx]; ok {
			dot += av * bv
		}
	}
	return dot
}
