package detector

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/saasfinder/backend/internal/nlp/sentence"
)

// defaultConfidence is carried by keyword-only detections, which have no
// model behind them.
const defaultConfidence = 0.5

// Source supplies the current pattern lexicon. The list may change between
// calls; Basic recompiles when it does, so lexicon edits take effect on the
// next extraction without a restart.
type Source interface {
	List() []string
}

type staticPatterns []string

func (s staticPatterns) List() []string { return s }

// Basic matches sentences against the ordered pattern lexicon. The first
// matching pattern wins per sentence; a sentence never accumulates more
// than one pattern tag.
type Basic struct {
	segmenter sentence.Segmenter
	source    Source

	mu       sync.Mutex
	raw      []string
	patterns []*regexp.Regexp
}

func NewBasic(segmenter sentence.Segmenter, patterns []string) (*Basic, error) {
	return NewBasicFromSource(segmenter, staticPatterns(append([]string(nil), patterns...)))
}

// NewBasicFromSource builds a detector over a live lexicon source. The
// initial lexicon compiles eagerly so a broken pattern fails at startup,
// not mid-pipeline.
func NewBasicFromSource(segmenter sentence.Segmenter, source Source) (*Basic, error) {
	b := &Basic{segmenter: segmenter, source: source}
	if _, _, err := b.currentPatterns(); err != nil {
		return nil, err
	}
	return b, nil
}

// currentPatterns returns the compiled lexicon, recompiling only when the
// source list changed since the last call.
func (b *Basic) currentPatterns() ([]*regexp.Regexp, []string, error) {
	current := b.source.List()

	b.mu.Lock()
	defer b.mu.Unlock()

	if equalPatterns(current, b.raw) {
		return b.patterns, b.raw, nil
	}

	compiled := make([]*regexp.Regexp, 0, len(current))
	for _, p := range current {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pain point pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	b.raw = current
	b.patterns = compiled
	return b.patterns, b.raw, nil
}

func equalPatterns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (b *Basic) Extract(ctx context.Context, text string) ([]Candidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	patterns, raw, err := b.currentPatterns()
	if err != nil {
		return nil, err
	}

	sentences, err := b.segmenter.Segment(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split sentences: %w", err)
	}

	var candidates []Candidate
	for _, sent := range sentences {
		for i, re := range patterns {
			if re.MatchString(sent) {
				candidates = append(candidates, Candidate{
					Content:    sent,
					Pattern:    raw[i],
					Confidence: defaultConfidence,
					Severity:   defaultConfidence,
				})
				break
			}
		}
	}

	return candidates, nil
}
