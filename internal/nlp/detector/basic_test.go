package detector

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// splitSegmenter stands in for the prose segmenter so tests control
// sentence boundaries exactly.
type splitSegmenter struct{}

func (splitSegmenter) Segment(text string) ([]string, error) {
	var out []string
	for _, s := range strings.Split(text, ".") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func TestNewBasicRejectsInvalidPattern(t *testing.T) {
	_, err := NewBasic(splitSegmenter{}, []string{`valid`, `[unclosed`})
	assert.Error(t, err)
}

func TestBasicExtractEmptyInput(t *testing.T) {
	b, err := NewBasic(splitSegmenter{}, []string{`annoying`})
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t"} {
		candidates, err := b.Extract(context.Background(), text)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	}
}

func TestBasicExtract(t *testing.T) {
	patterns := []string{
		`(really|so) frustrating`,
		`annoying`,
		`takes forever`,
	}
	b, err := NewBasic(splitSegmenter{}, patterns)
	require.NoError(t, err)

	text := "This tool is SO FRUSTRATING. The weather is nice today. Exporting takes forever."
	candidates, err := b.Extract(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "This tool is SO FRUSTRATING", candidates[0].Content)
	assert.Equal(t, `(really|so) frustrating`, candidates[0].Pattern)
	assert.InDelta(t, 0.5, candidates[0].Confidence, 1e-9)
	assert.InDelta(t, 0.5, candidates[0].Severity, 1e-9)

	assert.Equal(t, "Exporting takes forever", candidates[1].Content)
	assert.Equal(t, `takes forever`, candidates[1].Pattern)
}

// mutableSource is a lexicon whose contents change between calls, the way
// the keyword manager's does when patterns are added or removed at runtime.
type mutableSource struct {
	mu       sync.Mutex
	patterns []string
}

func (s *mutableSource) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.patterns...)
}

func (s *mutableSource) set(patterns []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = patterns
}

func TestBasicExtractSeesLexiconChanges(t *testing.T) {
	source := &mutableSource{patterns: []string{`annoying`}}
	b, err := NewBasicFromSource(splitSegmenter{}, source)
	require.NoError(t, err)

	text := "This is annoying. Exports are broken."

	candidates, err := b.Extract(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, `annoying`, candidates[0].Pattern)

	// An added pattern matches on the very next extraction.
	source.set([]string{`annoying`, `broken`})
	candidates, err = b.Extract(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, `broken`, candidates[1].Pattern)

	// A removed pattern stops matching just as promptly.
	source.set([]string{`broken`})
	candidates, err = b.Extract(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, `broken`, candidates[0].Pattern)
}

func TestNewBasicFromSourceRejectsInvalidInitialLexicon(t *testing.T) {
	source := &mutableSource{patterns: []string{`[unclosed`}}
	_, err := NewBasicFromSource(splitSegmenter{}, source)
	assert.Error(t, err)
}

func TestBasicExtractFirstPatternWins(t *testing.T) {
	b, err := NewBasic(splitSegmenter{}, []string{`annoying`, `frustrating`})
	require.NoError(t, err)

	candidates, err := b.Extract(context.Background(), "This is annoying and frustrating.")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, `annoying`, candidates[0].Pattern)
}
