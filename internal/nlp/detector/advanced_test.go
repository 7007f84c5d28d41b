package detector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasfinder/backend/internal/cache"
	"github.com/saasfinder/backend/internal/nlp/sentiment"
)

// scriptedClassifier answers from a fixed table and counts invocations.
type scriptedClassifier struct {
	results map[string]sentiment.Result
	errs    map[string]error
	calls   int
}

func (s *scriptedClassifier) Classify(_ context.Context, text string) (sentiment.Result, error) {
	s.calls++
	if err, ok := s.errs[text]; ok {
		return sentiment.Result{}, err
	}
	if r, ok := s.results[text]; ok {
		return r, nil
	}
	return sentiment.Result{Label: sentiment.LabelNeutral, Confidence: 0.9}, nil
}

func newAdvancedForTest(t *testing.T, classifier sentiment.Classifier) *Advanced {
	t.Helper()
	basic, err := NewBasic(splitSegmenter{}, []string{`annoying`, `frustrating`, `slow`})
	require.NoError(t, err)
	return NewAdvanced(basic, classifier, cache.NewMemory(), 0.6)
}

func TestAdvancedExtractConfirmsNegatives(t *testing.T) {
	classifier := &scriptedClassifier{
		results: map[string]sentiment.Result{
			"The exporter is annoying":     {Label: sentiment.LabelNegative, Confidence: 0.9},
			"Slow days are fine sometimes": {Label: sentiment.LabelPositive, Confidence: 0.95},
		},
	}
	adv := newAdvancedForTest(t, classifier)

	text := "The exporter is annoying. Slow days are fine sometimes."
	candidates, err := adv.Extract(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	assert.Equal(t, "The exporter is annoying", candidates[0].Content)
	assert.InDelta(t, 0.9, candidates[0].Confidence, 1e-9)
	assert.Greater(t, candidates[0].Severity, 0.0)
}

func TestAdvancedExtractThresholdIsStrict(t *testing.T) {
	classifier := &scriptedClassifier{
		results: map[string]sentiment.Result{
			"This is annoying": {Label: sentiment.LabelNegative, Confidence: 0.6},
		},
	}
	adv := newAdvancedForTest(t, classifier)

	// Exactly at the threshold is not enough.
	candidates, err := adv.Extract(context.Background(), "This is annoying.")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestAdvancedExtractCachesByContent(t *testing.T) {
	classifier := &scriptedClassifier{
		results: map[string]sentiment.Result{
			"This is annoying": {Label: sentiment.LabelNegative, Confidence: 0.9},
		},
	}
	adv := newAdvancedForTest(t, classifier)

	first, err := adv.Extract(context.Background(), "This is annoying.")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, classifier.calls)

	second, err := adv.Extract(context.Background(), "This is annoying.")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, classifier.calls, "repeat input must be served from cache")
}

func TestAdvancedExtractSkipsFailedSentences(t *testing.T) {
	classifier := &scriptedClassifier{
		results: map[string]sentiment.Result{
			"The sync is frustrating": {Label: sentiment.LabelNegative, Confidence: 0.8},
		},
		errs: map[string]error{
			"This is annoying": errors.New("model unavailable"),
		},
	}
	adv := newAdvancedForTest(t, classifier)

	candidates, err := adv.Extract(context.Background(), "This is annoying. The sync is frustrating.")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "The sync is frustrating", candidates[0].Content)
}

func TestAdvancedExtractReturnsContextError(t *testing.T) {
	classifier := &scriptedClassifier{
		errs: map[string]error{
			"This is annoying": context.Canceled,
		},
	}
	adv := newAdvancedForTest(t, classifier)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adv.Extract(ctx, "This is annoying.")
	assert.ErrorIs(t, err, context.Canceled)
}
