package detector

import (
	"context"

	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/cache"
	"github.com/saasfinder/backend/internal/metrics"
	"github.com/saasfinder/backend/internal/nlp/sentiment"
	"github.com/saasfinder/backend/pkg/logger"
	"github.com/saasfinder/backend/pkg/utils"
)

// Advanced confirms keyword candidates with a sentiment classifier. The
// basic detector acts as a cheap pre-filter so the model only sees
// sentences that already look like complaints. Results are cached by
// content hash because classification dominates pipeline latency.
type Advanced struct {
	prefilter  *Basic
	classifier sentiment.Classifier
	cache      cache.Cache
	threshold  float64
}

func NewAdvanced(prefilter *Basic, classifier sentiment.Classifier, c cache.Cache, threshold float64) *Advanced {
	return &Advanced{
		prefilter:  prefilter,
		classifier: classifier,
		cache:      c,
		threshold:  threshold,
	}
}

func (a *Advanced) Extract(ctx context.Context, text string) ([]Candidate, error) {
	key := utils.HashString(text)

	var cached []Candidate
	if hit, err := a.cache.Get(ctx, key, &cached); err != nil {
		logger.Warn("NLP cache read failed", zap.Error(err))
	} else if hit {
		metrics.CacheHits.WithLabelValues("nlp").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("nlp").Inc()

	candidates, err := a.prefilter.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	confirmed := make([]Candidate, 0, len(candidates))
	for _, cand := range candidates {
		result, err := a.classifier.Classify(ctx, cand.Content)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("Classifier failed for sentence, skipping",
				zap.Error(err),
				zap.Int("length", len(cand.Content)),
			)
			continue
		}

		if result.Label != sentiment.LabelNegative || result.Confidence <= a.threshold {
			continue
		}

		confirmed = append(confirmed, Candidate{
			Content:    cand.Content,
			Confidence: result.Confidence,
			Severity:   sentiment.Severity(result, cand.Content),
		})
	}

	if err := a.cache.Put(ctx, key, confirmed); err != nil {
		logger.Warn("NLP cache write failed", zap.Error(err))
	}

	return confirmed, nil
}
