// Package pipeline drives the extract -> cluster -> score batch pipeline.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/metrics"
	"github.com/saasfinder/backend/internal/ml/scorer"
	"github.com/saasfinder/backend/internal/nlp/categorizer"
	"github.com/saasfinder/backend/internal/nlp/detector"
	"github.com/saasfinder/backend/internal/storage/models"
	"github.com/saasfinder/backend/pkg/logger"
)

// CorpusStore supplies unprocessed text units and accepts extracted pain
// points. SavePainPoints must mark the given source units processed in the
// same transaction, so a failed batch stays unprocessed and is retried.
type CorpusStore interface {
	FetchUnprocessedPosts(limit int) ([]models.Post, error)
	FetchUnprocessedComments(limit int) ([]models.Comment, error)
	SubredditForPost(postID string) (string, error)
	SavePainPoints(painPoints []models.PainPoint, processedPostIDs, processedCommentIDs []string) error
}

// OpportunityStore holds the pain point corpus and scored opportunities.
type OpportunityStore interface {
	FetchPainPoints() ([]models.PainPoint, error)
	SaveOpportunities(opportunities []models.Opportunity) error
}

// Report summarizes one full pipeline run.
type Report struct {
	PainPoints    int `json:"pain_points"`
	Opportunities int `json:"opportunities"`
}

type Processor struct {
	corpus      CorpusStore
	store       OpportunityStore
	detector    detector.Detector
	categorizer *categorizer.Categorizer
	engine      *scorer.Engine
	batchSize   int
}

func NewProcessor(corpus CorpusStore, store OpportunityStore, det detector.Detector, cat *categorizer.Categorizer, engine *scorer.Engine, batchSize int) *Processor {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Processor{
		corpus:      corpus,
		store:       store,
		detector:    det,
		categorizer: cat,
		engine:      engine,
		batchSize:   batchSize,
	}
}

// Run executes extraction and opportunity generation back to back.
func (p *Processor) Run(ctx context.Context) (Report, error) {
	painPoints, err := p.ProcessPainPoints(ctx)
	if err != nil {
		return Report{}, err
	}

	opportunities, err := p.GenerateOpportunities(ctx)
	if err != nil {
		return Report{PainPoints: painPoints}, err
	}

	return Report{PainPoints: painPoints, Opportunities: opportunities}, nil
}

// ProcessPainPoints walks the unprocessed corpus in bounded batches,
// extracts pain points and persists them. One malformed unit never aborts
// a batch; persistence failure does, leaving the batch unprocessed.
func (p *Processor) ProcessPainPoints(ctx context.Context) (int, error) {
	start := time.Now()
	total := 0

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		posts, err := p.corpus.FetchUnprocessedPosts(p.batchSize)
		if err != nil {
			metrics.PipelineRuns.WithLabelValues("extract", "error").Inc()
			return total, fmt.Errorf("failed to fetch unprocessed posts: %w", err)
		}
		if len(posts) == 0 {
			break
		}

		saved, err := p.processPostBatch(ctx, posts)
		if err != nil {
			metrics.PipelineRuns.WithLabelValues("extract", "error").Inc()
			return total, err
		}
		total += saved
	}

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		comments, err := p.corpus.FetchUnprocessedComments(p.batchSize)
		if err != nil {
			metrics.PipelineRuns.WithLabelValues("extract", "error").Inc()
			return total, fmt.Errorf("failed to fetch unprocessed comments: %w", err)
		}
		if len(comments) == 0 {
			break
		}

		saved, err := p.processCommentBatch(ctx, comments)
		if err != nil {
			metrics.PipelineRuns.WithLabelValues("extract", "error").Inc()
			return total, err
		}
		total += saved
	}

	metrics.PipelineRuns.WithLabelValues("extract", "success").Inc()
	metrics.PipelineDuration.WithLabelValues("extract").Observe(time.Since(start).Seconds())

	logger.Info("Pain point extraction finished",
		zap.Int("pain_points", total),
		zap.Duration("elapsed", time.Since(start)),
	)

	return total, nil
}

func (p *Processor) processPostBatch(ctx context.Context, posts []models.Post) (int, error) {
	var painPoints []models.PainPoint
	processedIDs := make([]string, 0, len(posts))

	for _, post := range posts {
		processedIDs = append(processedIDs, post.ID)
		metrics.UnitsProcessed.WithLabelValues(models.SourceTypePost).Inc()

		fullText := strings.TrimSpace(post.Title + " " + post.Content)
		if fullText == "" {
			continue
		}

		candidates, err := p.detector.Extract(ctx, fullText)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			metrics.UnitsSkipped.WithLabelValues(models.SourceTypePost).Inc()
			logger.Warn("Failed to process post, skipping",
				zap.String("post_id", post.ID),
				zap.Error(err),
			)
			continue
		}

		for _, cand := range candidates {
			painPoints = append(painPoints, models.PainPoint{
				SourceID:   post.ID,
				SourceType: models.SourceTypePost,
				Content:    cand.Content,
				Category:   p.categorizer.Classify(cand.Content),
				Severity:   cand.Severity,
				Confidence: cand.Confidence,
				Subreddit:  post.Subreddit,
			})
		}
	}

	if err := p.corpus.SavePainPoints(painPoints, processedIDs, nil); err != nil {
		return 0, fmt.Errorf("failed to save pain points: %w", err)
	}

	metrics.PainPointsExtracted.Add(float64(len(painPoints)))
	return len(painPoints), nil
}

func (p *Processor) processCommentBatch(ctx context.Context, comments []models.Comment) (int, error) {
	var painPoints []models.PainPoint
	processedIDs := make([]string, 0, len(comments))

	for _, comment := range comments {
		processedIDs = append(processedIDs, comment.ID)
		metrics.UnitsProcessed.WithLabelValues(models.SourceTypeComment).Inc()

		if strings.TrimSpace(comment.Content) == "" {
			continue
		}

		candidates, err := p.detector.Extract(ctx, comment.Content)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			metrics.UnitsSkipped.WithLabelValues(models.SourceTypeComment).Inc()
			logger.Warn("Failed to process comment, skipping",
				zap.String("comment_id", comment.ID),
				zap.Error(err),
			)
			continue
		}

		if len(candidates) == 0 {
			continue
		}

		subreddit, err := p.corpus.SubredditForPost(comment.PostID)
		if err != nil {
			logger.Warn("Failed to resolve subreddit for comment",
				zap.String("comment_id", comment.ID),
				zap.Error(err),
			)
			subreddit = "unknown"
		}

		for _, cand := range candidates {
			painPoints = append(painPoints, models.PainPoint{
				SourceID:   comment.ID,
				SourceType: models.SourceTypeComment,
				Content:    cand.Content,
				Category:   p.categorizer.Classify(cand.Content),
				Severity:   cand.Severity,
				Confidence: cand.Confidence,
				Subreddit:  subreddit,
			})
		}
	}

	if err := p.corpus.SavePainPoints(painPoints, nil, processedIDs); err != nil {
		return 0, fmt.Errorf("failed to save pain points: %w", err)
	}

	metrics.PainPointsExtracted.Add(float64(len(painPoints)))
	return len(painPoints), nil
}

// GenerateOpportunities clusters and scores the whole pain point corpus.
// An empty corpus is not an error.
func (p *Processor) GenerateOpportunities(ctx context.Context) (int, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	painPoints, err := p.store.FetchPainPoints()
	if err != nil {
		metrics.PipelineRuns.WithLabelValues("score", "error").Inc()
		return 0, fmt.Errorf("failed to fetch pain points: %w", err)
	}

	if len(painPoints) == 0 {
		logger.Warn("No pain points found, skipping opportunity generation")
		metrics.PipelineRuns.WithLabelValues("score", "success").Inc()
		return 0, nil
	}

	opportunities := p.engine.GenerateOpportunities(painPoints)

	if len(opportunities) > 0 {
		if err := p.store.SaveOpportunities(opportunities); err != nil {
			metrics.PipelineRuns.WithLabelValues("score", "error").Inc()
			return 0, fmt.Errorf("failed to save opportunities: %w", err)
		}
	}

	metrics.OpportunitiesGenerated.Add(float64(len(opportunities)))
	metrics.PipelineRuns.WithLabelValues("score", "success").Inc()
	metrics.PipelineDuration.WithLabelValues("score").Observe(time.Since(start).Seconds())

	logger.Info("Opportunity generation finished",
		zap.Int("pain_points", len(painPoints)),
		zap.Int("opportunities", len(opportunities)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return len(opportunities), nil
}
