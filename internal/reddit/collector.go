package reddit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/metrics"
	"github.com/saasfinder/backend/internal/storage/models"
	"github.com/saasfinder/backend/pkg/logger"
)

// Store receives collected units. Upserts keep re-collection idempotent:
// an already-processed unit keeps its processed flag.
type Store interface {
	UpsertPost(post *models.Post) error
	UpsertComment(comment *models.Comment) error
}

// Collector walks the configured subreddits and persists what it finds.
type Collector struct {
	client     *Client
	store      Store
	subreddits []string
	postLimit  int
}

func NewCollector(client *Client, store Store, subreddits []string, postLimit int) *Collector {
	if postLimit <= 0 {
		postLimit = 100
	}
	return &Collector{
		client:     client,
		store:      store,
		subreddits: subreddits,
		postLimit:  postLimit,
	}
}

// Collect fetches new posts and their comments for every configured
// subreddit. A failing subreddit is logged and skipped so one outage never
// starves the rest; the first store error aborts the run.
func (c *Collector) Collect(ctx context.Context) (int, error) {
	if !c.client.Enabled() {
		logger.Warn("Reddit collection skipped, no API credentials configured")
		return 0, nil
	}

	start := time.Now()
	total := 0

	for _, subreddit := range c.subreddits {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, err := c.collectSubreddit(ctx, subreddit)
		if err != nil {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			logger.Error("Failed to collect subreddit",
				zap.String("subreddit", subreddit),
				zap.Error(err),
			)
			continue
		}
		total += n
	}

	metrics.PipelineRuns.WithLabelValues("collect", "success").Inc()
	metrics.PipelineDuration.WithLabelValues("collect").Observe(time.Since(start).Seconds())

	logger.Info("Reddit collection finished",
		zap.Int("posts", total),
		zap.Duration("elapsed", time.Since(start)),
	)
	return total, nil
}

func (c *Collector) collectSubreddit(ctx context.Context, subreddit string) (int, error) {
	posts, err := c.client.FetchNewPosts(ctx, subreddit, c.postLimit)
	if err != nil {
		return 0, err
	}

	for i := range posts {
		post := posts[i]
		if err := c.store.UpsertPost(&post); err != nil {
			return 0, fmt.Errorf("failed to store post %s: %w", post.ID, err)
		}
		metrics.PostsCollected.WithLabelValues(subreddit).Inc()

		if post.NumComments == 0 {
			continue
		}

		comments, err := c.client.FetchComments(ctx, subreddit, post.ID)
		if err != nil {
			logger.Warn("Failed to fetch comments, skipping",
				zap.String("post_id", post.ID),
				zap.Error(err),
			)
			continue
		}
		for i := range comments {
			comment := comments[i]
			if err := c.store.UpsertComment(&comment); err != nil {
				return 0, fmt.Errorf("failed to store comment %s: %w", comment.ID, err)
			}
		}
	}

	logger.Debug("Collected subreddit",
		zap.String("subreddit", subreddit),
		zap.Int("posts", len(posts)),
	)
	return len(posts), nil
}
