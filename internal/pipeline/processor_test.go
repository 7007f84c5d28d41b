package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasfinder/backend/internal/ml/scorer"
	"github.com/saasfinder/backend/internal/nlp/categorizer"
	"github.com/saasfinder/backend/internal/nlp/detector"
	"github.com/saasfinder/backend/internal/storage/models"
)

type dotSegmenter struct{}

func (dotSegmenter) Segment(text string) ([]string, error) {
	var out []string
	for _, s := range strings.Split(text, ".") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeStore backs both pipeline store interfaces with in-memory state.
type fakeStore struct {
	posts    []models.Post
	comments []models.Comment

	painPoints    []models.PainPoint
	opportunities []models.Opportunity
	subreddits    map[string]string

	saveErr error
}

func (f *fakeStore) FetchUnprocessedPosts(limit int) ([]models.Post, error) {
	var out []models.Post
	for _, p := range f.posts {
		if p.Processed {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) FetchUnprocessedComments(limit int) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range f.comments {
		if c.Processed {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) SubredditForPost(postID string) (string, error) {
	if s, ok := f.subreddits[postID]; ok {
		return s, nil
	}
	return "unknown", nil
}

func (f *fakeStore) SavePainPoints(painPoints []models.PainPoint, processedPostIDs, processedCommentIDs []string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.painPoints = append(f.painPoints, painPoints...)
	for _, id := range processedPostIDs {
		for i := range f.posts {
			if f.posts[i].ID == id {
				f.posts[i].Processed = true
			}
		}
	}
	for _, id := range processedCommentIDs {
		for i := range f.comments {
			if f.comments[i].ID == id {
				f.comments[i].Processed = true
			}
		}
	}
	return nil
}

func (f *fakeStore) FetchPainPoints() ([]models.PainPoint, error) {
	return f.painPoints, nil
}

func (f *fakeStore) SaveOpportunities(opportunities []models.Opportunity) error {
	f.opportunities = append(f.opportunities, opportunities...)
	return nil
}

func newTestProcessor(t *testing.T, store *fakeStore, batchSize int) *Processor {
	t.Helper()
	basic, err := detector.NewBasic(dotSegmenter{}, []string{`annoying`, `frustrating`, `broken`})
	require.NoError(t, err)
	return NewProcessor(store, store, basic, categorizer.New(nil), scorer.NewEngine(scorer.DefaultConfig()), batchSize)
}

func TestProcessPainPoints(t *testing.T) {
	store := &fakeStore{
		posts: []models.Post{
			{ID: "p1", Subreddit: "saas", Title: "Invoice tool rant", Content: "The invoice exporter is broken."},
			{ID: "p2", Subreddit: "startups", Title: "Nice weather", Content: "Sunny all week."},
		},
		comments: []models.Comment{
			{ID: "c1", PostID: "p1", Content: "Same here, so annoying."},
			{ID: "c2", PostID: "deleted", Content: "Completely frustrating."},
		},
		subreddits: map[string]string{"p1": "saas"},
	}
	p := newTestProcessor(t, store, 10)

	count, err := p.ProcessPainPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, store.painPoints, 3)

	byID := make(map[string]models.PainPoint)
	for _, pp := range store.painPoints {
		byID[pp.SourceID] = pp
	}

	assert.Equal(t, models.SourceTypePost, byID["p1"].SourceType)
	assert.Equal(t, "saas", byID["p1"].Subreddit)
	assert.Equal(t, "finance", byID["p1"].Category)

	assert.Equal(t, models.SourceTypeComment, byID["c1"].SourceType)
	assert.Equal(t, "saas", byID["c1"].Subreddit, "comment inherits the parent post subreddit")

	assert.Equal(t, "unknown", byID["c2"].Subreddit, "orphaned comment falls back to unknown")

	for _, post := range store.posts {
		assert.True(t, post.Processed, "post %s", post.ID)
	}
	for _, comment := range store.comments {
		assert.True(t, comment.Processed, "comment %s", comment.ID)
	}

	// A second run finds nothing left to do.
	count, err = p.ProcessPainPoints(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestProcessPainPointsWalksBatches(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 5; i++ {
		store.posts = append(store.posts, models.Post{
			ID:      string(rune('a' + i)),
			Title:   "rant",
			Content: "everything is broken.",
		})
	}
	p := newTestProcessor(t, store, 2)

	count, err := p.ProcessPainPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	for _, post := range store.posts {
		assert.True(t, post.Processed)
	}
}

func TestProcessPainPointsSaveFailureLeavesBatchUnprocessed(t *testing.T) {
	store := &fakeStore{
		posts:   []models.Post{{ID: "p1", Title: "rant", Content: "so broken."}},
		saveErr: assert.AnError,
	}
	p := newTestProcessor(t, store, 10)

	_, err := p.ProcessPainPoints(context.Background())
	require.Error(t, err)
	assert.False(t, store.posts[0].Processed)
}

func TestProcessPainPointsHonorsContext(t *testing.T) {
	store := &fakeStore{
		posts: []models.Post{{ID: "p1", Title: "rant", Content: "broken."}},
	}
	p := newTestProcessor(t, store, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProcessPainPoints(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, store.posts[0].Processed)
}

func TestGenerateOpportunitiesEmptyCorpus(t *testing.T) {
	store := &fakeStore{}
	p := newTestProcessor(t, store, 10)

	count, err := p.GenerateOpportunities(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, store.opportunities)
}

func TestRunEndToEnd(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 10; i++ {
		store.posts = append(store.posts, models.Post{
			ID:        string(rune('a' + i)),
			Subreddit: "smallbusiness",
			Title:     "Invoice complaints",
			Content:   "The invoice tool is broken, I would pay for a premium subscription.",
		})
	}
	p := newTestProcessor(t, store, 100)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, report.PainPoints)
	assert.Equal(t, 1, report.Opportunities)
	require.Len(t, store.opportunities, 1)
	assert.Equal(t, 10, store.opportunities[0].PainPointCount)
}
