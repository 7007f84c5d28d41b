package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasfinder/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.InitSchema())
	return c
}

func TestUpsertPostIsIdempotent(t *testing.T) {
	c := newTestClient(t)

	post := models.Post{
		ID:         "p1",
		Subreddit:  "saas",
		Title:      "Invoice rant",
		Content:    "The exporter is broken",
		Author:     "u1",
		Score:      10,
		CreatedUTC: time.Now().UTC().Truncate(time.Second),
		ScrapedAt:  time.Now().UTC(),
	}
	require.NoError(t, c.UpsertPost(&post))

	post.Score = 25
	require.NoError(t, c.UpsertPost(&post))

	posts, err := c.FetchUnprocessedPosts(0)
	require.NoError(t, err)
	require.Len(t, posts, 1, "re-collection must not duplicate posts")
	assert.Equal(t, "p1", posts[0].ID)
}

func TestSavePainPointsMarksSourcesProcessed(t *testing.T) {
	c := newTestClient(t)

	now := time.Now().UTC()
	require.NoError(t, c.UpsertPost(&models.Post{
		ID: "p1", Subreddit: "saas", Title: "t", Content: "c", CreatedUTC: now, ScrapedAt: now,
	}))
	require.NoError(t, c.UpsertComment(&models.Comment{
		ID: "c1", PostID: "p1", Content: "so annoying", CreatedUTC: now, ScrapedAt: now,
	}))

	pps := []models.PainPoint{
		{SourceID: "p1", SourceType: models.SourceTypePost, Content: "the exporter is broken", Category: "finance", Severity: 0.5, Confidence: 0.5, Subreddit: "saas"},
		{SourceID: "c1", SourceType: models.SourceTypeComment, Content: "so annoying", Category: "other", Severity: 0.5, Confidence: 0.5, Subreddit: "saas"},
	}
	require.NoError(t, c.SavePainPoints(pps, []string{"p1"}, []string{"c1"}))

	posts, err := c.FetchUnprocessedPosts(0)
	require.NoError(t, err)
	assert.Empty(t, posts)

	comments, err := c.FetchUnprocessedComments(0)
	require.NoError(t, err)
	assert.Empty(t, comments)

	saved, err := c.FetchPainPoints()
	require.NoError(t, err)
	require.Len(t, saved, 2)

	bySource := make(map[string]models.PainPoint)
	for _, pp := range saved {
		assert.NotEmpty(t, pp.ID, "ids are assigned on save")
		bySource[pp.SourceID] = pp
	}
	assert.Equal(t, "the exporter is broken", bySource["p1"].Content)
	assert.Equal(t, "saas", bySource["p1"].Subreddit)
}

func TestSubredditForPost(t *testing.T) {
	c := newTestClient(t)

	now := time.Now().UTC()
	require.NoError(t, c.UpsertPost(&models.Post{
		ID: "p1", Subreddit: "startups", Title: "t", CreatedUTC: now, ScrapedAt: now,
	}))

	subreddit, err := c.SubredditForPost("p1")
	require.NoError(t, err)
	assert.Equal(t, "startups", subreddit)

	subreddit, err = c.SubredditForPost("missing")
	require.NoError(t, err)
	assert.Equal(t, "unknown", subreddit)
}

func TestSaveAndFetchOpportunities(t *testing.T) {
	c := newTestClient(t)

	opps := []models.Opportunity{
		{Title: "Low", TotalScore: 0.52, PainPointCount: 5, PainPointIDs: []string{"a", "b"}},
		{Title: "High", TotalScore: 0.91, PainPointCount: 12, PainPointIDs: []string{"c"}},
	}
	require.NoError(t, c.SaveOpportunities(opps))

	fetched, err := c.FetchOpportunities(0)
	require.NoError(t, err)
	require.Len(t, fetched, 2)

	assert.Equal(t, "High", fetched[0].Title, "ordered by total score descending")
	assert.Equal(t, "Low", fetched[1].Title)
	assert.Equal(t, []string{"a", "b"}, fetched[1].PainPointIDs)
	assert.NotEmpty(t, fetched[0].ID)

	limited, err := c.FetchOpportunities(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "High", limited[0].Title)
}

func TestFetchOpportunitiesRejectsCorruptPainPointIDs(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, c.SaveOpportunities([]models.Opportunity{
		{Title: "High", TotalScore: 0.91, PainPointCount: 3, PainPointIDs: []string{"a"}},
	}))

	_, err := c.db.Exec("UPDATE opportunities SET pain_point_ids = 'not-json'")
	require.NoError(t, err)

	_, err = c.FetchOpportunities(0)
	assert.ErrorContains(t, err, "pain point ids")
}

func TestCategoryDistribution(t *testing.T) {
	c := newTestClient(t)

	pps := []models.PainPoint{
		{SourceID: "p1", SourceType: models.SourceTypePost, Content: "a", Category: "finance"},
		{SourceID: "p2", SourceType: models.SourceTypePost, Content: "b", Category: "finance"},
		{SourceID: "p3", SourceType: models.SourceTypePost, Content: "c", Category: "other"},
	}
	require.NoError(t, c.SavePainPoints(pps, nil, nil))

	dist, err := c.CategoryDistribution()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"finance": 2, "other": 1}, dist)
}
