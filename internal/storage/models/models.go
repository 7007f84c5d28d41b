package models

import "time"

// Post is a submission collected from a subreddit.
type Post struct {
	ID          string
	Subreddit   string
	Title       string
	Content     string
	Author      string
	Score       int
	NumComments int
	CreatedUTC  time.Time
	ScrapedAt   time.Time
	Processed   bool
}

// Comment is a reply collected under a post.
type Comment struct {
	ID         string
	PostID     string
	Content    string
	Author     string
	Score      int
	CreatedUTC time.Time
	ScrapedAt  time.Time
	Processed  bool
}

const (
	SourceTypePost    = "post"
	SourceTypeComment = "comment"
)

// PainPoint is one extracted complaint. SourceID/SourceType point back at
// the originating post or comment; Subreddit is copied from the source so
// diversity scoring does not need a join.
type PainPoint struct {
	ID          string
	SourceID    string
	SourceType  string
	Content     string
	Category    string
	Severity    float64
	Confidence  float64
	Subreddit   string
	ProcessedAt time.Time
}

// Opportunity is a scored product idea derived from one cluster of pain
// points. PainPointIDs preserves cluster membership order for auditability.
type Opportunity struct {
	ID                    string
	Title                 string
	Description           string
	Category              string
	MarketScore           float64
	FrequencyScore        float64
	WillingnessToPayScore float64
	TotalScore            float64
	PainPointCount        int
	PainPointIDs          []string
	CreatedAt             time.Time
}
