// Package reddit collects posts and comments through the public OAuth API.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/saasfinder/backend/internal/storage/models"
)

const (
	authURL = "https://www.reddit.com/api/v1/access_token"
	apiBase = "https://oauth.reddit.com"
)

// Client talks to the Reddit API using the client_credentials grant. It is
// not safe for concurrent use; the collector drives it from one goroutine.
type Client struct {
	clientID     string
	clientSecret string
	userAgent    string
	http         *resty.Client

	accessToken string
	tokenExpiry time.Time
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type apiPost struct {
	ID          string  `json:"id"`
	Subreddit   string  `json:"subreddit"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
}

type apiComment struct {
	ID         string  `json:"id"`
	Body       string  `json:"body"`
	Author     string  `json:"author"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}

func NewClient(clientID, clientSecret, userAgent string) *Client {
	if userAgent == "" {
		userAgent = "saasfinder/1.0"
	}
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		http:         resty.New().SetTimeout(30 * time.Second),
	}
}

// Enabled reports whether API credentials were configured.
func (c *Client) Enabled() bool {
	return c.clientID != "" && c.clientSecret != ""
}

func (c *Client) authenticate(ctx context.Context) error {
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("User-Agent", c.userAgent).
		SetBasicAuth(c.clientID, c.clientSecret).
		SetFormData(map[string]string{
			"grant_type": "client_credentials",
		}).
		Post(authURL)
	if err != nil {
		return fmt.Errorf("reddit authentication failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("reddit authentication returned status %d", resp.StatusCode())
	}

	var authResp authResponse
	if err := json.Unmarshal(resp.Body(), &authResp); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}
	if authResp.AccessToken == "" {
		return fmt.Errorf("reddit auth response contained no token")
	}

	c.accessToken = authResp.AccessToken
	// Refresh a minute early so in-flight requests never race expiry.
	c.tokenExpiry = time.Now().Add(time.Duration(authResp.ExpiresIn-60) * time.Second)
	return nil
}

// FetchNewPosts returns the newest submissions in a subreddit, most recent
// first, up to limit (Reddit caps a page at 100).
func (c *Client) FetchNewPosts(ctx context.Context, subreddit string, limit int) ([]models.Post, error) {
	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	url := fmt.Sprintf("%s/r/%s/new.json?limit=%d", apiBase, subreddit, limit)
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.accessToken).
		SetHeader("User-Agent", c.userAgent).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts from r/%s: %w", subreddit, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("reddit API returned status %d for r/%s", resp.StatusCode(), subreddit)
	}

	var listing listingResponse
	if err := json.Unmarshal(resp.Body(), &listing); err != nil {
		return nil, fmt.Errorf("failed to decode listing for r/%s: %w", subreddit, err)
	}

	now := time.Now().UTC()
	posts := make([]models.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		var p apiPost
		if err := json.Unmarshal(child.Data, &p); err != nil {
			continue
		}
		if p.ID == "" {
			continue
		}
		posts = append(posts, models.Post{
			ID:          p.ID,
			Subreddit:   p.Subreddit,
			Title:       p.Title,
			Content:     p.Selftext,
			Author:      p.Author,
			Score:       p.Score,
			NumComments: p.NumComments,
			CreatedUTC:  time.Unix(int64(p.CreatedUTC), 0).UTC(),
			ScrapedAt:   now,
		})
	}
	return posts, nil
}

// FetchComments returns the top-level comment tree of a post, flattened.
// The comments endpoint answers with two listings; the first echoes the
// post and the second holds the comments.
func (c *Client) FetchComments(ctx context.Context, subreddit, postID string) ([]models.Comment, error) {
	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/r/%s/comments/%s.json", apiBase, subreddit, postID)
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.accessToken).
		SetHeader("User-Agent", c.userAgent).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments for %s: %w", postID, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("reddit API returned status %d for post %s", resp.StatusCode(), postID)
	}

	var listings []listingResponse
	if err := json.Unmarshal(resp.Body(), &listings); err != nil {
		return nil, fmt.Errorf("failed to decode comments for %s: %w", postID, err)
	}
	if len(listings) < 2 {
		return nil, nil
	}

	now := time.Now().UTC()
	var comments []models.Comment
	for _, child := range listings[1].Data.Children {
		if child.Kind != "t1" {
			continue
		}
		var cm apiComment
		if err := json.Unmarshal(child.Data, &cm); err != nil {
			continue
		}
		if cm.ID == "" || cm.Body == "" || cm.Body == "[deleted]" || cm.Body == "[removed]" {
			continue
		}
		comments = append(comments, models.Comment{
			ID:         cm.ID,
			PostID:     postID,
			Content:    cm.Body,
			Author:     cm.Author,
			Score:      cm.Score,
			CreatedUTC: time.Unix(int64(cm.CreatedUTC), 0).UTC(),
			ScrapedAt:  now,
		})
	}
	return comments, nil
}
