package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/storage/models"
	"github.com/saasfinder/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		subreddit TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT,
		author TEXT,
		score INTEGER,
		num_comments INTEGER,
		created_utc INTEGER,
		scraped_at INTEGER NOT NULL,
		processed INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_posts_subreddit ON posts(subreddit);
	CREATE INDEX IF NOT EXISTS idx_posts_processed ON posts(processed);

	CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		post_id TEXT REFERENCES posts(id),
		content TEXT NOT NULL,
		author TEXT,
		score INTEGER,
		created_utc INTEGER,
		scraped_at INTEGER NOT NULL,
		processed INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id);
	CREATE INDEX IF NOT EXISTS idx_comments_processed ON comments(processed);

	CREATE TABLE IF NOT EXISTS pain_points (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL,
		source_type TEXT NOT NULL,
		content TEXT NOT NULL,
		category TEXT,
		severity REAL,
		confidence REAL,
		subreddit TEXT,
		processed_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pain_points_source ON pain_points(source_id, source_type);
	CREATE INDEX IF NOT EXISTS idx_pain_points_category ON pain_points(category);

	CREATE TABLE IF NOT EXISTS opportunities (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		category TEXT,
		market_score REAL,
		frequency_score REAL,
		willingness_to_pay_score REAL,
		total_score REAL,
		pain_point_count INTEGER,
		pain_point_ids TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_opportunities_score ON opportunities(total_score);
	CREATE INDEX IF NOT EXISTS idx_opportunities_category ON opportunities(category);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) UpsertPost(post *models.Post) error {
	query := `
		INSERT INTO posts (id, subreddit, title, content, author, score, num_comments, created_utc, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			score = excluded.score,
			num_comments = excluded.num_comments,
			scraped_at = excluded.scraped_at
	`

	_, err := c.db.Exec(
		query,
		post.ID,
		post.Subreddit,
		post.Title,
		post.Content,
		post.Author,
		post.Score,
		post.NumComments,
		post.CreatedUTC.Unix(),
		post.ScrapedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to upsert post: %w", err)
	}

	logger.Debug("Post stored", zap.String("post_id", post.ID), zap.String("subreddit", post.Subreddit))
	return nil
}

func (c *Client) UpsertComment(comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, content, author, score, created_utc, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			score = excluded.score,
			scraped_at = excluded.scraped_at
	`

	_, err := c.db.Exec(
		query,
		comment.ID,
		comment.PostID,
		comment.Content,
		comment.Author,
		comment.Score,
		comment.CreatedUTC.Unix(),
		comment.ScrapedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to upsert comment: %w", err)
	}

	return nil
}

// FetchUnprocessedPosts returns up to limit posts that have not been through
// pain point extraction yet. limit <= 0 means no limit.
func (c *Client) FetchUnprocessedPosts(limit int) ([]models.Post, error) {
	query := `
		SELECT id, subreddit, title, content, author, created_utc
		FROM posts
		WHERE processed = 0
		ORDER BY created_utc ASC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unprocessed posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		var content sql.NullString
		var createdUTC int64

		err := rows.Scan(&p.ID, &p.Subreddit, &p.Title, &content, &p.Author, &createdUTC)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		p.Content = content.String
		p.CreatedUTC = time.Unix(createdUTC, 0)
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

func (c *Client) FetchUnprocessedComments(limit int) ([]models.Comment, error) {
	query := `
		SELECT id, post_id, content, author, created_utc
		FROM comments
		WHERE processed = 0
		ORDER BY created_utc ASC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unprocessed comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var cm models.Comment
		var postID sql.NullString
		var createdUTC int64

		err := rows.Scan(&cm.ID, &postID, &cm.Content, &cm.Author, &createdUTC)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		cm.PostID = postID.String
		cm.CreatedUTC = time.Unix(createdUTC, 0)
		comments = append(comments, cm)
	}

	return comments, rows.Err()
}

// SubredditForPost resolves the subreddit of a post so comment-derived pain
// points can carry it. Returns "unknown" when the post is gone.
func (c *Client) SubredditForPost(postID string) (string, error) {
	var subreddit string
	err := c.db.QueryRow(`SELECT subreddit FROM posts WHERE id = ?`, postID).Scan(&subreddit)
	if err == sql.ErrNoRows {
		return "unknown", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve subreddit: %w", err)
	}
	return subreddit, nil
}

// SavePainPoints persists a batch of pain points and flips the processed
// flag on every source unit in the same transaction. Sources are only
// marked processed when the whole batch commits, so a failed batch is
// retried on the next run.
func (c *Client) SavePainPoints(painPoints []models.PainPoint, processedPostIDs, processedCommentIDs []string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO pain_points (id, source_id, source_type, content, category, severity, confidence, subreddit, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i := range painPoints {
		pp := &painPoints[i]
		if pp.ID == "" {
			pp.ID = uuid.New().String()
		}
		if pp.ProcessedAt.IsZero() {
			pp.ProcessedAt = time.Now()
		}

		_, err = tx.Exec(
			insert,
			pp.ID,
			pp.SourceID,
			pp.SourceType,
			pp.Content,
			pp.Category,
			pp.Severity,
			pp.Confidence,
			pp.Subreddit,
			pp.ProcessedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert pain point: %w", err)
		}
	}

	for _, id := range processedPostIDs {
		if _, err = tx.Exec(`UPDATE posts SET processed = 1 WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to mark post processed: %w", err)
		}
	}
	for _, id := range processedCommentIDs {
		if _, err = tx.Exec(`UPDATE comments SET processed = 1 WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to mark comment processed: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pain points: %w", err)
	}

	logger.Info("Pain points saved",
		zap.Int("count", len(painPoints)),
		zap.Int("posts_marked", len(processedPostIDs)),
		zap.Int("comments_marked", len(processedCommentIDs)),
	)

	return nil
}

// FetchPainPoints returns the whole corpus in insertion order.
func (c *Client) FetchPainPoints() ([]models.PainPoint, error) {
	query := `
		SELECT id, source_id, source_type, content, category, severity, confidence, subreddit, processed_at
		FROM pain_points
		ORDER BY processed_at ASC, id ASC
	`

	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pain points: %w", err)
	}
	defer rows.Close()

	var painPoints []models.PainPoint
	for rows.Next() {
		var pp models.PainPoint
		var category, subreddit sql.NullString
		var processedAt int64

		err := rows.Scan(&pp.ID, &pp.SourceID, &pp.SourceType, &pp.Content, &category, &pp.Severity, &pp.Confidence, &subreddit, &processedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		pp.Category = category.String
		pp.Subreddit = subreddit.String
		pp.ProcessedAt = time.Unix(processedAt, 0)
		painPoints = append(painPoints, pp)
	}

	return painPoints, rows.Err()
}

func (c *Client) SaveOpportunities(opportunities []models.Opportunity) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO opportunities (id, title, description, category, market_score, frequency_score,
			willingness_to_pay_score, total_score, pain_point_count, pain_point_ids, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i := range opportunities {
		opp := &opportunities[i]
		if opp.ID == "" {
			opp.ID = uuid.New().String()
		}
		if opp.CreatedAt.IsZero() {
			opp.CreatedAt = time.Now()
		}

		idsJSON, err := json.Marshal(opp.PainPointIDs)
		if err != nil {
			return fmt.Errorf("failed to marshal pain point ids: %w", err)
		}

		_, err = tx.Exec(
			insert,
			opp.ID,
			opp.Title,
			opp.Description,
			opp.Category,
			opp.MarketScore,
			opp.FrequencyScore,
			opp.WillingnessToPayScore,
			opp.TotalScore,
			opp.PainPointCount,
			string(idsJSON),
			opp.CreatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert opportunity: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit opportunities: %w", err)
	}

	logger.Info("Opportunities saved", zap.Int("count", len(opportunities)))
	return nil
}

// FetchOpportunities returns the top opportunities by total score.
// limit <= 0 means no limit.
func (c *Client) FetchOpportunities(limit int) ([]models.Opportunity, error) {
	query := `
		SELECT id, title, description, category, market_score, frequency_score,
			willingness_to_pay_score, total_score, pain_point_count, pain_point_ids, created_at
		FROM opportunities
		ORDER BY total_score DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch opportunities: %w", err)
	}
	defer rows.Close()

	var opportunities []models.Opportunity
	for rows.Next() {
		var opp models.Opportunity
		var description, category, idsJSON sql.NullString
		var createdAt int64

		err := rows.Scan(&opp.ID, &opp.Title, &description, &category, &opp.MarketScore,
			&opp.FrequencyScore, &opp.WillingnessToPayScore, &opp.TotalScore,
			&opp.PainPointCount, &idsJSON, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		opp.Description = description.String
		opp.Category = category.String
		opp.CreatedAt = time.Unix(createdAt, 0)
		if idsJSON.Valid {
			if err := json.Unmarshal([]byte(idsJSON.String), &opp.PainPointIDs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal pain point ids for opportunity %s: %w", opp.ID, err)
			}
		}
		opportunities = append(opportunities, opp)
	}

	return opportunities, rows.Err()
}

// PainPointTimes maps pain point IDs to the creation time of their source
// unit. Pain points whose source has no timestamp are omitted.
func (c *Client) PainPointTimes() (map[string]time.Time, error) {
	query := `
		SELECT pp.id, COALESCE(p.created_utc, cm.created_utc) AS created_utc
		FROM pain_points pp
		LEFT JOIN posts p ON pp.source_type = 'post' AND pp.source_id = p.id
		LEFT JOIN comments cm ON pp.source_type = 'comment' AND pp.source_id = cm.id
		WHERE COALESCE(p.created_utc, cm.created_utc) IS NOT NULL
	`

	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pain point times: %w", err)
	}
	defer rows.Close()

	times := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var createdUTC int64
		if err := rows.Scan(&id, &createdUTC); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		times[id] = time.Unix(createdUTC, 0)
	}

	return times, rows.Err()
}

// CategoryDistribution returns pain point counts per category.
func (c *Client) CategoryDistribution() (map[string]int, error) {
	rows, err := c.db.Query(`SELECT COALESCE(category, ''), COUNT(*) FROM pain_points GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if category == "" {
			category = "uncategorized"
		}
		dist[category] = count
	}

	return dist, rows.Err()
}
