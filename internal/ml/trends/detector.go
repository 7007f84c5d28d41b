// Package trends analyzes how opportunities develop over time.
package trends

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/storage/models"
	"github.com/saasfinder/backend/pkg/logger"
)

const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Store is the slice of the opportunity store the detector reads from.
type Store interface {
	FetchOpportunities(limit int) ([]models.Opportunity, error)
	PainPointTimes() (map[string]time.Time, error)
}

type OpportunityTrend struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	TotalScore float64 `json:"total_score"`
	Mentions   int     `json:"mentions"`
	Trend      string  `json:"trend"`
}

type Detector struct {
	store Store
}

func NewDetector(store Store) *Detector {
	return &Detector{store: store}
}

// AnalyzeOpportunityTrends labels each opportunity by how its pain point
// mentions are distributed over the lookback window: a 20% shift between
// the first and second half marks the trend as increasing or decreasing.
func (d *Detector) AnalyzeOpportunityTrends(days int) ([]OpportunityTrend, error) {
	if days <= 0 {
		days = 30
	}

	opportunities, err := d.store.FetchOpportunities(0)
	if err != nil {
		return nil, fmt.Errorf("failed to load opportunities: %w", err)
	}

	times, err := d.store.PainPointTimes()
	if err != nil {
		return nil, fmt.Errorf("failed to load pain point times: %w", err)
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)
	midpoint := start.Add(end.Sub(start) / 2)

	var results []OpportunityTrend
	for _, opp := range opportunities {
		var firstHalf, secondHalf int
		for _, id := range opp.PainPointIDs {
			t, ok := times[id]
			if !ok || t.Before(start) {
				continue
			}
			if t.Before(midpoint) {
				firstHalf++
			} else {
				secondHalf++
			}
		}

		mentions := firstHalf + secondHalf
		trend := TrendStable
		if mentions >= 2 {
			switch {
			case float64(secondHalf) > float64(firstHalf)*1.2:
				trend = TrendIncreasing
			case float64(firstHalf) > float64(secondHalf)*1.2:
				trend = TrendDecreasing
			}
		}

		results = append(results, OpportunityTrend{
			ID:         opp.ID,
			Title:      opp.Title,
			TotalScore: opp.TotalScore,
			Mentions:   mentions,
			Trend:      trend,
		})
	}

	logger.Info("Opportunity trends analyzed",
		zap.Int("opportunities", len(results)),
		zap.Int("days", days),
	)

	return results, nil
}

// SeasonalPatterns returns how pain point mentions distribute across
// calendar months.
func (d *Detector) SeasonalPatterns() (map[string]int, error) {
	times, err := d.store.PainPointTimes()
	if err != nil {
		return nil, fmt.Errorf("failed to load pain point times: %w", err)
	}

	patterns := make(map[string]int)
	for _, t := range times {
		patterns[t.UTC().Month().String()]++
	}

	return patterns, nil
}
