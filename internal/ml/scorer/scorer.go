// Package scorer turns pain point clusters into scored opportunities.
package scorer

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/ml/cluster"
	"github.com/saasfinder/backend/internal/storage/models"
	"github.com/saasfinder/backend/pkg/logger"
)

const uncategorized = "uncategorized"

type Config struct {
	SimilarityThreshold float64
	MinPainPoints       int
	MinTotalScore       float64
}

func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.7,
		MinPainPoints:       5,
		MinTotalScore:       0.5,
	}
}

// Engine clusters a pain point corpus and scores the clusters. It holds no
// state between invocations; the vector space is rebuilt per call.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = 0.7
	}
	if cfg.MinPainPoints == 0 {
		cfg.MinPainPoints = 5
	}
	return &Engine{cfg: cfg}
}

// GenerateOpportunities runs the full scoring pipeline over one batch of
// pain points. Clusters below the minimum size are discarded before any
// sub-score or title work; clusters below the minimum total score are
// discarded after.
func (e *Engine) GenerateOpportunities(painPoints []models.PainPoint) []models.Opportunity {
	clusters := cluster.Group(painPoints, e.cfg.SimilarityThreshold)

	logger.Info("Opportunity groups identified",
		zap.Int("pain_points", len(painPoints)),
		zap.Int("groups", len(clusters)),
	)

	var opportunities []models.Opportunity
	for _, cl := range clusters {
		if len(cl.Members) < e.cfg.MinPainPoints {
			continue
		}

		opp := e.scoreCluster(cl)
		if opp.TotalScore < e.cfg.MinTotalScore {
			logger.Debug("Opportunity below score threshold, dropped",
				zap.Float64("total_score", opp.TotalScore),
				zap.Int("pain_points", opp.PainPointCount),
			)
			continue
		}

		opportunities = append(opportunities, opp)
	}

	logger.Info("Opportunities scored", zap.Int("count", len(opportunities)))
	return opportunities
}

func (e *Engine) scoreCluster(cl cluster.Cluster) models.Opportunity {
	members := cl.Members

	marketScore := marketScore(members)
	frequencyScore := frequencyScore(len(members))

	var wtpSum float64
	for _, pp := range members {
		wtpSum += WillingnessToPay(pp.Content)
	}
	wtpScore := wtpSum / float64(len(members))

	totalScore := marketScore*0.4 + frequencyScore*0.3 + wtpScore*0.3

	texts := make([]string, len(members))
	ids := make([]string, len(members))
	for i, pp := range members {
		texts[i] = pp.Content
		ids[i] = pp.ID
	}

	return models.Opportunity{
		Title:                 SynthesizeTitle(texts),
		Description:           synthesizeDescription(texts),
		Category:              majorityCategory(members),
		MarketScore:           marketScore,
		FrequencyScore:        frequencyScore,
		WillingnessToPayScore: wtpScore,
		TotalScore:            totalScore,
		PainPointCount:        len(members),
		PainPointIDs:          ids,
	}
}

// marketScore weighs raw cluster size, reach (distinct source units) and
// subreddit diversity. The weighted sum is scaled down by 100 and capped
// at 1.0, so only very large clusters saturate it.
func marketScore(members []models.PainPoint) float64 {
	frequency := float64(len(members))

	sources := make(map[string]struct{})
	subreddits := make(map[string]struct{})
	for _, pp := range members {
		sources[pp.SourceType+":"+pp.SourceID] = struct{}{}
		if pp.Subreddit != "" {
			subreddits[pp.Subreddit] = struct{}{}
		}
	}

	score := (frequency*0.4 + float64(len(sources))*0.4 + float64(len(subreddits))*0.2) / 100
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// frequencyScore saturates at ten pain points.
func frequencyScore(size int) float64 {
	score := float64(size) / 10.0
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// majorityCategory takes a majority vote among categorized members, ties
// broken by first appearance.
func majorityCategory(members []models.PainPoint) string {
	counts := make(map[string]int)
	var order []string

	for _, pp := range members {
		if pp.Category == "" {
			continue
		}
		if _, ok := counts[pp.Category]; !ok {
			order = append(order, pp.Category)
		}
		counts[pp.Category]++
	}

	if len(order) == 0 {
		return uncategorized
	}

	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}

// synthesizeDescription quotes the three longest member texts, numbered.
func synthesizeDescription(texts []string) string {
	sorted := make([]string, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	if len(sorted) > 3 {
		sorted = sorted[:3]
	}

	lines := make([]string, len(sorted))
	for i, text := range sorted {
		lines[i] = fmt.Sprintf("%d. %q", i+1, text)
	}
	return strings.Join(lines, "\n")
}
