// Package cluster groups pain points into similarity clusters over a
// per-batch TF-IDF vector space.
package cluster

import (
	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/storage/models"
	"github.com/saasfinder/backend/pkg/logger"
)

// Cluster is a non-empty group of pain points judged to describe the same
// underlying problem. Members keep their input order; the first member is
// the seed every other member was compared against.
type Cluster struct {
	Members []models.PainPoint
}

// Group partitions pain points into clusters using greedy single-link
// clustering: walking the input in order, each unvisited item seeds a new
// cluster and absorbs every later unvisited item whose similarity to the
// seed meets the threshold. Membership is decided against the seed only,
// never transitively, so the grouping is deterministic for a fixed input
// order. Every input appears in exactly one cluster.
func Group(painPoints []models.PainPoint, threshold float64) []Cluster {
	if len(painPoints) == 0 {
		return nil
	}

	contents := make([]string, len(painPoints))
	for i, pp := range painPoints {
		contents[i] = pp.Content
	}

	vectors := vectorize(contents)

	n := len(painPoints)
	similarity := make([][]float64, n)
	for i := 0; i < n; i++ {
		similarity[i] = make([]float64, n)
		similarity[i][i] = 1
		for j := 0; j < i; j++ {
			s := Cosine(vectors[i], vectors[j])
			similarity[i][j] = s
			similarity[j][i] = s
		}
	}

	visited := make([]bool, n)
	var clusters []Cluster

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}

		members := []models.PainPoint{painPoints[i]}
		visited[i] = true

		for j := i + 1; j < n; j++ {
			if !visited[j] && similarity[i][j] >= threshold {
				members = append(members, painPoints[j])
				visited[j] = true
			}
		}

		clusters = append(clusters, Cluster{Members: members})
	}

	logger.Debug("Pain points clustered",
		zap.Int("pain_points", n),
		zap.Int("clusters", len(clusters)),
		zap.Float64("threshold", threshold),
	)

	return clusters
}
