package detector

import "context"

// Candidate is one detected pain point sentence, before persistence.
type Candidate struct {
	Content    string  `json:"content"`
	Pattern    string  `json:"pattern,omitempty"`
	Confidence float64 `json:"confidence"`
	Severity   float64 `json:"severity"`
}

// Detector extracts pain point candidates from one text unit's content.
// Implementations must return an empty result, not an error, for
// empty/whitespace-only input.
type Detector interface {
	Extract(ctx context.Context, text string) ([]Candidate, error)
}
