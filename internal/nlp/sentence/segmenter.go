package sentence

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Segmenter splits free text into sentences.
type Segmenter interface {
	Segment(text string) ([]string, error)
}

// ProseSegmenter uses the prose sentence boundary detector. It is stateless
// and safe for concurrent use.
type ProseSegmenter struct{}

func NewProseSegmenter() ProseSegmenter {
	return ProseSegmenter{}
}

func (ProseSegmenter) Segment(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to segment text: %w", err)
	}

	sentences := doc.Sentences()
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out, nil
}
