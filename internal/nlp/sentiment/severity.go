package sentiment

import "strings"

var intensityWords = []string{"extremely", "really", "very", "completely", "totally", "hate"}

var urgencyWords = []string{"urgent", "asap", "immediately", "critical", "emergency", "need"}

// Severity turns a classifier verdict into a 0..1 severity score. The base
// is the negative-sentiment confidence (0.1 when the text is not negative),
// boosted by 0.1 per intensity word and 0.2 per urgency word present.
func Severity(result Result, text string) float64 {
	base := 0.1
	if result.Label == LabelNegative {
		base = result.Confidence
	}

	lower := strings.ToLower(text)

	for _, w := range intensityWords {
		if strings.Contains(lower, w) {
			base += 0.1
		}
	}

	for _, w := range urgencyWords {
		if strings.Contains(lower, w) {
			base += 0.2
		}
	}

	if base > 1.0 {
		base = 1.0
	}
	return base
}
