package scorer

import "regexp"

// payIndicators are the willingness-to-pay signal patterns. Each pattern
// that matches a text contributes a fixed 0.2, capped at 1.0 per text.
var payIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$\d+`),
	regexp.MustCompile(`(?i)budget`),
	regexp.MustCompile(`(?i)pay for`),
	regexp.MustCompile(`(?i)worth paying`),
	regexp.MustCompile(`(?i)subscription`),
	regexp.MustCompile(`(?i)premium`),
	regexp.MustCompile(`(?i)paid (tool|service|app)`),
	regexp.MustCompile(`(?i)enterprise`),
}

// WillingnessToPay scores one text for purchase-intent signals.
func WillingnessToPay(text string) float64 {
	var score float64
	for _, re := range payIndicators {
		if re.MatchString(text) {
			score += 0.2
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
