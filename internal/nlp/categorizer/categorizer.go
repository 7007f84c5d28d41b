package categorizer

import (
	"sort"
	"strings"
)

// DefaultCategories maps problem categories to trigger keywords. The table
// can be replaced wholesale from configuration.
var DefaultCategories = map[string][]string{
	"productivity":  {"workflow", "automation", "manual", "repetitive", "spreadsheet", "organize"},
	"communication": {"email", "meeting", "chat", "notification", "follow up", "slack"},
	"marketing":     {"marketing", "seo", "social media", "advertising", "leads", "campaign"},
	"finance":       {"invoice", "accounting", "expense", "payroll", "tax", "billing"},
	"development":   {"api", "deploy", "integration", "bug", "testing", "documentation"},
}

// Categorizer classifies pain point text into a category by keyword lookup.
type Categorizer struct {
	categories map[string][]string
	order      []string
}

// New builds a categorizer over the given table. Categories are checked in
// sorted-name order so classification is deterministic.
func New(categories map[string][]string) *Categorizer {
	if categories == nil {
		categories = DefaultCategories
	}

	order := make([]string, 0, len(categories))
	for name := range categories {
		order = append(order, name)
	}
	sort.Strings(order)

	return &Categorizer{categories: categories, order: order}
}

// Classify returns the first category with a keyword present in the text,
// or "other" when none match.
func (c *Categorizer) Classify(text string) string {
	lower := strings.ToLower(text)

	for _, name := range c.order {
		for _, keyword := range c.categories[name] {
			if strings.Contains(lower, keyword) {
				return name
			}
		}
	}

	return "other"
}
