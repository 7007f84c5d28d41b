package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := New(nil)

	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{"finance keyword", "invoice reconciliation is a nightmare", "finance"},
		{"development keyword", "the API keeps timing out on deploy", "development"},
		{"productivity keyword", "too much manual spreadsheet work", "productivity"},
		{"case insensitive", "PAYROLL takes my whole friday", "finance"},
		{"no keyword", "the weather ruined my weekend", "other"},
		{"empty text", "", "other"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, c.Classify(tc.text))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := New(nil)

	// Matches both communication ("email") and development ("api");
	// categories are checked in sorted name order.
	text := "the email api is broken"
	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(text))
	}
	assert.Equal(t, "communication", first)
}

func TestClassifyCustomTable(t *testing.T) {
	c := New(map[string][]string{
		"gaming": {"controller", "framerate"},
	})

	assert.Equal(t, "gaming", c.Classify("the framerate drops constantly"))
	assert.Equal(t, "other", c.Classify("invoice problems"))
}
