package tagging

import (
	"strings"

	"crm-service/internal/domain/tag"
)

// Rule attaches Tag when any keyword occurs in a message.
type Rule struct {
	Tag      string
	Keywords []string
}

// DefaultRules are evaluated independently; one message can match several.
var DefaultRules = []Rule{
	{Tag: tag.Interested, Keywords: []string{"price", "cost", "how much"}},
	{Tag: tag.HotLead, Keywords: []string{"available", "stock", "in stock"}},
	{Tag: tag.ReadyToOrder, Keywords: []string{"order", "buy", "purchase"}},
}

// Match returns the tags whose rules fire for text, in rule order.
func Match(rules []Rule, text string) []string {
	lower := strings.ToLower(text)

	var matched []string
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, r.Tag)
				break
			}
		}
	}
	return matched
}
