package places

import (
	"regexp"
	"strings"
)

var (
	partSeparator = regexp.MustCompile(`,| and `)
	noiseWords    = regexp.MustCompile(`(?i)hidden gems|authentic|famous|best|top|places|find|search`)
)

// SplitQuery breaks a compound query ("momos, biryani and rolls") into
// independent sub-queries. Generic noise words are stripped from each part
// and parts shorter than 3 characters are dropped. A query without
// separators, or one whose parts all strip away, is returned as a single
// unit.
func SplitQuery(query string) []string {
	if !strings.Contains(query, ",") && !strings.Contains(query, " and ") {
		return []string{query}
	}

	rawParts := partSeparator.Split(query, -1)
	clean := make([]string, 0, len(rawParts))
	for _, part := range rawParts {
		part = strings.TrimSpace(noiseWords.ReplaceAllString(part, ""))
		if len(part) > 2 {
			clean = append(clean, part)
		}
	}

	if len(clean) == 0 {
		return []string{query}
	}
	return clean
}
