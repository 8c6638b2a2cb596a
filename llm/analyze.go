package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/DipakKumarChauhan/foodie-eyes/logger"
)

// reviewTextBudget bounds how much review text per place goes into the
// analysis prompt.
const reviewTextBudget = 4000

// PlaceContext is one candidate's input to the analysis call.
type PlaceContext struct {
	Index  int     `json:"index"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
}

// PlaceAnalysis is the model's annotation for one place. Index echoes the
// input index so the merge does not have to rely on name round-tripping.
type PlaceAnalysis struct {
	Index        *int     `json:"index"`
	Name         string   `json:"name"`
	IsRelevant   *bool    `json:"is_relevant"`
	MatchReason  string   `json:"match_reason"`
	WhyLove      string   `json:"why_love"`
	FamousDishes []string `json:"famous_dishes"`
	Tip          string   `json:"tip"`
	Note         string   `json:"note"`

	// Structured fields the model sometimes volunteers. Used only when
	// the matched candidate lacks them.
	Address    string   `json:"address"`
	Rating     float64  `json:"rating"`
	Website    string   `json:"website"`
	Phone      string   `json:"phone"`
	Link       string   `json:"link"`
	Categories []string `json:"categories"`
}

type analysisVerdict struct {
	PlaceAnalysis []PlaceAnalysis `json:"place_analysis"`
}

// AnalyzePlaces submits all candidates in one batched call and returns
// per-place annotations. A transport failure propagates as an error;
// unparseable output degrades to an empty annotation list.
func (c *Client) AnalyzePlaces(ctx context.Context, candidates []PlaceContext, userQuery string) ([]PlaceAnalysis, error) {
	for i := range candidates {
		candidates[i].Index = i
		if candidates[i].Text == "" {
			candidates[i].Text = "No reviews available."
		}
		if len(candidates[i].Text) > reviewTextBudget {
			candidates[i].Text = candidates[i].Text[:reviewTextBudget]
		}
	}

	input, err := json.Marshal(candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal candidates: %w", err)
	}

	prompt := fmt.Sprintf(`ROLE: Friendly foodie guide who vets places.
USER QUERY: %q

TASK
- Annotate EACH place independently. Do NOT rank.
- For each place, provide:
  - index: echo the input index of the place unchanged
  - name: the exact name from the input
  - is_relevant: true/false
  - match_reason: positives only (taste, signature dishes, ambience, service)
  - famous_dishes: concrete dishes from the text, max 5 items
  - tip: optional practical tip
  - note: only explicit negatives (slow service, stale food, overpriced, hygiene); else omit

INPUT DATA (max %d chars per place):
%s

OUTPUT JSON ONLY:
{
  "place_analysis": [
    {
      "index": 0,
      "name": "Exact Name",
      "is_relevant": true,
      "match_reason": "Positive reasons to love it (no negatives).",
      "famous_dishes": ["Dish 1", "Dish 2"],
      "tip": "Practical tip to enjoy the visit (optional)",
      "note": "Only explicit negatives if present; else omit"
    }
  ]
}`, userQuery, reviewTextBudget, string(input))

	raw, err := c.chat(ctx, prompt, 0, true)
	if err != nil {
		return nil, fmt.Errorf("analysis call failed: %w", err)
	}

	var verdict analysisVerdict
	if err := decodeJSON(raw, &verdict); err != nil {
		logger.Warn("Analysis output unparseable, continuing without annotations", zap.Error(err))
		return []PlaceAnalysis{}, nil
	}
	return verdict.PlaceAnalysis, nil
}
