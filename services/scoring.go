package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DipakKumarChauhan/foodie-eyes/places"
)

// Score weights. Cuisine and place-type matches dominate; rating only
// breaks near-ties.
const (
	cuisineBoost     = 1000
	placeTypeBoost   = 1500
	placeTypePenalty = 2000
	termMatchScale   = 500
	ratingScale      = 10
)

var stopWords = map[string]bool{
	"in": true, "near": true, "best": true, "top": true, "famous": true,
	"hot": true, "spicy": true, "places": true, "find": true, "search": true,
	"looking": true, "for": true, "some": true, "me": true, "suggest": true,
}

var placeTypeKeywords = map[string]bool{
	"cafe": true, "restaurant": true, "bar": true, "bakery": true,
	"food": true, "dining": true, "eatery": true, "bistro": true,
}

// ScoredPlace pairs a candidate with its rank score. Ephemeral: built for
// one request's sort and discarded.
type ScoredPlace struct {
	Place          places.Place
	Score          float64
	CuisineMatch   bool
	TermMatchRatio float64
}

// RelevantTerms extracts the query tokens that matter for scoring:
// lower-cased, stop words dropped, tokens of length <= 2 dropped.
func RelevantTerms(rawQuery string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(rawQuery)) {
		if stopWords[w] || len(w) <= 2 {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}

// ScorePlaces assigns each candidate a composite score and returns the
// set ordered highest first. Pure computation, no I/O. Ties keep their
// original relative order.
func ScorePlaces(list []places.Place, rawQuery, cuisine string) []ScoredPlace {
	terms := RelevantTerms(rawQuery)

	var queryPlaceTypes []string
	for _, t := range terms {
		if placeTypeKeywords[t] {
			queryPlaceTypes = append(queryPlaceTypes, t)
		}
	}

	scored := make([]ScoredPlace, 0, len(list))
	for _, p := range list {
		combined := strings.ToLower(p.Title) + " " + strings.ToLower(p.Address) + " " +
			strings.ToLower(strings.Join(p.Categories, " "))

		sp := ScoredPlace{Place: p}

		if cuisine != "" && strings.Contains(combined, strings.ToLower(cuisine)) {
			sp.CuisineMatch = true
			sp.Score += cuisineBoost
		}

		if len(queryPlaceTypes) > 0 {
			hasPlaceType := false
			for _, t := range queryPlaceTypes {
				if strings.Contains(combined, t) {
					hasPlaceType = true
					break
				}
			}
			if hasPlaceType {
				sp.Score += placeTypeBoost
			} else {
				sp.Score -= placeTypePenalty
			}
		}

		if len(terms) > 0 {
			matching := 0
			for _, t := range terms {
				if strings.Contains(combined, t) {
					matching++
				}
			}
			sp.TermMatchRatio = float64(matching) / float64(len(terms))
			sp.Score += sp.TermMatchRatio * termMatchScale
		}

		sp.Score += p.Rating * ratingScale
		scored = append(scored, sp)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// RankingMessage derives the human-readable note explaining cuisine
// expansion or partial-term-match results. Empty when no explanation is
// needed. Never affects ordering.
func RankingMessage(scored []ScoredPlace, cuisine string, usedCuisineExpansion bool, terms []string) string {
	if usedCuisineExpansion && cuisine != "" {
		cuisineMatches := 0
		for _, sp := range scored {
			if sp.CuisineMatch {
				cuisineMatches++
			}
		}
		if cuisineMatches == 0 {
			return "Found restaurants in this area."
		}
		others := len(scored) - cuisineMatches
		msg := fmt.Sprintf("Found %d %s restaurant%s", cuisineMatches, cuisine, plural(cuisineMatches))
		if others > 0 {
			msg += fmt.Sprintf(" and %d other place%s", others, plural(others))
		}
		return msg + " in this area."
	}

	if len(terms) > 0 {
		for _, sp := range scored {
			if sp.TermMatchRatio == 1 {
				return ""
			}
		}
		return fmt.Sprintf("Found places related to %q in this area.", strings.Join(terms, " "))
	}
	return ""
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
