package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DipakKumarChauhan/foodie-eyes/llm"
	"github.com/DipakKumarChauhan/foodie-eyes/logger"
	"github.com/DipakKumarChauhan/foodie-eyes/places"
)

// enrichmentLimit caps how many top-scored candidates get review
// enrichment and AI analysis.
const enrichmentLimit = 12

const defaultLocation = "India"

// Recommendation is one merged output record: the original candidate's
// structured fields plus the AI's narrative annotations.
type Recommendation struct {
	places.Place
	Name         string   `json:"name"`
	MatchReason  string   `json:"match_reason"`
	Note         string   `json:"note,omitempty"`
	FamousDishes []string `json:"famous_dishes"`
	Tip          string   `json:"tip,omitempty"`
	IsRelevant   bool     `json:"is_relevant"`
}

// SearchContext carries resolved-location, note, and correction metadata
// alongside the data array.
type SearchContext struct {
	OriginalQuery string `json:"original_query,omitempty"`
	LocationUsed  string `json:"location_used,omitempty"`
	Message       string `json:"message,omitempty"`
	IsFoodRelated *bool  `json:"is_food_related,omitempty"`
	IsFallback    bool   `json:"isFallback"`
	WasCorrected  bool   `json:"was_corrected,omitempty"`
	CorrectedTerm string `json:"corrected_term,omitempty"`
}

// SearchResult is the agent endpoint's response body.
type SearchResult struct {
	Status  string           `json:"status"`
	Data    []Recommendation `json:"data"`
	Context SearchContext    `json:"context"`
}

// NotFood reports whether this result is the non-food rejection shape.
func (r *SearchResult) NotFood() bool {
	return r.Context.IsFoodRelated != nil && !*r.Context.IsFoodRelated
}

// DiscoveryService runs the query-refinement-and-ranking pipeline:
// refine -> search -> fallback -> cuisine expansion -> score -> enrich ->
// analyze -> merge. Stateless; one invocation per request.
type DiscoveryService struct {
	llm    *llm.Client
	places *places.Client
}

func NewDiscoveryService(llmClient *llm.Client, placesClient *places.Client) *DiscoveryService {
	return &DiscoveryService{llm: llmClient, places: placesClient}
}

// Search resolves a free-text craving into ranked, annotated places.
// Returns an error only for failures that must surface as a 500; every
// other degradation is encoded in the result itself.
func (s *DiscoveryService) Search(ctx context.Context, query, userLocation string) (*SearchResult, error) {
	// Filter segments the UI appends ("| Preference: Veg") must not
	// reach the intent classifier.
	segments := strings.Split(query, "|")
	baseQuery := strings.TrimSpace(segments[0])

	if userLocation == "" {
		userLocation = defaultLocation
	}

	refined := s.llm.RefineQuery(ctx, baseQuery, userLocation)
	logger.Info("Food validation",
		zap.String("query", query),
		zap.Bool("is_food", refined.IsFood),
		zap.String("response", refined.SearchQuery))

	if !refined.IsFood {
		notFood := false
		return &SearchResult{
			Status: "error",
			Data:   []Recommendation{},
			Context: SearchContext{
				Message:       refined.SearchQuery,
				IsFoodRelated: &notFood,
			},
		}, nil
	}

	optimizedQuery := refined.SearchQuery
	if optimizedQuery == "" {
		optimizedQuery = baseQuery
	}
	locationContext := refined.LocationString
	if locationContext == "" {
		locationContext = userLocation
	}

	// Re-append filter segments, then flatten the delimiters into plain
	// search words.
	if len(segments) > 1 {
		optimizedQuery = optimizedQuery + " | " + strings.Join(segments[1:], " | ")
	}
	optimizedQuery = strings.TrimSpace(strings.NewReplacer("|", "", `"`, "").Replace(optimizedQuery))

	logger.Info("Search intent",
		zap.String("raw", query),
		zap.String("optimized", optimizedQuery),
		zap.String("location", locationContext),
		zap.Bool("was_corrected", refined.WasCorrected),
		zap.String("corrected_term", refined.CorrectedTerm),
		zap.String("cuisine", refined.CuisineCategory))

	candidates, err := s.places.Search(ctx, optimizedQuery, locationContext)
	if err != nil {
		return nil, err
	}

	usedFallbackQuery := false
	if len(candidates) == 0 {
		logger.Info("No results, trying fallback query")
		fallbackQ := s.llm.FallbackQuery(ctx, query, locationContext)
		fallbackResults, ferr := s.places.Search(ctx, fallbackQ, locationContext)
		if ferr == nil && len(fallbackResults) > 0 {
			candidates = fallbackResults
			usedFallbackQuery = true
		}
	}

	// Cuisine expansion always runs when a cuisine was detected; it is
	// not conditioned on sparse results.
	cuisine := refined.CuisineCategory
	usedCuisineExpansion := false
	if cuisine != "" && !strings.Contains(strings.ToLower(optimizedQuery), strings.ToLower(cuisine)) {
		logger.Info("Expanding search to cuisine", zap.String("cuisine", cuisine))
		cuisineResults, cerr := s.places.Search(ctx, cuisine+" restaurants", locationContext)
		if cerr == nil {
			candidates = mergeUnique(candidates, cuisineResults)
			usedCuisineExpansion = true
		}
	}

	if len(candidates) == 0 {
		return &SearchResult{
			Status:  "success",
			Data:    []Recommendation{},
			Context: SearchContext{Message: "No places found."},
		}, nil
	}

	terms := RelevantTerms(query)
	scored := ScorePlaces(candidates, query, cuisine)
	message := RankingMessage(scored, cuisine, usedCuisineExpansion, terms)

	top := scored
	if len(top) > enrichmentLimit {
		top = top[:enrichmentLimit]
	}

	enriched := make([]places.Place, len(top))
	for i, sp := range top {
		enriched[i] = sp.Place
	}
	s.enrich(ctx, enriched)

	contexts := make([]llm.PlaceContext, len(enriched))
	for i, p := range enriched {
		contexts[i] = llm.PlaceContext{Name: p.Title, Rating: p.Rating, Text: p.ScrapedContent}
	}

	logger.Info("Analyzing reviews", zap.Int("candidates", len(enriched)))
	analysis, err := s.llm.AnalyzePlaces(ctx, contexts, query)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Status: "success",
		Data:   mergeAnalysis(enriched, analysis),
		Context: SearchContext{
			OriginalQuery: query,
			LocationUsed:  locationContext,
			Message:       message,
			IsFallback:    usedFallbackQuery,
			WasCorrected:  refined.WasCorrected,
			CorrectedTerm: refined.CorrectedTerm,
		},
	}, nil
}

// enrich fetches review snippets for each candidate concurrently. Best
// effort per candidate; FetchReviews degrades to a placeholder on its own.
func (s *DiscoveryService) enrich(ctx context.Context, list []places.Place) {
	g, gctx := errgroup.WithContext(ctx)
	for i := range list {
		i := i
		g.Go(func() error {
			list[i].ScrapedContent = s.places.FetchReviews(gctx, list[i])
			return nil
		})
	}
	_ = g.Wait()
}

// mergeUnique appends entries of extra whose identity key is not already
// present in base. Append-only on first sight.
func mergeUnique(base, extra []places.Place) []places.Place {
	existing := make(map[string]bool, len(base))
	for _, p := range base {
		existing[places.IdentityKey(p)] = true
	}
	for _, p := range extra {
		if key := places.IdentityKey(p); !existing[key] {
			existing[key] = true
			base = append(base, p)
		}
	}
	return base
}

// mergeAnalysis maps AI annotations back onto the enriched candidates.
// Match order: echoed input index, exact case-insensitive title, substring
// title, then the first candidate as a last resort. Structured fields keep
// the original's value and only fall back to the AI's; narrative fields
// come from the AI.
func mergeAnalysis(enriched []places.Place, analysis []llm.PlaceAnalysis) []Recommendation {
	recs := make([]Recommendation, 0, len(analysis))
	if len(enriched) == 0 {
		return recs
	}

	for _, rec := range analysis {
		original := matchCandidate(enriched, rec)

		merged := Recommendation{
			Place:        *original,
			Name:         rec.Name,
			MatchReason:  firstNonEmpty(rec.MatchReason, rec.WhyLove),
			Note:         rec.Note,
			FamousDishes: rec.FamousDishes,
			Tip:          rec.Tip,
			IsRelevant:   true,
		}
		if merged.Name == "" {
			merged.Name = original.Title
		}
		if rec.IsRelevant != nil {
			merged.IsRelevant = *rec.IsRelevant
		}
		if len(merged.FamousDishes) > 5 {
			merged.FamousDishes = merged.FamousDishes[:5]
		}
		if merged.FamousDishes == nil {
			merged.FamousDishes = []string{}
		}

		// Original wins for structured fields; AI fills gaps only.
		if merged.Address == "" {
			merged.Address = rec.Address
		}
		if merged.Rating == 0 {
			merged.Rating = rec.Rating
		}
		if merged.Website == "" {
			merged.Website = rec.Website
		}
		if merged.Phone == "" {
			merged.Phone = rec.Phone
		}
		if merged.Link == "" {
			merged.Link = rec.Link
		}
		if len(merged.Categories) == 0 {
			merged.Categories = rec.Categories
		}

		recs = append(recs, merged)
	}
	return recs
}

func matchCandidate(enriched []places.Place, rec llm.PlaceAnalysis) *places.Place {
	if rec.Index != nil && *rec.Index >= 0 && *rec.Index < len(enriched) {
		return &enriched[*rec.Index]
	}
	name := strings.ToLower(rec.Name)
	if name != "" {
		for i := range enriched {
			if strings.ToLower(enriched[i].Title) == name {
				return &enriched[i]
			}
		}
		for i := range enriched {
			if strings.Contains(strings.ToLower(enriched[i].Title), name) {
				return &enriched[i]
			}
		}
	}
	return &enriched[0]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
