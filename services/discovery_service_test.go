package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DipakKumarChauhan/foodie-eyes/llm"
	"github.com/DipakKumarChauhan/foodie-eyes/places"
)

// fakeLLM dispatches on prompt content: intent classification, fallback
// query generation, and place analysis each have a distinctive marker.
type fakeLLM struct {
	refineJSON   string
	fallbackText string
	analysisJSON string
	analyzeDown  bool
}

func (f *fakeLLM) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		prompt := req.Messages[0].Content

		var content string
		switch {
		case strings.Contains(prompt, "STRICT food intent classifier"):
			content = f.refineJSON
		case strings.Contains(prompt, "found 0 results"):
			content = f.fallbackText
		case strings.Contains(prompt, "place_analysis"):
			if f.analyzeDown {
				http.Error(w, "down", http.StatusInternalServerError)
				return
			}
			content = f.analysisJSON
		default:
			http.Error(w, "unexpected prompt", http.StatusBadRequest)
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}
}

// fakeSerper answers /places from a query->places table and /search with
// canned review snippets. It records every places query it sees.
type fakeSerper struct {
	mu      sync.Mutex
	results map[string][]map[string]any
	queries []string
}

func (f *fakeSerper) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Q string `json:"q"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		if strings.HasSuffix(r.URL.Path, "/search") {
			json.NewEncoder(w).Encode(map[string]any{
				"organic": []map[string]any{{"title": "FoodBlog", "snippet": "must try"}},
			})
			return
		}

		f.mu.Lock()
		f.queries = append(f.queries, req.Q)
		f.mu.Unlock()

		for prefix, result := range f.results {
			if strings.HasPrefix(strings.ToLower(req.Q), strings.ToLower(prefix)) {
				json.NewEncoder(w).Encode(map[string]any{"places": result})
				return
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"places": []map[string]any{}})
	}
}

func (f *fakeSerper) sawQuery(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.queries {
		if strings.HasPrefix(strings.ToLower(q), strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}

func (f *fakeSerper) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// normalizedQueries returns the recorded queries with runs of whitespace
// collapsed, since delimiter stripping leaves extra spaces behind.
func (f *fakeSerper) normalizedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.queries))
	for i, q := range f.queries {
		out[i] = strings.Join(strings.Fields(q), " ")
	}
	return out
}

func newTestService(t *testing.T, l *fakeLLM, s *fakeSerper) (*DiscoveryService, func()) {
	t.Helper()
	llmSrv := httptest.NewServer(l.handler())
	serperSrv := httptest.NewServer(s.handler())
	svc := NewDiscoveryService(
		llm.NewClientWithBase("test-key", llmSrv.URL),
		places.NewClientWithBase("test-key", serperSrv.URL),
	)
	return svc, func() {
		llmSrv.Close()
		serperSrv.Close()
	}
}

func refineFood(searchQuery, cuisine string, corrected bool, correctedTerm string) string {
	out := map[string]any{
		"is_food":       true,
		"searchQuery":   searchQuery,
		"was_corrected": corrected,
	}
	if cuisine != "" {
		out["cuisineCategory"] = cuisine
	}
	if correctedTerm != "" {
		out["corrected_term"] = correctedTerm
	}
	raw, _ := json.Marshal(out)
	return string(raw)
}

func TestSearchNonFoodInput(t *testing.T) {
	l := &fakeLLM{refineJSON: `{"is_food": false}`}
	s := &fakeSerper{}
	svc, done := newTestService(t, l, s)
	defer done()

	result, err := svc.Search(context.Background(), "sweater", "Kalyani")
	require.NoError(t, err)

	assert.Equal(t, "error", result.Status)
	assert.True(t, result.NotFood())
	assert.Empty(t, result.Data)
	assert.Equal(t, llm.RejectionMessage, result.Context.Message)
	assert.Zero(t, s.searchCount(), "non-food input must never reach place search")
}

func TestSearchCorrectedQueryWithCuisineExpansion(t *testing.T) {
	l := &fakeLLM{
		refineJSON: refineFood("Pizza near Kalyani", "Italian", true, "Pizza"),
		analysisJSON: `{"place_analysis": [
			{"index": 0, "name": "Roma Trattoria", "is_relevant": true, "match_reason": "Wood-fired pizza", "famous_dishes": ["Margherita"]},
			{"index": 1, "name": "Pizza Corner", "is_relevant": true, "match_reason": "Cheesy crusts"}
		]}`,
	}
	s := &fakeSerper{results: map[string][]map[string]any{
		"pizza": {
			{"title": "Pizza Corner", "cid": "1", "address": "Main St", "rating": 4.0},
		},
		"italian restaurants": {
			{"title": "Roma Trattoria", "cid": "2", "address": "Station Rd", "rating": 4.2, "categories": []string{"Italian restaurant"}},
			{"title": "Pizza Corner", "cid": "1", "address": "Main St", "rating": 4.0},
		},
	}}
	svc, done := newTestService(t, l, s)
	defer done()

	result, err := svc.Search(context.Background(), "Piza", "Kalyani")
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	assert.True(t, result.Context.WasCorrected)
	assert.Equal(t, "Pizza", result.Context.CorrectedTerm)
	assert.Equal(t, "Kalyani", result.Context.LocationUsed)
	require.Len(t, result.Data, 2)

	// Expansion merged Roma without duplicating Pizza Corner, and the
	// cuisine match outranks the original candidate.
	assert.Equal(t, "Roma Trattoria", result.Data[0].Name)
	assert.Equal(t, "Wood-fired pizza", result.Data[0].MatchReason)
	assert.Equal(t, []string{"Margherita"}, result.Data[0].FamousDishes)
	assert.Equal(t, "Pizza Corner", result.Data[1].Name)
	assert.Contains(t, result.Context.Message, "Italian restaurant")
	assert.True(t, s.sawQuery("italian restaurants"))
}

func TestSearchCuisineExpansionIdempotent(t *testing.T) {
	// Both the primary search and the expansion return the same place;
	// identity-key dedup must keep exactly one.
	l := &fakeLLM{
		refineJSON:   refineFood("dosa near Kalyani", "South Indian", false, ""),
		analysisJSON: `{"place_analysis": [{"index": 0, "name": "Dosa Plaza", "is_relevant": true}]}`,
	}
	s := &fakeSerper{results: map[string][]map[string]any{
		"dosa": {
			{"title": "Dosa Plaza", "cid": "9", "address": "Main St", "categories": []string{"South Indian restaurant"}},
		},
		"south indian restaurants": {
			{"title": "Dosa Plaza", "cid": "9", "address": "Main St", "categories": []string{"South Indian restaurant"}},
		},
	}}
	svc, done := newTestService(t, l, s)
	defer done()

	result, err := svc.Search(context.Background(), "dosa", "Kalyani")
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "Dosa Plaza", result.Data[0].Name)
}

func TestSearchFallbackQueryOnZeroResults(t *testing.T) {
	l := &fakeLLM{
		refineJSON:   refineFood("fruit ice cream near Kalyani", "", false, ""),
		fallbackText: "ice cream shop in Kalyani",
		analysisJSON: `{"place_analysis": [{"index": 0, "name": "Scoops", "is_relevant": true}]}`,
	}
	s := &fakeSerper{results: map[string][]map[string]any{
		"ice cream shop": {
			{"title": "Scoops", "cid": "5", "address": "Lake Rd", "rating": 4.1},
		},
	}}
	svc, done := newTestService(t, l, s)
	defer done()

	result, err := svc.Search(context.Background(), "fruit ice cream", "Kalyani")
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	assert.True(t, result.Context.IsFallback)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "Scoops", result.Data[0].Name)
}

func TestSearchNoPlacesFound(t *testing.T) {
	l := &fakeLLM{
		refineJSON:   refineFood("durian near Kalyani", "", false, ""),
		fallbackText: "fruit shop in Kalyani",
	}
	s := &fakeSerper{}
	svc, done := newTestService(t, l, s)
	defer done()

	result, err := svc.Search(context.Background(), "durian", "Kalyani")
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	assert.Empty(t, result.Data)
	assert.Equal(t, "No places found.", result.Context.Message)
	assert.False(t, result.NotFood())
}

func TestSearchAnalysisFailurePropagates(t *testing.T) {
	l := &fakeLLM{
		refineJSON:  refineFood("pizza near Kalyani", "", false, ""),
		analyzeDown: true,
	}
	s := &fakeSerper{results: map[string][]map[string]any{
		"pizza": {{"title": "Pizza Corner", "cid": "1", "address": "Main St"}},
	}}
	svc, done := newTestService(t, l, s)
	defer done()

	_, err := svc.Search(context.Background(), "pizza", "Kalyani")
	assert.Error(t, err)
}

func TestSearchFilterSegmentsStrippedFromClassifier(t *testing.T) {
	l := &fakeLLM{
		refineJSON:   refineFood("pizza near Kalyani", "", false, ""),
		analysisJSON: `{"place_analysis": [{"index": 0, "name": "Pizza Corner", "is_relevant": true}]}`,
	}
	s := &fakeSerper{results: map[string][]map[string]any{
		"pizza": {{"title": "Pizza Corner", "cid": "1", "address": "Main St"}},
	}}
	svc, done := newTestService(t, l, s)
	defer done()

	result, err := svc.Search(context.Background(), "pizza | Preference: Veg", "Kalyani")
	require.NoError(t, err)
	require.Len(t, result.Data, 1)

	// The filter segment is flattened into the search query, pipe-free.
	assert.Contains(t, s.normalizedQueries(), "pizza near Kalyani Preference: Veg")
}

func TestMergeAnalysisMatching(t *testing.T) {
	enriched := []places.Place{
		{Title: "Roma Trattoria", Address: "Station Rd", Rating: 4.2, Link: "link-roma"},
		{Title: "Pizza Corner", Address: "Main St", Rating: 4.0, Link: "link-corner"},
	}

	idx := 1
	relevant := false
	analysis := []llm.PlaceAnalysis{
		// Index match beats the (wrong) name.
		{Index: &idx, Name: "Totally Renamed", MatchReason: "Great crust"},
		// Name-only exact match.
		{Name: "roma trattoria", WhyLove: "Handmade pasta", Note: "Slow on weekends", IsRelevant: &relevant},
		// No match at all falls back to the first candidate.
		{Name: "Mystery Venue", FamousDishes: []string{"a", "b", "c", "d", "e", "f"}},
	}

	recs := mergeAnalysis(enriched, analysis)
	require.Len(t, recs, 3)

	assert.Equal(t, "Main St", recs[0].Address)
	assert.Equal(t, "Totally Renamed", recs[0].Name)
	assert.True(t, recs[0].IsRelevant)

	assert.Equal(t, "Station Rd", recs[1].Address)
	assert.Equal(t, "Handmade pasta", recs[1].MatchReason, "why_love fills an empty match_reason")
	assert.Equal(t, "Slow on weekends", recs[1].Note)
	assert.False(t, recs[1].IsRelevant)

	assert.Equal(t, "Roma Trattoria", recs[2].Title, "positional fallback picks the first candidate")
	assert.Len(t, recs[2].FamousDishes, 5, "dish list capped at 5")
}

func TestMergeAnalysisOriginalWinsStructuredFields(t *testing.T) {
	enriched := []places.Place{{Title: "Roma", Address: "Station Rd", Rating: 4.2}}
	idx := 0
	analysis := []llm.PlaceAnalysis{{
		Index:   &idx,
		Name:    "Roma",
		Address: "AI-invented address",
		Rating:  1.0,
		Website: "https://ai-made-this.example",
	}}

	recs := mergeAnalysis(enriched, analysis)
	require.Len(t, recs, 1)
	assert.Equal(t, "Station Rd", recs[0].Address, "original address wins")
	assert.Equal(t, 4.2, recs[0].Rating, "original rating wins")
	assert.Equal(t, "https://ai-made-this.example", recs[0].Website, "AI fills a missing website")
}

func TestMergeUnique(t *testing.T) {
	base := []places.Place{{CID: "1", Title: "A"}}
	extra := []places.Place{{CID: "1", Title: "A dup"}, {CID: "2", Title: "B"}}

	got := mergeUnique(base, extra)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "B", got[1].Title)
}
