package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DipakKumarChauhan/foodie-eyes/llm"
	"github.com/DipakKumarChauhan/foodie-eyes/places"
	"github.com/DipakKumarChauhan/foodie-eyes/services"
)

func TestAgentSearchRejectsInvalidBody(t *testing.T) {
	ctrl := NewAgentController(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/agent", strings.NewReader("{not json"))
	ctrl.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Invalid request body", body.Error)
}

func TestAgentSearchNonFoodReturns400(t *testing.T) {
	// The classifier rejects the input, so the place search is never
	// reached; the same server can stand in for both upstreams.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"is_food": false}`}},
			},
		})
	}))
	defer srv.Close()

	discovery := services.NewDiscoveryService(
		llm.NewClientWithBase("test-key", srv.URL),
		places.NewClientWithBase("test-key", srv.URL),
	)
	ctrl := NewAgentController(discovery)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/agent", strings.NewReader(`{"query": "sweater", "userLocation": "Kalyani"}`))
	ctrl.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var result services.SearchResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, "error", result.Status)
	assert.Empty(t, result.Data)
	require.NotNil(t, result.Context.IsFoodRelated)
	assert.False(t, *result.Context.IsFoodRelated)
	assert.Equal(t, llm.RejectionMessage, result.Context.Message)
}

func TestAgentSearchRejectsEmptyQuery(t *testing.T) {
	ctrl := NewAgentController(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/agent", strings.NewReader(`{"query": "", "userLocation": "Kalyani"}`))
	ctrl.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "query is required", body.Error)
}
