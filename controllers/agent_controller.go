package controllers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/DipakKumarChauhan/foodie-eyes/logger"
	"github.com/DipakKumarChauhan/foodie-eyes/services"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type AgentSearchRequest struct {
	Query        string `json:"query"`
	UserLocation string `json:"userLocation"`
}

// AgentController serves the craving-to-places search endpoint.
type AgentController struct {
	discovery *services.DiscoveryService
}

func NewAgentController(discovery *services.DiscoveryService) *AgentController {
	return &AgentController{discovery: discovery}
}

// Search runs the full pipeline for one request. Non-food input gets a
// 400 with the rejection message; an empty candidate set is a successful
// response with empty data; anything unhandled becomes a generic 500.
func (a *AgentController) Search(w http.ResponseWriter, r *http.Request) {
	var req AgentSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Query == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "query is required"})
		return
	}

	result, err := a.discovery.Search(r.Context(), req.Query, req.UserLocation)
	if err != nil {
		logger.Error("Agent search failed", zap.String("query", req.Query), zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal Server Error"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if result.NotFood() {
		w.WriteHeader(http.StatusBadRequest)
	}
	json.NewEncoder(w).Encode(result)
}
