package controllers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/DipakKumarChauhan/foodie-eyes/database"
	"github.com/DipakKumarChauhan/foodie-eyes/logger"
	"github.com/DipakKumarChauhan/foodie-eyes/middleware"
	"github.com/DipakKumarChauhan/foodie-eyes/models"
)

var slugSpaces = regexp.MustCompile(`\s+`)

// historySlug keys a history entry by place name so revisits update the
// timestamp instead of creating duplicates.
func historySlug(name string) string {
	return strings.ToLower(slugSpaces.ReplaceAllString(strings.TrimSpace(name), "-"))
}

type HistoryRequest struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Rating    float64 `json:"rating"`
	Thumbnail string  `json:"thumbnail"`
}

// GetHistory returns the user's recently viewed places, newest first.
func GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
		return
	}

	var rows []models.HistoryEntry
	err := database.DB.Where("user_id = ?", userID).
		Order("viewed_at desc").
		Limit(models.HistoryLimit).
		Find(&rows).Error
	if err != nil {
		logger.Error("Failed to load history", zap.Uint("user_id", userID), zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to load history"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"history": rows})
}

// AddHistory records a viewed place, upserting on (user, slug).
func AddHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req HistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "A place name is required"})
		return
	}

	if req.Address == "" {
		req.Address = "No address"
	}

	entry := models.HistoryEntry{
		UserID:    userID,
		Slug:      historySlug(req.Name),
		Name:      req.Name,
		Address:   req.Address,
		Rating:    req.Rating,
		Thumbnail: req.Thumbnail,
		ViewedAt:  time.Now(),
	}

	err := database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "address", "rating", "thumbnail", "viewed_at",
		}),
	}).Create(&entry).Error
	if err != nil {
		logger.Error("Failed to save history", zap.Uint("user_id", userID), zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to save history"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "recorded"})
}
