package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DipakKumarChauhan/foodie-eyes/database"
	"github.com/DipakKumarChauhan/foodie-eyes/logger"
	"github.com/DipakKumarChauhan/foodie-eyes/middleware"
	"github.com/DipakKumarChauhan/foodie-eyes/models"
)

// BookmarkPlace is the wire shape for a saved place; categories and
// dishes are JSON-encoded into text columns on the model.
type BookmarkPlace struct {
	Name         string   `json:"name"`
	Address      string   `json:"address,omitempty"`
	Rating       float64  `json:"rating,omitempty"`
	Website      string   `json:"website,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Thumbnail    string   `json:"thumbnail,omitempty"`
	Link         string   `json:"link,omitempty"`
	CID          string   `json:"cid,omitempty"`
	PlaceID      string   `json:"place_id,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	FamousDishes []string `json:"famous_dishes,omitempty"`
	MatchReason  string   `json:"match_reason,omitempty"`
	Note         string   `json:"note,omitempty"`
	Tip          string   `json:"tip,omitempty"`
	SavedAt      int64    `json:"savedAt,omitempty"`
}

func toBookmarkPlace(b models.Bookmark) BookmarkPlace {
	p := BookmarkPlace{
		Name:        b.Name,
		Address:     b.Address,
		Rating:      b.Rating,
		Website:     b.Website,
		Phone:       b.Phone,
		Thumbnail:   b.Thumbnail,
		Link:        b.Link,
		CID:         b.CID,
		PlaceID:     b.PlaceID,
		MatchReason: b.MatchReason,
		Note:        b.Note,
		Tip:         b.Tip,
		SavedAt:     b.SavedAt.UnixMilli(),
	}
	json.Unmarshal([]byte(b.Categories), &p.Categories)
	json.Unmarshal([]byte(b.FamousDishes), &p.FamousDishes)
	return p
}

// GetBookmarks lists the authenticated user's saved places, newest first.
func GetBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
		return
	}

	var rows []models.Bookmark
	if err := database.DB.Where("user_id = ?", userID).Order("saved_at desc").Find(&rows).Error; err != nil {
		logger.Error("Failed to load bookmarks", zap.Uint("user_id", userID), zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to load bookmarks"})
		return
	}

	out := make([]BookmarkPlace, 0, len(rows))
	for _, b := range rows {
		out = append(out, toBookmarkPlace(b))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"bookmarks": out, "max_bookmarks": models.MaxBookmarks})
}

// AddBookmark saves a place for the user. The per-user cap is enforced
// here, at write time, with a user-facing message.
func AddBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req BookmarkPlace
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "A place name is required"})
		return
	}

	var count int64
	if err := database.DB.Model(&models.Bookmark{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		logger.Error("Failed to count bookmarks", zap.Uint("user_id", userID), zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to save bookmark"})
		return
	}
	if count >= models.MaxBookmarks {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error: fmt.Sprintf("You can only save up to %d bookmarks. Please delete one to add another.", models.MaxBookmarks),
		})
		return
	}

	var existing models.Bookmark
	if err := database.DB.Where("user_id = ? AND name = ?", userID, req.Name).First(&existing).Error; err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Already bookmarked"})
		return
	}

	categories, _ := json.Marshal(req.Categories)
	dishes, _ := json.Marshal(req.FamousDishes)

	row := models.Bookmark{
		UserID:       userID,
		Name:         req.Name,
		Address:      req.Address,
		Rating:       req.Rating,
		Website:      req.Website,
		Phone:        req.Phone,
		Thumbnail:    req.Thumbnail,
		Link:         req.Link,
		CID:          req.CID,
		PlaceID:      req.PlaceID,
		Categories:   string(categories),
		FamousDishes: string(dishes),
		MatchReason:  req.MatchReason,
		Note:         req.Note,
		Tip:          req.Tip,
		SavedAt:      time.Now(),
	}
	if err := database.DB.Create(&row).Error; err != nil {
		logger.Error("Failed to save bookmark", zap.Uint("user_id", userID), zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to save bookmark"})
		return
	}

	logger.Info("Bookmark saved", zap.Uint("user_id", userID), zap.String("place", req.Name))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toBookmarkPlace(row))
}

// RemoveBookmark deletes a saved place by name.
func RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
		return
	}

	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "A place name is required"})
		return
	}

	res := database.DB.Where("user_id = ? AND name = ?", userID, name).Delete(&models.Bookmark{})
	if res.Error != nil {
		logger.Error("Failed to remove bookmark", zap.Uint("user_id", userID), zap.Error(res.Error))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to remove bookmark"})
		return
	}
	if res.RowsAffected == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Bookmark not found"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
}
