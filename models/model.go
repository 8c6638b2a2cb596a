package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated user in the system.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name      string         `gorm:"size:255" json:"name"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Bookmarks []Bookmark     `json:"bookmarks,omitempty"`
	History   []HistoryEntry `json:"history,omitempty"`
}

// Bookmark is a place a user saved. At most MaxBookmarks per user,
// enforced at write time.
type Bookmark struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_user_bookmark" json:"-"`
	Name         string    `gorm:"size:255;not null;uniqueIndex:idx_user_bookmark" json:"name"`
	Address      string    `gorm:"size:512" json:"address,omitempty"`
	Rating       float64   `json:"rating,omitempty"`
	Website      string    `gorm:"size:512" json:"website,omitempty"`
	Phone        string    `gorm:"size:64" json:"phone,omitempty"`
	Thumbnail    string    `gorm:"size:512" json:"thumbnail,omitempty"`
	Link         string    `gorm:"size:1024" json:"link,omitempty"`
	CID          string    `gorm:"size:64" json:"cid,omitempty"`
	PlaceID      string    `gorm:"size:128" json:"place_id,omitempty"`
	Categories   string    `gorm:"type:text" json:"-"` // JSON-encoded []string
	FamousDishes string    `gorm:"type:text" json:"-"` // JSON-encoded []string
	MatchReason  string    `gorm:"type:text" json:"match_reason,omitempty"`
	Note         string    `gorm:"type:text" json:"note,omitempty"`
	Tip          string    `gorm:"type:text" json:"tip,omitempty"`
	SavedAt      time.Time `json:"saved_at"`
}

// MaxBookmarks caps how many places a user may save.
const MaxBookmarks = 10

// HistoryEntry records a place the user viewed. Keyed by a slug of the
// place name so revisits refresh the timestamp instead of duplicating.
type HistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_history" json:"-"`
	Slug      string    `gorm:"size:255;not null;uniqueIndex:idx_user_history" json:"-"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Address   string    `gorm:"size:512" json:"address"`
	Rating    float64   `json:"rating"`
	Thumbnail string    `gorm:"size:512" json:"thumbnail,omitempty"`
	ViewedAt  time.Time `json:"viewed_at"`
}

// HistoryLimit is how many recent entries a history read returns.
const HistoryLimit = 20

// SavedLocation is a user's default search location. One row per user,
// last write wins.
type SavedLocation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"-"`
	Label     string    `gorm:"size:255;not null" json:"label"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updated_at"`
}
