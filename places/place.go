package places

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Place is the normalized candidate venue flowing through the pipeline.
// Raw provider records are mapped into this shape once, at the ingestion
// boundary; nothing downstream sees an unnormalized record.
type Place struct {
	Title          string   `json:"title"`
	Address        string   `json:"address"`
	Rating         float64  `json:"rating,omitempty"`
	RatingCount    int      `json:"ratingCount,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	Website        string   `json:"website,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Thumbnail      string   `json:"thumbnail,omitempty"`
	Link           string   `json:"link,omitempty"`
	CID            string   `json:"cid,omitempty"`
	PlaceID        string   `json:"place_id,omitempty"`
	ScrapedContent string   `json:"scraped_content,omitempty"`
}

// addressUnavailable is the placeholder when no address field is present.
const addressUnavailable = "Address not available"

// flexID accepts a provider id serialized as either a JSON string or a
// JSON number.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexID(n.String())
		return nil
	}
	*f = ""
	return nil
}

// rawPlace covers the heterogeneous field names seen across provider
// responses.
type rawPlace struct {
	Title            string   `json:"title"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	FormattedAddress string   `json:"formatted_address"`
	Vicinity         string   `json:"vicinity"`
	Rating           float64  `json:"rating"`
	RatingCount      int      `json:"ratingCount"`
	UserRatingCount  int      `json:"userRatingCount"`
	Website          string   `json:"website"`
	PhoneNumber      string   `json:"phoneNumber"`
	Phone            string   `json:"phone"`
	ThumbnailURL     string   `json:"thumbnailUrl"`
	Categories       []string `json:"categories"`
	Category         string   `json:"category"`
	CID              flexID   `json:"cid"`
	PlaceID          string   `json:"place_id"`
	PlaceIDAlt       string   `json:"placeId"`
}

// normalize maps a raw provider record to the fixed Place shape and
// derives the navigable link.
func normalize(raw rawPlace) Place {
	p := Place{
		Title:       firstNonEmpty(raw.Title, raw.Name),
		Address:     firstNonEmpty(raw.Address, raw.FormattedAddress, raw.Vicinity, addressUnavailable),
		Rating:      raw.Rating,
		RatingCount: maxInt(raw.RatingCount, raw.UserRatingCount),
		Website:     raw.Website,
		Phone:       firstNonEmpty(raw.PhoneNumber, raw.Phone),
		Thumbnail:   raw.ThumbnailURL,
		Categories:  raw.Categories,
		CID:         string(raw.CID),
		PlaceID:     firstNonEmpty(raw.PlaceID, raw.PlaceIDAlt),
	}
	if len(p.Categories) == 0 && raw.Category != "" {
		p.Categories = []string{raw.Category}
	}
	p.Link = MapsLink(p)
	return p
}

// MapsLink derives a navigable map URL for a place: by canonical id when
// present, else by place id, else a full-text search by title and address.
func MapsLink(p Place) string {
	if p.CID != "" {
		return "https://www.google.com/maps?cid=" + p.CID
	}
	if p.PlaceID != "" {
		return "https://www.google.com/maps/search/?api=1&query=Google&query_place_id=" + p.PlaceID
	}
	q := strings.TrimSpace(p.Title + " " + p.Address)
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(q)
}

// IdentityKey is the dedup key for a place: canonical id, else place id,
// else display title.
func IdentityKey(p Place) string {
	if p.CID != "" {
		return p.CID
	}
	if p.PlaceID != "" {
		return p.PlaceID
	}
	return p.Title
}

// Dedupe drops places whose identity key was already seen. First
// occurrence wins, order otherwise preserved.
func Dedupe(list []Place) []Place {
	seen := make(map[string]bool, len(list))
	out := make([]Place, 0, len(list))
	for _, p := range list {
		key := IdentityKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
