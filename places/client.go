package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DipakKumarChauhan/foodie-eyes/config"
	"github.com/DipakKumarChauhan/foodie-eyes/logger"
)

// NoReviewsPlaceholder stands in for review text when the enrichment
// fetch fails or comes back empty.
const NoReviewsPlaceholder = "No detailed public reviews found."

// Client talks to a Serper-style places/organic search API.
type Client struct {
	apiKey     string
	baseURL    string
	gl         string
	hl         string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		apiKey:  config.GetEnv("SERPER_API_KEY", ""),
		baseURL: config.GetEnv("SERPER_BASE_URL", "https://google.serper.dev"),
		gl:      config.GetEnv("SERPER_GL", "in"),
		hl:      config.GetEnv("SERPER_HL", "en"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithBase builds a client against an explicit endpoint. Used by
// tests to point at an httptest server.
func NewClientWithBase(apiKey, baseURL string) *Client {
	c := NewClient()
	c.apiKey = apiKey
	c.baseURL = baseURL
	return c
}

type searchRequest struct {
	Q        string `json:"q"`
	Location string `json:"location,omitempty"`
	GL       string `json:"gl,omitempty"`
	HL       string `json:"hl,omitempty"`
	Num      int    `json:"num,omitempty"`
}

type searchResponse struct {
	Places  []rawPlace `json:"places"`
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search resolves a free-text query near a location into a deduplicated
// list of candidate places. Compound queries fan out into concurrent
// sub-searches; a failing sub-search contributes an empty result set and
// a warning, never an error.
func (c *Client) Search(ctx context.Context, query, location string) ([]Place, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("SERPER_API_KEY not configured")
	}

	queries := SplitQuery(query)
	logger.Debug("Executing place searches", zap.Int("count", len(queries)), zap.Strings("queries", queries))

	results := make([][]Place, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			searchString := q
			if !strings.Contains(strings.ToLower(q), strings.ToLower(location)) {
				searchString = q + " near " + location
			}
			found, err := c.searchOnce(gctx, searchString, location)
			if err != nil {
				logger.Warn("Sub-query search failed", zap.String("query", q), zap.Error(err))
				return nil
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Place
	for _, r := range results {
		all = append(all, r...)
	}
	return Dedupe(all), nil
}

func (c *Client) searchOnce(ctx context.Context, query, location string) ([]Place, error) {
	body := searchRequest{Q: query, Location: location, GL: c.gl, HL: c.hl}
	resp, err := c.post(ctx, "/places", body)
	if err != nil {
		return nil, err
	}

	out := make([]Place, 0, len(resp.Places))
	for _, raw := range resp.Places {
		out = append(out, normalize(raw))
	}
	return out, nil
}

// FetchReviews pulls public review snippets for a place. Best effort: on
// any failure or an empty result the placeholder text is returned.
func (c *Client) FetchReviews(ctx context.Context, p Place) string {
	if c.apiKey == "" {
		return NoReviewsPlaceholder
	}

	query := fmt.Sprintf("reviews of %s %s food menu must try", p.Title, p.Address)
	resp, err := c.post(ctx, "/search", searchRequest{Q: query, GL: c.gl, Num: 5})
	if err != nil {
		logger.Warn("Failed to fetch reviews", zap.String("place", p.Title), zap.Error(err))
		return NoReviewsPlaceholder
	}

	var snippets []string
	for _, item := range resp.Organic {
		snippets = append(snippets, fmt.Sprintf("- %q (Source: %s)", item.Snippet, item.Title))
	}
	if len(snippets) == 0 {
		return NoReviewsPlaceholder
	}
	return "Public Reviews & Highlights:\n" + strings.Join(snippets, "\n")
}

func (c *Client) post(ctx context.Context, path string, body searchRequest) (*searchResponse, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API error (status %d): %s", resp.StatusCode, string(raw))
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &parsed, nil
}
