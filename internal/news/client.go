package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Client is a thin fetch wrapper over a NewsAPI-compatible endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// apiResponse mirrors the top-headlines wire format.
type apiResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"source"`
		Author      string    `json:"author"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		URLToImage  string    `json:"urlToImage"`
		PublishedAt time.Time `json:"publishedAt"`
		Content     string    `json:"content"`
	} `json:"articles"`
}

func NewClient(baseURL, apiKey string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 5),
		logger:  logger,
	}
}

// TopHeadlines fetches the current feed for one source id, tagging each
// article with the source's political lean.
func (c *Client) TopHeadlines(ctx context.Context, sourceID string) ([]Article, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/top-headlines?sources=%s", c.baseURL, url.QueryEscape(sourceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news api request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("news api response not parseable: %w", err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Status != "ok" {
		return nil, fmt.Errorf("news api error: status=%d message=%q", resp.StatusCode, parsed.Message)
	}

	lean := LeanFor(sourceID)
	articles := make([]Article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		id := a.Source.ID
		if id == "" {
			id = sourceID
		}
		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			SourceID:    id,
			Lean:        lean,
			ImageURL:    a.URLToImage,
			Author:      a.Author,
			Content:     a.Content,
		})
	}

	c.logger.Info("fetched headlines",
		"source", sourceID,
		"count", len(articles),
	)
	return articles, nil
}
