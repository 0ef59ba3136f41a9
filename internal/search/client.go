// internal/search/client.go
package search

import (
	"alcyxob/studyplan-app/internal/config"
	"alcyxob/studyplan-app/internal/domain"
	"alcyxob/studyplan-app/internal/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Materials is the pair of material lists the search collaborator returns
// for a topic.
type Materials struct {
	Related []domain.MaterialRef
	Review  []domain.MaterialRef
}

// Client finds learning materials for a topic. Find may fail on network or
// quota errors; callers absorb the failure and synthesize a fallback.
type Client interface {
	Find(ctx context.Context, topic string) (Materials, error)
}

type webSearchClient struct {
	log        *logger.Logger
	endpoint   string
	apiKey     string
	engineID   string
	httpClient *http.Client
}

// NewWebSearchClient builds a Client over a Custom Search JSON API endpoint.
func NewWebSearchClient(cfg config.SearchConfig, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, errors.New("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("missing search api key")
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = "https://www.googleapis.com/customsearch/v1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &webSearchClient{
		log:        log.With("service", "WebSearchClient"),
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		engineID:   cfg.EngineID,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

func (c *webSearchClient) Find(ctx context.Context, topic string) (Materials, error) {
	query := url.Values{}
	query.Set("key", c.apiKey)
	if c.engineID != "" {
		query.Set("cx", c.engineID)
	}
	query.Set("q", topic+" tutorial")
	query.Set("num", "6")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return Materials{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Materials{}, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return Materials{}, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Materials{}, fmt.Errorf("search http %d: %s", resp.StatusCode, string(raw))
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Materials{}, fmt.Errorf("search decode error: %w", err)
	}
	if len(parsed.Items) == 0 {
		return Materials{}, errors.New("search returned no results")
	}

	var related []domain.MaterialRef
	for _, item := range parsed.Items {
		if len(related) == 4 {
			break
		}
		related = append(related, domain.MaterialRef{
			Title:       item.Title,
			Type:        classifyURL(item.Link),
			URL:         item.Link,
			Description: item.Snippet,
		})
	}

	review := related
	if len(review) > 2 {
		review = review[:2]
	}
	return Materials{Related: related, Review: review}, nil
}

// classifyURL maps a result link to a material type from its host.
func classifyURL(link string) domain.MaterialType {
	parsed, err := url.Parse(link)
	if err != nil {
		return domain.MaterialOther
	}
	host := strings.ToLower(parsed.Host)
	switch {
	case strings.Contains(host, "youtube.com"), strings.Contains(host, "youtu.be"), strings.Contains(host, "vimeo.com"):
		return domain.MaterialVideo
	case strings.Contains(host, "medium.com"), strings.Contains(host, "dev.to"), strings.Contains(host, "velog.io"), strings.Contains(host, "tistory.com"):
		return domain.MaterialBlog
	case strings.Contains(host, "docs."), strings.HasSuffix(host, ".dev"), strings.Contains(host, "developer."):
		return domain.MaterialDoc
	case strings.Contains(host, "udemy.com"), strings.Contains(host, "coursera.org"), strings.Contains(host, "inflearn.com"):
		return domain.MaterialCourse
	default:
		return domain.MaterialOther
	}
}
