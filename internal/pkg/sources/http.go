package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/akulov/oddsgrid/internal/pkg/config"
	"github.com/akulov/oddsgrid/internal/pkg/models"
)

const defaultUserAgent = "oddsgrid/1.0 (+https://github.com/akulov/oddsgrid)"

// HTTPSource fetches a JSON odds feed over plain HTTP.
type HTTPSource struct {
	name      string
	url       string
	region    string
	userAgent string
	headers   map[string]string
	client    *http.Client
}

var _ Source = (*HTTPSource)(nil)

func NewHTTPSource(cfg config.SourceConfig, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &HTTPSource{
		name:      cfg.Name,
		url:       cfg.URL,
		region:    cfg.Region,
		userAgent: ua,
		headers:   cfg.Headers,
		client:    &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Name() string { return s.name }

func (s *HTTPSource) Fetch(ctx context.Context) ([]models.RawPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var doc feed
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return stamp(doc.Matches, s.name, s.region), nil
}
