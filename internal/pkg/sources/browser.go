package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/akulov/oddsgrid/internal/pkg/config"
	"github.com/akulov/oddsgrid/internal/pkg/models"
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// defaultExtractScript pulls the embedded odds feed that client-rendered
// sources expose on the page after their scripts run.
const defaultExtractScript = "JSON.stringify(window.__ODDS_FEED__ || {matches: []})"

// BrowserSource fetches odds from sources that only render their feed
// client-side. It drives a headless browser, waits for scripts to run, then
// evaluates a JS expression that must return the feed JSON as a string.
type BrowserSource struct {
	name   string
	url    string
	region string
	script string
	settle time.Duration
}

var _ Source = (*BrowserSource)(nil)

func NewBrowserSource(cfg config.SourceConfig) *BrowserSource {
	script := cfg.Selector
	if script == "" {
		script = defaultExtractScript
	}
	return &BrowserSource{
		name:   cfg.Name,
		url:    cfg.URL,
		region: cfg.Region,
		script: script,
		settle: 2 * time.Second,
	}
}

func (s *BrowserSource) Name() string { return s.name }

func (s *BrowserSource) Fetch(ctx context.Context) ([]models.RawPayload, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(browserUserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var raw string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(s.url),
		chromedp.Sleep(s.settle),
		chromedp.Evaluate(s.script, &raw),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp navigation: %w", err)
	}

	var doc feed
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return stamp(doc.Matches, s.name, s.region), nil
}
