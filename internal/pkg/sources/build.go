package sources

import (
	"fmt"
	"time"

	"github.com/akulov/oddsgrid/internal/pkg/config"
)

// Build constructs one adapter per configured source.
func Build(cfgs []config.SourceConfig, fetchTimeout time.Duration) ([]Source, error) {
	out := make([]Source, 0, len(cfgs))
	for _, cfg := range cfgs {
		switch cfg.Kind {
		case config.SourceKindHTTP:
			out = append(out, NewHTTPSource(cfg, fetchTimeout))
		case config.SourceKindBrowser:
			out = append(out, NewBrowserSource(cfg))
		default:
			return nil, fmt.Errorf("source %s: unknown kind %q", cfg.Name, cfg.Kind)
		}
	}
	return out, nil
}
