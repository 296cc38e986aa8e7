// Package sources defines the collaborator boundary to the systems that
// acquire raw odds payloads, plus two concrete fetch adapters: a plain HTTP
// JSON feed and a headless-browser feed for sources that render odds
// client-side.
package sources

import (
	"context"

	"github.com/akulov/oddsgrid/internal/pkg/models"
)

// Source delivers one upstream's raw payloads. Fetch honors the context
// deadline; a fetch failure affects only this source for this cycle.
type Source interface {
	// Name returns the source name stamped into canonical records.
	Name() string

	// Fetch retrieves the source's current raw payloads.
	Fetch(ctx context.Context) ([]models.RawPayload, error)
}

// feed is the JSON document both adapters expect from upstream.
type feed struct {
	Matches []models.RawPayload `json:"matches"`
}

// stamp fills in the source name and region on every payload so downstream
// stages never depend on the upstream setting them.
func stamp(payloads []models.RawPayload, name, region string) []models.RawPayload {
	for i := range payloads {
		payloads[i].Source = name
		if payloads[i].Region == "" {
			payloads[i].Region = region
		}
	}
	return payloads
}
