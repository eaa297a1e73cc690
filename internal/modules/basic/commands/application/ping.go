package application

import (
	"time"

	"github.com/sglre6355/cogbot/internal/modules/basic/commands/domain"
)

// PingInteractor handles the ping use case.
type PingInteractor struct {
	latency func() time.Duration
}

// NewPingInteractor creates a new PingInteractor reading the gateway
// latency from latency.
func NewPingInteractor(latency func() time.Duration) *PingInteractor {
	if latency == nil {
		latency = func() time.Duration { return 0 }
	}
	return &PingInteractor{latency: latency}
}

// Execute combines the measured API round trip with the gateway latency.
func (p *PingInteractor) Execute(api time.Duration) *domain.LatencyReport {
	return domain.NewLatencyReport(p.latency(), api)
}
