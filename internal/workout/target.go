package workout

import (
	"fmt"
	"log/slog"

	"github.com/jpignata/garmin-training-plan/internal/models"
	"github.com/jpignata/garmin-training-plan/internal/units"
)

// Pace targets are the zone speed ±5%.
const (
	targetLowFactor  = 0.95
	targetHighFactor = 1.05
)

// Resolver turns pace zone names into speed targets using the plan's
// pace table.
type Resolver struct {
	paces map[string]string
	log   *slog.Logger
}

func NewResolver(paces map[string]string, log *slog.Logger) *Resolver {
	return &Resolver{paces: paces, log: orDiscard(log)}
}

// Resolve returns the pace-zone target for zone. A zone missing from the
// pace table yields no target and a warning, never an error; only a
// malformed pace string fails.
func (r *Resolver) Resolve(zone string) (models.Target, error) {
	pace, ok := r.paces[zone]
	if !ok {
		r.log.Warn("unknown pace zone, using no target", "zone", zone)
		return models.NoTarget(), nil
	}

	speed, err := units.PaceToSpeed(pace)
	if err != nil {
		return models.Target{}, fmt.Errorf("pace zone %s: %w", zone, err)
	}

	return models.Target{
		Type: models.TargetPaceZone,
		Low:  speed * targetLowFactor,
		High: speed * targetHighFactor,
	}, nil
}

func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return log
}
