package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RefreshScheduler rafraîchit le cache en tâche de fond à intervalle
// fixe. Extension documentée au comportement paresseux de base : sans
// scheduler, seul le premier Get après expiration paie le scrape.
type RefreshScheduler struct {
	logger    zerolog.Logger
	showtimes *ShowtimeService

	Interval time.Duration
}

func NewRefreshScheduler(logger zerolog.Logger, showtimes *ShowtimeService, interval time.Duration) *RefreshScheduler {
	return &RefreshScheduler{logger: logger, showtimes: showtimes, Interval: interval}
}

func (sch *RefreshScheduler) Run(ctx context.Context) {
	interval := sch.Interval
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sch.logger.Info().Msg("refresh scheduler stopped")
			return
		case <-ticker.C:
			dto := sch.showtimes.Refresh(ctx)
			sch.logger.Info().
				Str("status", dto.Status).
				Int("records", dto.Count).
				Msg("rafraîchissement planifié")
		}
	}
}
