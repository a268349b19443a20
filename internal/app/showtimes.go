package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/pgit34/mon-cine-montpellier/internal/domain"
	"github.com/pgit34/mon-cine-montpellier/internal/ports"
)

// Statuts renvoyés à la couche de présentation. no_data (cache vide ou
// scrape intégralement bredouille) se présente différemment de no_match
// (des données existent mais le filtre exclut tout).
const (
	StatusOK      = "ok"
	StatusNoData  = "no_data"
	StatusNoMatch = "no_match"
)

const TopicRefreshCompleted = "refresh.completed"

type ShowtimeServiceOptions struct {
	// TTL du cache de résultats (déploiements observés : 1800–3600 s).
	TTL time.Duration
	// Days est le nombre de jours agrégés à partir d'aujourd'hui.
	Days int
}

// ShowtimeService orchestre cache, agrégateur, historique des runs,
// export CSV et événements. Repo, bus et exporteur sont optionnels :
// le CLI producteur n'a ni base ni bus.
type ShowtimeService struct {
	logger   zerolog.Logger
	cache    *ResultCache
	sources  []domain.TheaterSource
	runs     ports.RunRepository
	bus      ports.EventBus
	exporter ports.DatasetExporter
	days     int
}

func NewShowtimeService(logger zerolog.Logger, agg *Aggregator, runs ports.RunRepository, bus ports.EventBus, exporter ports.DatasetExporter, opts ShowtimeServiceOptions) *ShowtimeService {
	if opts.Days <= 0 {
		opts.Days = 1
	}
	s := &ShowtimeService{
		logger:   logger,
		sources:  agg.sources,
		runs:     runs,
		bus:      bus,
		exporter: exporter,
		days:     opts.Days,
	}
	s.cache = NewResultCache(opts.TTL, func(ctx context.Context, days []domain.Day) (domain.AggregationResult, RunStats) {
		started := time.Now()
		result, stats := agg.Aggregate(ctx, days)
		s.record(ctx, started, days, result, stats)
		return result, stats
	})
	return s
}

type ShowtimesDTO struct {
	Status    string                   `json:"status"`
	UpdatedAt *time.Time               `json:"updatedAt,omitempty"`
	Count     int                      `json:"count"`
	Showtimes domain.AggregationResult `json:"seances"`
}

type RunDTO struct {
	ID             string           `json:"id"`
	StartedAt      time.Time        `json:"startedAt"`
	FinishedAt     time.Time        `json:"finishedAt"`
	DayFrom        domain.Day       `json:"dayFrom"`
	DayTo          domain.Day       `json:"dayTo"`
	Records        int              `json:"records"`
	PagesTried     int              `json:"pagesTried"`
	PagesFailed    int              `json:"pagesFailed"`
	EntriesDropped int              `json:"entriesDropped"`
	Status         domain.RunStatus `json:"status"`
	Error          string           `json:"error,omitempty"`
}

func ToRunDTO(r domain.ScrapeRun) RunDTO {
	return RunDTO{
		ID:             r.ID,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		DayFrom:        r.DayFrom,
		DayTo:          r.DayTo,
		Records:        r.Records,
		PagesTried:     r.PagesTried,
		PagesFailed:    r.PagesFailed,
		EntriesDropped: r.EntriesDropped,
		Status:         r.Status,
		Error:          r.ErrorSummary,
	}
}

// Window renvoie la fenêtre de jours courante du service.
func (s *ShowtimeService) Window() []domain.Day {
	return domain.DayRange(time.Now(), s.days)
}

// MultiDay indique si le service agrège plus d'un jour (la colonne Jour
// de l'export n'existe qu'en mode multi-jours).
func (s *ShowtimeService) MultiDay() bool { return s.days > 1 }

func (s *ShowtimeService) Sources() []domain.TheaterSource {
	return s.sources
}

// Get sert la fenêtre courante depuis le cache (scrape paresseux au
// premier appel ou après expiration) puis applique le filtre demandé.
func (s *ShowtimeService) Get(ctx context.Context, f domain.Filter) ShowtimesDTO {
	result := s.cache.Get(ctx, s.Window())
	filtered := f.Apply(result)

	dto := ShowtimesDTO{Status: StatusOK, Count: len(filtered), Showtimes: filtered}
	switch {
	case len(result) == 0:
		dto.Status = StatusNoData
	case len(filtered) == 0:
		dto.Status = StatusNoMatch
	}
	if at, ok := s.cache.LastUpdated(); ok {
		dto.UpdatedAt = &at
	}
	return dto
}

// Refresh est le déclencheur opérateur : ré-agrégation inconditionnelle,
// TTL reparti de zéro.
func (s *ShowtimeService) Refresh(ctx context.Context) ShowtimesDTO {
	result := s.cache.ForceRefresh(ctx, s.Window())
	dto := ShowtimesDTO{Status: StatusOK, Count: len(result), Showtimes: result}
	if len(result) == 0 {
		dto.Status = StatusNoData
	}
	if at, ok := s.cache.LastUpdated(); ok {
		dto.UpdatedAt = &at
	}
	return dto
}

func (s *ShowtimeService) Runs(ctx context.Context, limit int) ([]RunDTO, error) {
	if s.runs == nil {
		return []RunDTO{}, nil
	}
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]RunDTO, 0, len(runs))
	for _, r := range runs {
		out = append(out, ToRunDTO(r))
	}
	return out, nil
}

// record trace un run terminé : historique en base, export du fichier
// plat, événement bus. Aucun de ces effets ne fait échouer le run.
func (s *ShowtimeService) record(ctx context.Context, started time.Time, days []domain.Day, result domain.AggregationResult, stats RunStats) {
	run := domain.ScrapeRun{
		ID:             xid.New().String(),
		StartedAt:      started.UTC(),
		FinishedAt:     time.Now().UTC(),
		DayFrom:        days[0],
		DayTo:          days[len(days)-1],
		Records:        stats.Records,
		PagesTried:     stats.Pages,
		PagesFailed:    stats.PagesFailed,
		EntriesDropped: stats.EntriesDropped,
		Status:         domain.RunStatusFor(stats.Records, stats.PagesFailed),
	}

	if s.runs != nil {
		if _, err := s.runs.Create(ctx, run); err != nil {
			s.logger.Error().Err(err).Msg("échec de persistance du run")
		}
	}
	if s.exporter != nil {
		if err := s.exporter.Export(result); err != nil {
			s.logger.Error().Err(err).Msg("échec de l'export du fichier plat")
		}
	}
	PublishRunEvent(s.bus, TopicRefreshCompleted, run)
}

func PublishRunEvent(bus ports.EventBus, topic string, run domain.ScrapeRun) {
	if bus == nil {
		return
	}
	b, err := json.Marshal(ToRunDTO(run))
	if err != nil {
		return
	}
	bus.Publish(topic, b)
}
