package app

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pgit34/mon-cine-montpellier/internal/domain"
	"github.com/pgit34/mon-cine-montpellier/internal/ports"
)

// RunStats décrit la volumétrie d'une agrégation. Les échecs individuels
// sont attendus (scraping best-effort de pages tierces) ; seule leur
// proportion sur un run est un signal opérationnel.
type RunStats struct {
	Pages          int `json:"pages"`
	PagesFailed    int `json:"pagesFailed"`
	RawEntries     int `json:"rawEntries"`
	EntriesDropped int `json:"entriesDropped"`
	Records        int `json:"records"`
}

// AggregatorOptions règle la concurrence de la matrice source×jour.
type AggregatorOptions struct {
	// MaxInFlight borne le nombre de fetches simultanés.
	MaxInFlight int
	// HostDelay est le délai de courtoisie entre deux requêtes vers le
	// même hôte amont. Pas une exigence de correction, juste du
	// savoir-vivre vis-à-vis du rate limiting.
	HostDelay time.Duration
}

func DefaultAggregatorOptions() AggregatorOptions {
	return AggregatorOptions{
		MaxInFlight: 4,
		HostDelay:   200 * time.Millisecond,
	}
}

// Aggregator déroule le pipeline fetch → extract → normalize sur la
// matrice source×jour, fusionne les succès et ignore les échecs.
type Aggregator struct {
	logger    zerolog.Logger
	fetcher   ports.PageFetcher
	extractor ports.Extractor
	sources   []domain.TheaterSource
	limiter   *FetchLimiter
	pacer     *hostPacer
}

func NewAggregator(logger zerolog.Logger, fetcher ports.PageFetcher, extractor ports.Extractor, sources []domain.TheaterSource, opts AggregatorOptions) *Aggregator {
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = DefaultAggregatorOptions().MaxInFlight
	}
	return &Aggregator{
		logger:    logger,
		fetcher:   fetcher,
		extractor: extractor,
		sources:   sources,
		limiter:   NewFetchLimiter(opts.MaxInFlight),
		pacer:     newHostPacer(opts.HostDelay),
	}
}

// pairOutcome est le résultat explicite d'un couple (source, jour) :
// soit des records, soit une erreur. L'agrégateur partitionne ensuite,
// ce qui rend la politique "avaler et continuer" testable.
type pairOutcome struct {
	source  domain.TheaterSource
	day     domain.Day
	url     string
	records []domain.ShowtimeRecord
	dropped int
	raw     int
	err     error
}

// Aggregate produit le jeu de séances trié et dédupliqué pour la
// fenêtre de jours demandée. Jamais nil : une matrice entièrement en
// échec donne un résultat vide, pas une erreur.
func (a *Aggregator) Aggregate(ctx context.Context, days []domain.Day) (domain.AggregationResult, RunStats) {
	if len(days) == 0 {
		days = []domain.Day{domain.Today()}
	}

	type pair struct {
		source domain.TheaterSource
		day    domain.Day
	}
	var pairs []pair
	for _, src := range a.sources {
		for _, day := range days {
			if !src.SupportsDay(day) {
				continue
			}
			pairs = append(pairs, pair{source: src, day: day})
		}
	}

	// Indexé par position de matrice : le résultat ne dépend pas de
	// l'ordre de complétion des fetches.
	outcomes := make([]pairOutcome, len(pairs))
	var wg sync.WaitGroup
	for i, p := range pairs {
		wg.Add(1)
		go func(i int, p pair) {
			defer wg.Done()
			outcomes[i] = a.runPair(ctx, p.source, p.day)
		}(i, p)
	}
	wg.Wait()

	stats := RunStats{Pages: len(pairs)}
	var merged []domain.ShowtimeRecord
	for _, out := range outcomes {
		if out.err != nil {
			stats.PagesFailed++
			a.logger.Warn().
				Str("source", out.source.ID).
				Str("day", string(out.day)).
				Str("url", out.url).
				Err(out.err).
				Msg("page ignorée")
			continue
		}
		stats.RawEntries += out.raw
		stats.EntriesDropped += out.dropped
		merged = append(merged, out.records...)
	}

	result := domain.Dedup(merged)
	result.Sort()
	stats.Records = len(result)

	summary := a.logger.Info()
	if stats.Pages > 0 && stats.PagesFailed*2 > stats.Pages {
		// Plus de la moitié de la matrice en échec : là c'est un
		// problème opérationnel, pas un aléa de scraping.
		summary = a.logger.Error()
	}
	summary.
		Int("pages", stats.Pages).
		Int("pages_failed", stats.PagesFailed).
		Int("raw_entries", stats.RawEntries).
		Int("dropped", stats.EntriesDropped).
		Int("records", stats.Records).
		Msg("agrégation terminée")

	return result, stats
}

func (a *Aggregator) runPair(ctx context.Context, src domain.TheaterSource, day domain.Day) pairOutcome {
	out := pairOutcome{source: src, day: day, url: src.URL(day)}

	if err := a.limiter.Acquire(ctx); err != nil {
		out.err = err
		return out
	}
	defer a.limiter.Release()

	if err := a.pacer.wait(ctx, out.url); err != nil {
		out.err = err
		return out
	}

	page, err := a.fetcher.Fetch(ctx, out.url)
	if err != nil {
		out.err = err
		return out
	}

	entries, err := a.extractor.Extract(page, src.DisplayName)
	if err != nil {
		out.err = err
		return out
	}

	out.raw = len(entries)
	for _, e := range entries {
		rec, ok := NormalizeEntry(e, day)
		if !ok {
			out.dropped++
			continue
		}
		out.records = append(out.records, rec)
	}
	return out
}

// hostPacer espace les requêtes vers un même hôte. Chaque appel réserve
// son créneau sous mutex puis dort hors verrou jusqu'à l'échéance.
type hostPacer struct {
	delay time.Duration

	mu   sync.Mutex
	next map[string]time.Time
}

func newHostPacer(delay time.Duration) *hostPacer {
	return &hostPacer{delay: delay, next: make(map[string]time.Time)}
}

func (p *hostPacer) wait(ctx context.Context, rawURL string) error {
	if p.delay <= 0 {
		return nil
	}
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = strings.ToLower(u.Host)
	}

	p.mu.Lock()
	now := time.Now()
	at := p.next[host]
	if at.Before(now) {
		at = now
	}
	p.next[host] = at.Add(p.delay)
	p.mu.Unlock()

	d := time.Until(at)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
