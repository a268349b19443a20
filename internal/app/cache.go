package app

import (
	"context"
	"sync"
	"time"

	"github.com/pgit34/mon-cine-montpellier/internal/domain"
)

const DefaultCacheTTL = 30 * time.Minute

// AggregateFunc est la fonction coûteuse mise en cache.
type AggregateFunc func(ctx context.Context, days []domain.Day) (domain.AggregationResult, RunStats)

// ResultCache met le dernier résultat d'agrégation derrière un TTL.
//
// Deux états : vide (initial) ou peuplé (résultat + horodatage + fenêtre
// de jours couverte). Le rafraîchissement est paresseux, déclenché par le
// premier Get après expiration — pas de goroutine de fond ici.
//
// Concurrence : l'échange d'état est atomique sous mu ; refreshMu
// sérialise les agrégations pour qu'une rafale de Get concurrents sur un
// cache expiré ne déclenche qu'un seul scrape. Le scrape lui-même
// s'exécute hors de mu : un Get concurrent qui trouve le cache encore
// frais n'attend jamais le réseau.
type ResultCache struct {
	ttl       time.Duration
	aggregate AggregateFunc
	now       func() time.Time

	refreshMu sync.Mutex

	mu        sync.Mutex
	populated bool
	result    domain.AggregationResult
	days      []domain.Day
	fetchedAt time.Time
}

func NewResultCache(ttl time.Duration, aggregate AggregateFunc) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResultCache{ttl: ttl, aggregate: aggregate, now: time.Now}
}

// Get renvoie le résultat couvrant la fenêtre demandée, depuis le cache
// s'il est frais et couvrant, sinon en rafraîchissant de manière
// synchrone (le premier appelant après expiration paie la latence).
func (c *ResultCache) Get(ctx context.Context, days []domain.Day) domain.AggregationResult {
	if res, ok := c.fresh(days); ok {
		return res
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	// Un Get concurrent a pu rafraîchir pendant l'attente du verrou.
	if res, ok := c.fresh(days); ok {
		return res
	}
	return c.refresh(ctx, days)
}

// ForceRefresh ré-agrège sans condition et repart le TTL. C'est l'unique
// autre chemin de mutation du cache, réservé au déclencheur opérateur.
// days vide réutilise la dernière fenêtre demandée.
func (c *ResultCache) ForceRefresh(ctx context.Context, days []domain.Day) domain.AggregationResult {
	if len(days) == 0 {
		c.mu.Lock()
		days = append([]domain.Day(nil), c.days...)
		c.mu.Unlock()
		if len(days) == 0 {
			days = []domain.Day{domain.Today()}
		}
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	return c.refresh(ctx, days)
}

// LastUpdated renvoie l'horodatage du dernier scrape réussi.
// ok=false tant que le cache est vide ("données pas encore disponibles",
// à distinguer de "zéro résultat pour ce filtre").
func (c *ResultCache) LastUpdated() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchedAt, c.populated
}

func (c *ResultCache) fresh(days []domain.Day) (domain.AggregationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.populated {
		return nil, false
	}
	if c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	if !coversDays(c.days, days) {
		return nil, false
	}
	return c.result, true
}

func (c *ResultCache) refresh(ctx context.Context, days []domain.Day) domain.AggregationResult {
	result, _ := c.aggregate(ctx, days)
	if result == nil {
		result = domain.AggregationResult{}
	}

	c.mu.Lock()
	c.populated = true
	c.result = result
	c.days = append([]domain.Day(nil), days...)
	c.fetchedAt = c.now()
	c.mu.Unlock()

	return result
}

// coversDays : la fenêtre en cache couvre la requête si chaque jour
// demandé en fait partie.
func coversDays(cached, requested []domain.Day) bool {
	set := make(map[domain.Day]struct{}, len(cached))
	for _, d := range cached {
		set[d] = struct{}{}
	}
	for _, d := range requested {
		if _, ok := set[d]; !ok {
			return false
		}
	}
	return true
}
