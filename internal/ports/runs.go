package ports

import (
	"context"

	"github.com/pgit34/mon-cine-montpellier/internal/domain"
)

type RunRepository interface {
	Create(ctx context.Context, run domain.ScrapeRun) (domain.ScrapeRun, error)
	Get(ctx context.Context, id string) (domain.ScrapeRun, error)
	// List renvoie les runs les plus récents en premier.
	List(ctx context.Context, limit int) ([]domain.ScrapeRun, error)
}
