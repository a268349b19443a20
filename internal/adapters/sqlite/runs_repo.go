package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pgit34/mon-cine-montpellier/internal/domain"
	"github.com/pgit34/mon-cine-montpellier/internal/ports"
)

type RunsRepository struct {
	db *sql.DB
}

func NewRunsRepository(db *sql.DB) *RunsRepository {
	return &RunsRepository{db: db}
}

func (r *RunsRepository) Create(ctx context.Context, run domain.ScrapeRun) (domain.ScrapeRun, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scrape_runs(id, started_at, finished_at, day_from, day_to, records, pages_tried, pages_failed, entries_dropped, status, error_summary)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.Format(time.RFC3339), run.FinishedAt.Format(time.RFC3339),
		string(run.DayFrom), string(run.DayTo), run.Records, run.PagesTried, run.PagesFailed,
		run.EntriesDropped, string(run.Status), run.ErrorSummary)
	if err != nil {
		return domain.ScrapeRun{}, err
	}
	return r.Get(ctx, run.ID)
}

func (r *RunsRepository) Get(ctx context.Context, id string) (domain.ScrapeRun, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, day_from, day_to, records, pages_tried, pages_failed, entries_dropped, status, error_summary
		FROM scrape_runs WHERE id = ?
	`, id)
	run, err := scanRun(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ScrapeRun{}, ports.ErrNotFound
		}
		return domain.ScrapeRun{}, err
	}
	return run, nil
}

func (r *RunsRepository) List(ctx context.Context, limit int) ([]domain.ScrapeRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, day_from, day_to, records, pages_tried, pages_failed, entries_dropped, status, error_summary
		FROM scrape_runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ScrapeRun{}
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanRun(scan func(dest ...any) error) (domain.ScrapeRun, error) {
	var run domain.ScrapeRun
	var startedAt, finishedAt, dayFrom, dayTo, status string
	err := scan(&run.ID, &startedAt, &finishedAt, &dayFrom, &dayTo,
		&run.Records, &run.PagesTried, &run.PagesFailed, &run.EntriesDropped, &status, &run.ErrorSummary)
	if err != nil {
		return domain.ScrapeRun{}, err
	}
	run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	run.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
	run.DayFrom = domain.Day(dayFrom)
	run.DayTo = domain.Day(dayTo)
	run.Status = domain.RunStatus(status)
	return run, nil
}
