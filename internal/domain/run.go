package domain

import "time"

type RunStatus string

const (
	// RunOK : toutes les pages ont répondu et le résultat est non vide.
	RunOK RunStatus = "ok"
	// RunPartial : au moins une page en échec, mais des séances obtenues.
	RunPartial RunStatus = "partial"
	// RunEmpty : aucune séance sur l'ensemble de la matrice.
	// Ce n'est pas une erreur (§ best-effort), mais l'état est distinct
	// pour que la couche de présentation puisse l'afficher comme tel.
	RunEmpty RunStatus = "empty"
)

// ScrapeRun est la trace persistée d'une agrégation : fenêtre de jours,
// volumétrie et taux d'échec. C'est la surface d'observabilité durable
// du scraping best-effort.
type ScrapeRun struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time
	DayFrom        Day
	DayTo          Day
	Records        int
	PagesTried     int
	PagesFailed    int
	EntriesDropped int
	Status         RunStatus
	ErrorSummary   string
}

// RunStatusFor classe un run terminé. L'ordre importe : un run vide est
// "empty" même si des pages ont échoué.
func RunStatusFor(records, pagesFailed int) RunStatus {
	if records == 0 {
		return RunEmpty
	}
	if pagesFailed > 0 {
		return RunPartial
	}
	return RunOK
}
