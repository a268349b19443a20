package app

import (
	"strings"

	"github.com/pgit34/mon-cine-montpellier/internal/domain"
)

// NormalizeEntry convertit une entrée brute en record canonique pour un
// jour donné. Renvoie false quand l'horaire est inexploitable : l'entrée
// est abandonnée en silence plutôt qu'émise avec une valeur malformée.
func NormalizeEntry(e domain.RawEntry, day domain.Day) (domain.ShowtimeRecord, bool) {
	t := strings.TrimSpace(e.RawTime)
	if len(t) > 5 {
		t = t[:5]
	}
	if !domain.ValidShowtime(t) {
		return domain.ShowtimeRecord{}, false
	}
	return domain.ShowtimeRecord{
		Day:      day,
		Time:     t,
		Film:     strings.TrimSpace(e.Film),
		Theater:  strings.TrimSpace(e.Theater),
		Language: ClassifyLanguage(e.RawVersion),
	}, true
}

// ClassifyLanguage applique la politique canonique : détection de la
// sous-chaîne "VOST" sans tenir compte de la casse, sinon VF. UNKNOWN
// uniquement quand le texte de version est vide — l'échec de
// classification reste visible au lieu d'être silencieusement étiqueté VF.
func ClassifyLanguage(raw string) domain.Language {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.LangUnknown
	}
	if strings.Contains(strings.ToUpper(raw), "VOST") {
		return domain.LangVOST
	}
	return domain.LangVF
}
