package domain

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Language est l'étiquette de version d'une séance.
// Jamais de texte libre : soit VF, soit VOST, soit UNKNOWN quand
// le bloc version ne permet aucune classification.
type Language string

const (
	LangVF      Language = "VF"
	LangVOST    Language = "VOST"
	LangUnknown Language = "UNKNOWN"
)

// Day est une date calendaire au format YYYY-MM-DD.
// L'ordre lexicographique coïncide avec l'ordre chronologique, ce qui
// simplifie le tri et la sérialisation (JSON, CSV, SQL).
type Day string

const dayLayout = "2006-01-02"

func Today() Day {
	return DayOf(time.Now())
}

func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

// DayRange renvoie n jours consécutifs à partir de from (n >= 1).
func DayRange(from time.Time, n int) []Day {
	if n <= 0 {
		n = 1
	}
	out := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, DayOf(from.AddDate(0, 0, i)))
	}
	return out
}

// RawEntry est le produit brut de l'extraction d'une page, avant
// normalisation. Jamais exposé hors du pipeline d'agrégation.
type RawEntry struct {
	Film       string
	RawVersion string
	RawTime    string
	Theater    string
}

// ShowtimeRecord est l'unité canonique de sortie.
type ShowtimeRecord struct {
	Day      Day      `json:"jour"`
	Time     string   `json:"heure"`
	Film     string   `json:"film"`
	Theater  string   `json:"cinema"`
	Language Language `json:"langue"`
}

// Key est la clé de déduplication : tous les champs du record.
func (r ShowtimeRecord) Key() string {
	return strings.Join([]string{string(r.Day), r.Time, r.Film, r.Theater, string(r.Language)}, "\x1f")
}

var showtimeRE = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidShowtime accepte uniquement un horaire 24h au format HH:MM.
func ValidShowtime(s string) bool {
	return showtimeRE.MatchString(s)
}

// AggregationResult est la séquence triée des séances d'une agrégation.
type AggregationResult []ShowtimeRecord

// Sort impose l'ordre canonique (jour, heure) croissant, départagé par
// cinéma puis film pour rester déterministe quel que soit l'ordre
// d'arrivée des pages.
func (res AggregationResult) Sort() {
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		if a.Theater != b.Theater {
			return a.Theater < b.Theater
		}
		return a.Film < b.Film
	})
}

// Dedup supprime les doublons sur Key en conservant la première
// occurrence (les doublons sont identiques champ à champ).
func Dedup(records []ShowtimeRecord) AggregationResult {
	seen := make(map[string]struct{}, len(records))
	out := make(AggregationResult, 0, len(records))
	for _, r := range records {
		k := r.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Filter est une projection pure sur un résultat d'agrégation.
//
// Sémantique : jour et cinémas en correspondance exacte (appartenance
// pour les cinémas), film en sous-chaîne insensible à la casse.
type Filter struct {
	Day      Day
	Film     string
	Theaters []string
}

func (f Filter) IsZero() bool {
	return f.Day == "" && f.Film == "" && len(f.Theaters) == 0
}

func (f Filter) Match(r ShowtimeRecord) bool {
	if f.Day != "" && r.Day != f.Day {
		return false
	}
	if len(f.Theaters) > 0 {
		found := false
		for _, t := range f.Theaters {
			if t == r.Theater {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Film != "" && !strings.Contains(strings.ToLower(r.Film), strings.ToLower(f.Film)) {
		return false
	}
	return true
}

// Apply renvoie le sous-ensemble trié des records qui passent le filtre.
func (f Filter) Apply(res AggregationResult) AggregationResult {
	if f.IsZero() {
		out := make(AggregationResult, len(res))
		copy(out, res)
		return out
	}
	out := make(AggregationResult, 0, len(res))
	for _, r := range res {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
