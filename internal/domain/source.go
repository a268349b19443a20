package domain

import "strings"

// DayToken est le paramètre optionnel de date dans un template d'URL.
// Sans token, l'URL pointe sur la page "du jour" du cinéma.
const DayToken = "{day}"

// TheaterSource décrit une page de séances d'un cinéma.
// Immuable, chargé une fois au démarrage ; ajouter un cinéma est un
// changement de configuration, pas de code.
type TheaterSource struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	URLTemplate string `json:"urlTemplate"`
}

// URL construit l'URL de la page pour un jour donné.
func (s TheaterSource) URL(day Day) string {
	return strings.ReplaceAll(s.URLTemplate, DayToken, string(day))
}

// SupportsDay indique si la source peut servir le jour demandé.
// Un template sans token de date ne sait servir que la page du jour.
func (s TheaterSource) SupportsDay(day Day) bool {
	if strings.Contains(s.URLTemplate, DayToken) {
		return true
	}
	return day == Today()
}

// Suffixes propres au site retirés des noms de cinémas (qualificatif de
// ville, type de salle). Table de substitution fixe, possédée par le
// catalogue.
var theaterNameSuffixes = []string{
	" Montpellier",
	" - IMAX",
}

// CleanTheaterName retire les suffixes connus et les espaces autour.
func CleanTheaterName(name string) string {
	for _, suffix := range theaterNameSuffixes {
		name = strings.ReplaceAll(name, suffix, "")
	}
	return strings.TrimSpace(name)
}

const allocineTheaterPage = "https://www.allocine.fr/seance/salle_gen_csalle="

// DefaultCatalog est le jeu de sources par défaut : les cinémas de
// Montpellier sur allocine.fr, pages 2 incluses pour les salles qui
// affichent plus d'une page de séances. Les doublons entre pages sont
// absorbés par la déduplication.
func DefaultCatalog() []TheaterSource {
	return []TheaterSource{
		{ID: "P0702", DisplayName: "Gaumont Comédie", URLTemplate: allocineTheaterPage + "P0702.html"},
		{ID: "P0702-p2", DisplayName: "Gaumont Comédie", URLTemplate: allocineTheaterPage + "P0702.html#&page=2"},
		{ID: "P0076", DisplayName: "Gaumont Multiplexe", URLTemplate: allocineTheaterPage + "P0076.html"},
		{ID: "P0076-p2", DisplayName: "Gaumont Multiplexe", URLTemplate: allocineTheaterPage + "P0076.html#&page=2"},
		{ID: "P7647", DisplayName: "Mégarama", URLTemplate: allocineTheaterPage + "P7647.html"},
		{ID: "P7647-p2", DisplayName: "Mégarama", URLTemplate: allocineTheaterPage + "P7647.html#&page=2"},
		{ID: "P0187", DisplayName: "Diagonal", URLTemplate: allocineTheaterPage + "P0187.html"},
		{ID: "P0187-p2", DisplayName: "Diagonal", URLTemplate: allocineTheaterPage + "P0187.html#&page=2"},
		{ID: "W3408", DisplayName: "Utopia Sainte-Bernadette", URLTemplate: allocineTheaterPage + "W3408.html"},
		{ID: "P3408", DisplayName: "Nestor Burma", URLTemplate: allocineTheaterPage + "P3408.html"},
	}
}
