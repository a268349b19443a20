package app

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pgit34/mon-cine-montpellier/internal/domain"
)

// AllocineExtractor lit une page de séances allocine.fr.
//
// Structure attendue :
//   - div.header-theater-title : nom du cinéma (optionnel)
//   - div.entity-card          : une carte par film
//   - a.meta-title-link        : titre du film (obligatoire par carte)
//   - div.showtimes-version    : un bloc par version (VF, VOST...)
//   - div.text                 : libellé de la version (optionnel)
//   - .showtimes-hour-block    : un élément par horaire
//
// Tout sous-élément optionnel manquant a une valeur de repli documentée ;
// seule une carte sans titre est ignorée, sans affecter ses voisines.
type AllocineExtractor struct{}

func (AllocineExtractor) Extract(page []byte, theaterOverride string) ([]domain.RawEntry, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	theater := normSpace(doc.Find("div.header-theater-title").First().Text())
	switch {
	case theater != "":
		theater = domain.CleanTheaterName(theater)
	case theaterOverride != "":
		// Le balisage de la page est peu fiable ; quand le catalogue
		// connaît déjà le cinéma, on lui fait confiance.
		theater = theaterOverride
	default:
		theater = "Inconnu"
	}

	var entries []domain.RawEntry
	doc.Find("div.entity-card").Each(func(_ int, card *goquery.Selection) {
		title := normSpace(card.Find("a.meta-title-link").First().Text())
		if title == "" {
			// carte sans titre : ignorée, jamais fatale
			return
		}
		card.Find("div.showtimes-version").Each(func(_ int, version *goquery.Selection) {
			rawVersion := normSpace(version.Find("div.text").First().Text())
			if rawVersion == "" {
				rawVersion = "VF"
			}
			version.Find(".showtimes-hour-block").Each(func(_ int, slot *goquery.Selection) {
				entries = append(entries, domain.RawEntry{
					Film:       title,
					RawVersion: rawVersion,
					RawTime:    strings.TrimSpace(slot.Text()),
					Theater:    theater,
				})
			})
		})
	})
	return entries, nil
}

func normSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
