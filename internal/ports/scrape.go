package ports

import (
	"context"

	"github.com/pgit34/mon-cine-montpellier/internal/domain"
)

// PageFetcher fait un GET borné sur une page source.
// Pas de retry ici : la politique (best-effort, on continue) appartient
// à l'agrégateur.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Extractor transforme le HTML d'une page en entrées brutes.
// theaterOverride est le nom connu via le catalogue, utilisé quand le
// balisage de la page ne fournit pas le nom du cinéma.
//
// Contrat : fonction pure (même page => mêmes entrées), tolérante aux
// sous-éléments optionnels manquants ; seule une page illisible dans
// son ensemble renvoie une erreur.
type Extractor interface {
	Extract(page []byte, theaterOverride string) ([]domain.RawEntry, error)
}

// DatasetExporter persiste un résultat d'agrégation pour la couche de
// présentation (fichier plat, écrit atomiquement).
type DatasetExporter interface {
	Export(result domain.AggregationResult) error
}
