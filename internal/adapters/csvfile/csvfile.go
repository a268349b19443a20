// Package csvfile écrit le jeu de séances dans un fichier délimité pour
// la passation producteur → afficheur. L'écriture passe par un fichier
// temporaire du même répertoire puis un rename : un lecteur concurrent
// ne voit jamais un fichier à moitié écrit.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pgit34/mon-cine-montpellier/internal/domain"
)

const DefaultPath = "allocine_scraping_results.csv"

// Exporter écrit un AggregationResult en CSV UTF-8 avec ligne d'entête.
// La colonne Jour n'existe qu'en mode multi-jours.
type Exporter struct {
	Path     string
	MultiDay bool
}

func New(path string, multiDay bool) *Exporter {
	if path == "" {
		path = DefaultPath
	}
	return &Exporter{Path: path, MultiDay: multiDay}
}

func (e *Exporter) Export(result domain.AggregationResult) error {
	dir := filepath.Dir(e.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(e.Path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// best effort : le temp ne survit pas à un échec
		_ = os.Remove(tmpName)
	}()

	if err := e.write(tmp, result); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, e.Path); err != nil {
		return fmt.Errorf("rename %s: %w", e.Path, err)
	}
	return nil
}

func (e *Exporter) write(f *os.File, result domain.AggregationResult) error {
	w := csv.NewWriter(f)

	header := []string{"Heure", "Film", "Cinéma", "Langue"}
	if e.MultiDay {
		header = append([]string{"Jour"}, header...)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range result {
		row := []string{r.Time, r.Film, r.Theater, string(r.Language)}
		if e.MultiDay {
			row = append([]string{string(r.Day)}, row...)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
