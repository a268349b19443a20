package csvfile

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pgit34/mon-cine-montpellier/internal/domain"
)

func sampleResult() domain.AggregationResult {
	return domain.AggregationResult{
		{Day: "2026-08-28", Time: "14:30", Film: "Dune", Theater: "Gaumont Comédie", Language: domain.LangVOST},
		{Day: "2026-08-28", Time: "20:15", Film: "Dune", Theater: "Gaumont Comédie", Language: domain.LangVF},
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("lecture CSV: %v", err)
	}
	return rows
}

func TestExport_SingleDay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seances.csv")
	e := New(path, false)

	if err := e.Export(sampleResult()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	rows := readRows(t, path)
	want := [][]string{
		{"Heure", "Film", "Cinéma", "Langue"},
		{"14:30", "Dune", "Gaumont Comédie", "VOST"},
		{"20:15", "Dune", "Gaumont Comédie", "VF"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("lignes = %v, attendu %v", rows, want)
	}
}

func TestExport_MultiDayHasJourColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seances.csv")
	e := New(path, true)

	if err := e.Export(sampleResult()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	rows := readRows(t, path)
	if got := rows[0]; !reflect.DeepEqual(got, []string{"Jour", "Heure", "Film", "Cinéma", "Langue"}) {
		t.Fatalf("entête = %v", got)
	}
	if rows[1][0] != "2026-08-28" {
		t.Fatalf("colonne Jour = %q", rows[1][0])
	}
}

func TestExport_EmptyResultWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seances.csv")
	e := New(path, false)

	if err := e.Export(nil); err != nil {
		t.Fatalf("Export: %v", err)
	}

	rows := readRows(t, path)
	if len(rows) != 1 {
		t.Fatalf("attendu entête seule, lignes = %v", rows)
	}
}

func TestExport_OverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seances.csv")
	e := New(path, false)

	if err := e.Export(sampleResult()); err != nil {
		t.Fatalf("premier Export: %v", err)
	}
	if err := e.Export(sampleResult()[:1]); err != nil {
		t.Fatalf("second Export: %v", err)
	}

	rows := readRows(t, path)
	if len(rows) != 2 {
		t.Fatalf("le second export doit remplacer le fichier, lignes = %v", rows)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, ent := range entries {
		if strings.Contains(ent.Name(), ".tmp-") {
			t.Fatalf("fichier temporaire restant: %s", ent.Name())
		}
	}
}

func TestExport_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sous", "dossier", "seances.csv")
	e := New(path, false)

	if err := e.Export(sampleResult()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("fichier absent: %v", err)
	}
}

func TestNew_DefaultPath(t *testing.T) {
	if e := New("", false); e.Path != DefaultPath {
		t.Fatalf("Path = %q", e.Path)
	}
}
