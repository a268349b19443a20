package app

import (
	"testing"

	"github.com/pgit34/mon-cine-montpellier/internal/domain"
)

func TestNormalizeEntryTime(t *testing.T) {
	cases := []struct {
		raw      string
		want     string
		accepted bool
	}{
		{"14:30", "14:30", true},
		{"14:30 VO", "14:30", true},
		{"  14:30  ", "14:30", true},
		{"23:59", "23:59", true},
		{"24:10", "", false},
		{"14:65", "", false},
		{"9:30", "", false},
		{"Séance", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		rec, ok := NormalizeEntry(domain.RawEntry{Film: "Dune", RawVersion: "VF", RawTime: tc.raw, Theater: "Diagonal"}, "2026-08-28")
		if ok != tc.accepted {
			t.Errorf("raw=%q: accepted=%v, want %v", tc.raw, ok, tc.accepted)
			continue
		}
		if ok && rec.Time != tc.want {
			t.Errorf("raw=%q: time=%q, want %q", tc.raw, rec.Time, tc.want)
		}
	}
}

func TestNormalizeEntryTrimsFields(t *testing.T) {
	rec, ok := NormalizeEntry(domain.RawEntry{Film: "  Dune ", RawVersion: "VF", RawTime: "14:30", Theater: " Diagonal "}, "2026-08-28")
	if !ok {
		t.Fatal("entrée valide rejetée")
	}
	if rec.Film != "Dune" || rec.Theater != "Diagonal" {
		t.Fatalf("champs non nettoyés: %+v", rec)
	}
	if rec.Day != "2026-08-28" {
		t.Fatalf("jour: %s", rec.Day)
	}
}

func TestClassifyLanguage(t *testing.T) {
	cases := []struct {
		raw  string
		want domain.Language
	}{
		{"VOST", domain.LangVOST},
		{"vost", domain.LangVOST},
		{"Version VOSTFR", domain.LangVOST},
		{"En VO sous-titrée (vost)", domain.LangVOST},
		{"VF", domain.LangVF},
		{"Version Française", domain.LangVF},
		// un tiret sans rapport avec la langue ne doit pas perturber
		{"Dolby - Atmos", domain.LangVF},
		{"", domain.LangUnknown},
		{"   ", domain.LangUnknown},
	}
	for _, tc := range cases {
		if got := ClassifyLanguage(tc.raw); got != tc.want {
			t.Errorf("ClassifyLanguage(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}
