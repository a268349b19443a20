package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pgit34/mon-cine-montpellier/internal/domain"
)

type Config struct {
	Addr        string
	DBPath      string
	SourcesPath string
	CSVPath     string

	// CacheTTL : durée de vie du dernier résultat d'agrégation.
	CacheTTL time.Duration
	// FetchTimeout : borne d'un GET de page source.
	FetchTimeout time.Duration
	// MaxFetches : nombre maximum de fetches simultanés.
	MaxFetches int
	// HostDelay : délai de courtoisie entre requêtes vers le même hôte.
	HostDelay time.Duration
	// Days : fenêtre agrégée (1 = aujourd'hui seulement).
	Days int
	// RefreshInterval : rafraîchissement de fond ; 0 = désactivé, le
	// cache reste paresseux.
	RefreshInterval time.Duration
}

func Default() Config {
	return Config{
		Addr:            envOr("CINE_ADDR", "127.0.0.1:8080"),
		DBPath:          envOr("CINE_DB_PATH", "cine.db"),
		SourcesPath:     envOr("CINE_SOURCES", ""),
		CSVPath:         envOr("CINE_CSV_PATH", "allocine_scraping_results.csv"),
		CacheTTL:        envDuration("CINE_CACHE_TTL", 30*time.Minute),
		FetchTimeout:    envDuration("CINE_FETCH_TIMEOUT", 10*time.Second),
		MaxFetches:      envInt("CINE_MAX_FETCHES", 4),
		HostDelay:       envDuration("CINE_HOST_DELAY", 200*time.Millisecond),
		Days:            envInt("CINE_DAYS", 1),
		RefreshInterval: envDuration("CINE_REFRESH_INTERVAL", 0),
	}
}

// LoadSources charge le catalogue des cinémas. Chemin vide : catalogue
// embarqué par défaut (Montpellier). Ajouter un cinéma est un changement
// de configuration, pas de code.
func LoadSources(path string) ([]domain.TheaterSource, error) {
	if path == "" {
		return domain.DefaultCatalog(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sources []domain.TheaterSource
	if err := json.Unmarshal(b, &sources); err != nil {
		return nil, fmt.Errorf("sources %s: %w", path, err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("sources %s: catalogue vide", path)
	}
	for i, s := range sources {
		if s.ID == "" || s.URLTemplate == "" {
			return nil, fmt.Errorf("sources %s: entrée %d sans id ou urlTemplate", path, i)
		}
	}
	return sources, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
