// cine-scrape est le job producteur : une agrégation puis un export CSV
// atomique, à relancer périodiquement (cron ou autre) pour alimenter un
// afficheur qui lit le fichier.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/pgit34/mon-cine-montpellier/internal/adapters/csvfile"
	"github.com/pgit34/mon-cine-montpellier/internal/app"
	"github.com/pgit34/mon-cine-montpellier/internal/config"
	"github.com/pgit34/mon-cine-montpellier/internal/domain"
)

func main() {
	def := config.Default()
	sourcesPath := flag.String("sources", def.SourcesPath, "Catalogue JSON des cinémas (vide: Montpellier par défaut)")
	csvPath := flag.String("out", def.CSVPath, "Fichier CSV de sortie")
	fetchTimeout := flag.Duration("fetch-timeout", def.FetchTimeout, "Timeout par page source")
	maxFetches := flag.Int("max-fetches", def.MaxFetches, "Fetches simultanés maximum")
	hostDelay := flag.Duration("host-delay", def.HostDelay, "Délai entre requêtes vers le même hôte")
	days := flag.Int("days", def.Days, "Nombre de jours agrégés à partir d'aujourd'hui")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", "cine-scrape").Logger()

	sources, err := config.LoadSources(*sourcesPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load sources catalog")
	}

	aggregator := app.NewAggregator(
		logger.With().Str("component", "aggregator").Logger(),
		app.NewFetcher(*fetchTimeout),
		app.AllocineExtractor{},
		sources,
		app.AggregatorOptions{MaxInFlight: *maxFetches, HostDelay: *hostDelay},
	)

	ctx := context.Background()
	result, stats := aggregator.Aggregate(ctx, domain.DayRange(time.Now(), *days))

	exporter := csvfile.New(*csvPath, *days > 1)
	if err := exporter.Export(result); err != nil {
		logger.Fatal().Err(err).Str("out", *csvPath).Msg("export failed")
	}

	// Un run vide n'est pas une erreur : l'afficheur sait présenter
	// "pas encore de données".
	logger.Info().
		Int("records", stats.Records).
		Int("pages", stats.Pages).
		Int("pages_failed", stats.PagesFailed).
		Str("out", *csvPath).
		Msg("mise à jour réussie")
}
