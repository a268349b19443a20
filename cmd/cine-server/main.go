package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pgit34/mon-cine-montpellier/internal/adapters/csvfile"
	"github.com/pgit34/mon-cine-montpellier/internal/adapters/httpapi"
	"github.com/pgit34/mon-cine-montpellier/internal/adapters/memorybus"
	"github.com/pgit34/mon-cine-montpellier/internal/adapters/sqlite"
	"github.com/pgit34/mon-cine-montpellier/internal/app"
	"github.com/pgit34/mon-cine-montpellier/internal/buildinfo"
	"github.com/pgit34/mon-cine-montpellier/internal/config"
)

func main() {
	def := config.Default()
	addr := flag.String("addr", def.Addr, "Adresse d'écoute (ex: 127.0.0.1:8080)")
	dbPath := flag.String("db", def.DBPath, "Chemin SQLite (ex: cine.db)")
	sourcesPath := flag.String("sources", def.SourcesPath, "Catalogue JSON des cinémas (vide: Montpellier par défaut)")
	csvPath := flag.String("csv", def.CSVPath, "Fichier CSV exporté à chaque scrape")
	ttl := flag.Duration("ttl", def.CacheTTL, "TTL du cache de séances")
	fetchTimeout := flag.Duration("fetch-timeout", def.FetchTimeout, "Timeout par page source")
	maxFetches := flag.Int("max-fetches", def.MaxFetches, "Fetches simultanés maximum")
	hostDelay := flag.Duration("host-delay", def.HostDelay, "Délai entre requêtes vers le même hôte")
	days := flag.Int("days", def.Days, "Nombre de jours agrégés à partir d'aujourd'hui")
	refreshEvery := flag.Duration("refresh-every", def.RefreshInterval, "Rafraîchissement de fond (0: paresseux uniquement)")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", "cine-server").Logger()
	log.Logger = logger

	logger.Info().Interface("build", buildinfo.Current()).Str("db", *dbPath).Msg("starting")

	ctx := context.Background()
	db, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open db")
	}
	defer func() { _ = db.Close() }()

	sources, err := config.LoadSources(*sourcesPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load sources catalog")
	}
	logger.Info().Int("sources", len(sources)).Int("days", *days).Msg("catalogue chargé")

	bus := memorybus.New()
	defer bus.Close()

	fetcher := app.NewFetcher(*fetchTimeout)
	aggregator := app.NewAggregator(
		logger.With().Str("component", "aggregator").Logger(),
		fetcher,
		app.AllocineExtractor{},
		sources,
		app.AggregatorOptions{MaxInFlight: *maxFetches, HostDelay: *hostDelay},
	)

	runsRepo := sqlite.NewRunsRepository(db.SQL)
	exporter := csvfile.New(*csvPath, *days > 1)
	showtimes := app.NewShowtimeService(
		logger.With().Str("component", "showtimes").Logger(),
		aggregator, runsRepo, bus, exporter,
		app.ShowtimeServiceOptions{TTL: *ttl, Days: *days},
	)

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *refreshEvery > 0 {
		scheduler := app.NewRefreshScheduler(logger.With().Str("component", "scheduler").Logger(), showtimes, *refreshEvery)
		go scheduler.Run(shutdownCtx)
		logger.Info().Dur("interval", *refreshEvery).Msg("background refresh enabled")
	}

	srv := httpapi.NewServer(logger, showtimes, bus)
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", *addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server crashed")
			stop()
		}
	}()

	<-shutdownCtx.Done()
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
	logger.Info().Msg("bye")
}
