package main

import (
	"context"
	"fmt"
	"log"
	"os"
	osignal "os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pharmvigilance/signalengine/internal/artifact"
	"github.com/pharmvigilance/signalengine/internal/config"
	"github.com/pharmvigilance/signalengine/internal/database"
	"github.com/pharmvigilance/signalengine/internal/domain"
	"github.com/pharmvigilance/signalengine/internal/embed"
	"github.com/pharmvigilance/signalengine/internal/extract"
	"github.com/pharmvigilance/signalengine/internal/literature"
	"github.com/pharmvigilance/signalengine/internal/normalize"
	"github.com/pharmvigilance/signalengine/internal/rank"
	"github.com/pharmvigilance/signalengine/internal/repository"
	signalstage "github.com/pharmvigilance/signalengine/internal/signal"
)

// resolverCacheSize bounds the in-process LRU each synonym Resolver holds
// on top of its fully-loaded synonym table.
const resolverCacheSize = 1_000_000

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := newLogger(cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	osignal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("shutdown signal received, cancelling pipeline run")
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		log.Fatalf("pipeline run failed: %v", err)
	}
	logger.Info("pipeline run complete")
}

func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func run(ctx context.Context, cfg *domain.Config, logger *logrus.Logger) error {
	store, err := artifact.NewFileStore(cfg.Artifact.BaseDir, logger)
	if err != nil {
		return fmt.Errorf("constructing artifact store: %w", err)
	}

	drugStore, eventStore, closeStores, err := buildSynonymStores(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("constructing synonym stores: %w", err)
	}
	defer closeStores()

	drugResolver, err := normalize.NewResolver(ctx, drugStore, repository.KindDrug, resolverCacheSize, logger)
	if err != nil {
		return fmt.Errorf("building drug resolver: %w", err)
	}
	eventResolver, err := normalize.NewResolver(ctx, eventStore, repository.KindEvent, resolverCacheSize, logger)
	if err != nil {
		return fmt.Errorf("building event resolver: %w", err)
	}

	progress := artifact.NewLoggingProgressObserver(logger, 1000)
	cancelToken := domain.ContextCancellationToken{Ctx: ctx}

	rawReports, err := normalize.LoadRawReportsJSONL(cfg.Artifact.RawReportsPath)
	if err != nil {
		return fmt.Errorf("loading raw reports: %w", err)
	}

	normResult, err := normalize.Run(ctx, cfg.Normalize, rawReports, normalize.Deps{
		DrugResolver:  drugResolver,
		EventResolver: eventResolver,
		Progress:      progress,
		Cancel:        cancelToken,
	}, logger)
	if err != nil {
		return fmt.Errorf("normalize stage: %w", err)
	}

	if err := artifact.WriteParquetRows(ctx, store, artifact.PathDrugs, artifact.DrugsToRows(normResult.Drugs), cancelToken); err != nil {
		return fmt.Errorf("publishing drugs artifact: %w", err)
	}
	if err := artifact.WriteParquetRows(ctx, store, artifact.PathEvents, artifact.EventsToRows(normResult.Events), cancelToken); err != nil {
		return fmt.Errorf("publishing events artifact: %w", err)
	}
	if err := artifact.WriteParquetRows(ctx, store, artifact.PathContingency, artifact.CellsToRows(normResult.Cells), cancelToken); err != nil {
		return fmt.Errorf("publishing contingency artifact: %w", err)
	}

	embedder, err := embed.NewCachingEmbedder(ctx, embed.NewHashingEmbedder(cfg.Embed.EmbeddingDim), cfg.Cache, cfg.Embed.CacheTTLSeconds)
	if err != nil {
		return fmt.Errorf("constructing embedder: %w", err)
	}

	clusters, err := embed.Run(ctx, cfg.Embed, normResult.Events, embedder, progress, cancelToken, logger)
	if err != nil {
		return fmt.Errorf("embed stage: %w", err)
	}
	if err := artifact.WriteParquetRows(ctx, store, artifact.PathEventClusters, artifact.ClustersToRows(clusters), cancelToken); err != nil {
		return fmt.Errorf("publishing event cluster artifact: %w", err)
	}

	abstracts, err := literature.LoadAbstractsJSONL(cfg.Artifact.LiteratureAbstractsPath)
	if err != nil {
		return fmt.Errorf("loading literature abstracts: %w", err)
	}
	var source domain.LiteratureSource
	if len(abstracts) > 0 {
		fetcher := literature.NewStaticFetcher(abstracts, 200)
		source = literature.NewResilientSource(fetcher, 10, logger)
	}

	mentions, err := extract.Run(ctx, cfg.Extract, extract.Deps{
		Source:   source,
		Drugs:    extract.DrugDictionary(normResult.Drugs),
		Events:   extract.EventDictionary(normResult.Events),
		Progress: progress,
		Cancel:   cancelToken,
	}, logger)
	if err != nil {
		return fmt.Errorf("extract stage: %w", err)
	}
	if err := artifact.WriteParquetRows(ctx, store, artifact.PathRelations, artifact.MentionsToRows(mentions), cancelToken); err != nil {
		return fmt.Errorf("publishing relations artifact: %w", err)
	}

	signals, err := signalstage.Run(ctx, cfg.Signal, normResult.Cells, progress, cancelToken, logger)
	if err != nil {
		return fmt.Errorf("signal stage: %w", err)
	}

	// The literature aggregation runs on the in-memory mentions, not a
	// re-read of the just-published relations artifact: the artifact's
	// schema (matching the published column list) carries no publication
	// year, so recency can only be computed from the richer in-process
	// RelationMention within the same run.
	literatureByPair := rank.AggregateLiterature(mentions, cfg.Rank.LitRecentYears)
	ranked := rank.Run(cfg.Rank, signals, literatureByPair, clusters, logger)

	drugName := buildDrugNameLookup(normResult.Drugs)
	eventTerm := buildEventTermLookup(normResult.Events)
	if err := artifact.WriteSignalsCSV(ctx, store, ranked, drugName, eventTerm); err != nil {
		return fmt.Errorf("publishing signals csv: %w", err)
	}

	return nil
}

func buildDrugNameLookup(drugs []domain.Drug) artifact.DrugNameLookup {
	names := make(map[string]string, len(drugs))
	for _, d := range drugs {
		names[d.ID] = d.PreferredName
	}
	return func(id string) string { return names[id] }
}

func buildEventTermLookup(events []domain.Event) artifact.EventTermLookup {
	terms := make(map[string]string, len(events))
	for _, e := range events {
		terms[e.ID] = e.RepresentativeTerm
	}
	return func(id string) string { return terms[id] }
}

// buildSynonymStores wires the configured driver's SynonymStore pair and
// returns a single close func for both.
func buildSynonymStores(ctx context.Context, cfg domain.DatabaseConfig, logger *logrus.Logger) (repository.SynonymStore, repository.SynonymStore, func(), error) {
	if cfg.Driver == "sqlite" {
		store, err := repository.NewSQLiteSynonymStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening sqlite synonym store: %w", err)
		}
		closeFn := func() {
			if err := store.Close(); err != nil {
				logger.WithError(err).Warn("closing sqlite synonym store")
			}
		}
		return store, store, closeFn, nil
	}

	dbCfg := database.FromDomain(cfg)
	db, err := database.NewConnection(ctx, dbCfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	migrationsURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)
	runner, err := database.NewMigrationRunner(migrationsURL, "internal/database/migrations", logger)
	if err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("constructing migration runner: %w", err)
	}
	migrateCtx, migrateCancel := context.WithTimeout(ctx, 30*time.Second)
	defer migrateCancel()
	if err := runner.Up(migrateCtx); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("running synonym table migrations: %w", err)
	}

	store := repository.NewPostgresSynonymStore(db.Pool, logger)
	return store, store, func() { db.Close() }, nil
}
