package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/cmsbridge/importer/internal/collection"
	"github.com/cmsbridge/importer/internal/collection/pgstore"
	"github.com/cmsbridge/importer/internal/config"
	"github.com/cmsbridge/importer/internal/importer"
	"github.com/cmsbridge/importer/internal/logging"
	"github.com/cmsbridge/importer/internal/source"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	var (
		csvPath      = flag.String("csv", "", "path to a CSV file to import")
		fromAPI      = flag.Bool("from-api", false, "fetch records from the configured records API instead of a CSV file")
		collectionID = flag.String("collection", "", "target collection ID (required)")
		slugColumn   = flag.String("slug-column", "", "column to derive item slugs from (default: auto-select)")
		onConflict   = flag.String("on-conflict", cfg.Import.ConflictPolicy, "what to do with records whose slug already exists: update or skip")
		noSession    = flag.Bool("no-session", false, "do not restore or save the mapping session")
	)
	flag.Parse()

	if *collectionID == "" {
		fmt.Fprintln(os.Stderr, "a target collection is required: -collection <id>")
		flag.Usage()
		os.Exit(2)
	}
	if (*csvPath != "") == *fromAPI {
		fmt.Fprintln(os.Stderr, "exactly one record source is required: -csv <path> or -from-api")
		flag.Usage()
		os.Exit(2)
	}
	if *onConflict != "update" && *onConflict != "skip" {
		fmt.Fprintf(os.Stderr, "invalid -on-conflict value %q: must be update or skip\n", *onConflict)
		os.Exit(2)
	}

	ctx := logging.WithRunID(context.Background())
	log := logging.FromContext(ctx)

	log.Info("configuration loaded",
		"store_backend", cfg.Store.Backend,
		"conflict_policy", *onConflict,
		"save_session", cfg.Import.SaveSession && !*noSession,
	)

	store, resolver, cleanup, err := openStore(ctx, cfg, *collectionID)
	if err != nil {
		log.Error("failed to open collection store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	set, err := loadRecords(ctx, cfg, *csvPath)
	if err != nil {
		fail(log, err)
	}
	log.Info("records loaded", "records", len(set.Records), "columns", len(set.Columns))

	runCtx, cancel := context.WithTimeout(ctx, cfg.Import.Timeout)
	defer cancel()

	report, err := importer.Run(runCtx, store, resolver, set, importer.RunOptions{
		UpdateOnConflict: *onConflict == "update",
		SlugColumn:       *slugColumn,
		RestoreSaved:     cfg.Import.SaveSession && !*noSession,
		SaveSession:      cfg.Import.SaveSession && !*noSession,
	})
	if err != nil {
		fail(log, err)
	}

	fmt.Println(report.Summary())
}

// openStore builds the collection store and resolver for the configured
// backend. The returned cleanup closes the underlying pool, if any.
func openStore(ctx context.Context, cfg *config.Config, collectionID string) (collection.Store, collection.Resolver, func(), error) {
	if cfg.Store.Backend == "memory" {
		resolver := collection.MemoryResolver{}
		store := collection.NewMemoryStore(nil)
		resolver[collectionID] = store
		return store, resolver, func() {}, nil
	}

	// Parse and configure connection pool
	poolConfig, err := pgxpool.ParseConfig(cfg.Store.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Store.MaxConns)
	poolConfig.MinConns = int32(cfg.Store.MinConns)
	poolConfig.MaxConnLifetime = cfg.Store.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("ping database: %w", err)
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.Store.DatabaseURL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	host := pgstore.NewHost(pool)
	if err := host.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("ensure schema: %w", err)
	}

	store, err := host.Collection(ctx, collectionID)
	if errors.Is(err, collection.ErrNotFound) {
		store, err = host.CreateCollection(ctx, collectionID, collectionID)
	}
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("open collection %q: %w", collectionID, err)
	}

	return store, host, pool.Close, nil
}

// loadRecords reads the record set from the CSV file or the records API.
func loadRecords(ctx context.Context, cfg *config.Config, csvPath string) (*importer.RecordSet, error) {
	if csvPath != "" {
		return source.ReadCSVFile(csvPath, importer.ParseOptions{
			DropIncompleteRows: cfg.Import.DropIncompleteRows,
		})
	}

	if cfg.Source.APIBaseURL == "" {
		return nil, fmt.Errorf("-from-api requires SOURCE_API_URL to be set")
	}

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.Source.FetchTimeout)
	defer cancel()

	session := source.NewSession(cfg.Source.APIBaseURL, cfg.Source.APIToken)
	set, _, err := source.FetchRecords(fetchCtx, session)
	return set, err
}

// fail prints the user-facing message for an import error and exits.
func fail(log *slog.Logger, err error) {
	if ie, ok := importer.AsImportError(err); ok {
		log.Error("import failed", "code", ie.Code, "error", err)
		fmt.Fprintln(os.Stderr, ie.UserMessage())
	} else {
		log.Error("import failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}
