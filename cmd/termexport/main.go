// Command termexport pushes terminology out of the toolchain.
//
// With -result the pages of a .result.json file are saved to the live
// wiki in canonical form. With -json the dump is written as the
// downstream term-search JSON tree, to the named file or to stdout
// when the name is "-". With -db the dump's concepts are upserted into
// the PostgreSQL term database at database.dsn; -migrate applies
// pending schema migrations first.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/giellatekno/termwiki/internal/adapter/dumpfile"
	"github.com/giellatekno/termwiki/internal/adapter/mediawiki"
	"github.com/giellatekno/termwiki/internal/adapter/termdb"
	"github.com/giellatekno/termwiki/internal/app"
	"github.com/giellatekno/termwiki/internal/config"
	"github.com/giellatekno/termwiki/internal/domain"
	"github.com/giellatekno/termwiki/internal/service/dumphandler"
	"github.com/giellatekno/termwiki/internal/service/importer"
	"github.com/giellatekno/termwiki/internal/service/satni"
	"github.com/giellatekno/termwiki/internal/service/sitehandler"
)

func main() {
	resultFlag := flag.String("result", "", "result.json file to publish to the wiki")
	jsonFlag := flag.String("json", "", "write JSON to this file, or - for stdout")
	dbFlag := flag.Bool("db", false, "upsert into the term database")
	migrateFlag := flag.Bool("migrate", false, "apply pending database migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewRunLogger(cfg.Log)
	if *resultFlag == "" && *jsonFlag == "" && !*dbFlag && !*migrateFlag {
		logger.Error("termexport needs -result, -json, -db or -migrate")
		os.Exit(1)
	}
	ctx := context.Background()

	if *resultFlag != "" {
		if err := publishResult(ctx, cfg, logger, *resultFlag); err != nil {
			logger.Error("publish", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if *jsonFlag != "" || *dbFlag {
		dump, err := dumpfile.Load(cfg.Dump.Path)
		if err != nil {
			logger.Error("load dump", slog.String("error", err.Error()))
			os.Exit(1)
		}
		concepts := satni.FromConceptPages(dumphandler.New(dump, logger).Concepts())
		logger.Info("collected concepts", slog.Int("concepts", len(concepts)))

		if *jsonFlag != "" {
			if err := writeJSON(*jsonFlag, concepts); err != nil {
				logger.Error("write json", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
		if *dbFlag {
			if err := exportToDB(ctx, cfg, logger, *migrateFlag, concepts); err != nil {
				logger.Error("export", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
	} else if *migrateFlag {
		if cfg.Database.DSN == "" {
			logger.Error("termexport -migrate needs database.dsn")
			os.Exit(1)
		}
		if err := termdb.Migrate(ctx, cfg.Database.DSN); err != nil {
			logger.Error("migrate", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}
}

func publishResult(ctx context.Context, cfg *config.Config, logger *slog.Logger, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	result, err := importer.ReadResult(f)
	f.Close()
	if err != nil {
		return err
	}

	client, err := mediawiki.NewClient(cfg.Wiki, logger)
	if err != nil {
		return err
	}
	if err := client.Login(ctx, cfg.Wiki.Username, cfg.Wiki.Password); err != nil {
		return err
	}

	handler := sitehandler.New(client, cfg.Wiki.SaveDelay, logger)
	published, err := handler.PublishPages(ctx, result.Concepts, "Imported from "+result.Collection.Name)
	if err != nil {
		return err
	}
	logger.Info("publish done",
		slog.String("collection", result.Collection.Name),
		slog.Int("published", published))
	return nil
}

var errMissingDSN = errors.New("database.dsn is not set")

func exportToDB(ctx context.Context, cfg *config.Config, logger *slog.Logger,
	migrate bool, concepts []domain.SatniConcept) error {

	if cfg.Database.DSN == "" {
		return errMissingDSN
	}
	if migrate {
		if err := termdb.Migrate(ctx, cfg.Database.DSN); err != nil {
			return err
		}
	}
	pool, err := termdb.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	written, err := satni.NewExporter(termdb.NewRepo(pool), logger).Export(ctx, concepts)
	if err != nil {
		return err
	}
	logger.Info("export done", slog.Int("written", written))
	return nil
}

func writeJSON(path string, concepts []domain.SatniConcept) error {
	if path == "-" {
		return satni.WriteJSON(os.Stdout, concepts)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := satni.WriteJSON(f, concepts); err != nil {
		return err
	}
	return f.Close()
}
