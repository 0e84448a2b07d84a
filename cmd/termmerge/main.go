// Command termmerge folds a .result.json file produced by termimport
// into the offline dump at dump.path. Concepts sharing an expression
// with an existing page enrich that page; the rest become new pages.
//
// With -interactive, part-of-speech conflicts are resolved at the
// terminal; without it the first conflict aborts the run and nothing
// is written.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/giellatekno/termwiki/internal/adapter/dumpfile"
	"github.com/giellatekno/termwiki/internal/app"
	"github.com/giellatekno/termwiki/internal/config"
	"github.com/giellatekno/termwiki/internal/merge"
	"github.com/giellatekno/termwiki/internal/service/importer"
	"github.com/giellatekno/termwiki/internal/service/merger"
)

func main() {
	resultFlag := flag.String("result", "", "result.json file to merge")
	interactiveFlag := flag.Bool("interactive", false, "resolve pos conflicts at the terminal")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewRunLogger(cfg.Log)
	if *resultFlag == "" {
		logger.Error("termmerge needs -result")
		os.Exit(1)
	}

	f, err := os.Open(*resultFlag)
	if err != nil {
		logger.Error("open result", slog.String("error", err.Error()))
		os.Exit(1)
	}
	result, err := importer.ReadResult(f)
	f.Close()
	if err != nil {
		logger.Error("read result", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dump, err := dumpfile.Load(cfg.Dump.Path)
	if err != nil {
		logger.Error("load dump", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var decide merge.PosDecider
	if *interactiveFlag {
		decide = merger.TerminalDecider(os.Stdin, os.Stdout)
	}

	stats, err := merger.New(dump, decide, logger).Run(result)
	if err != nil {
		logger.Error("merge", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("merge done",
		slog.String("collection", result.Collection.Name),
		slog.Int("merged", stats.Merged),
		slog.Int("added", stats.Added))
}
