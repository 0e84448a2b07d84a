// Command termimport converts a term spreadsheet into
// <collection>.result.json files, one per worksheet. The workbook must
// have a sibling <name>.template.json describing its column layout.
//
// With -report, a <name>.report.xlsx is written flagging imported
// concepts that share an expression with a page already in the dump.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/giellatekno/termwiki/internal/adapter/dumpfile"
	"github.com/giellatekno/termwiki/internal/adapter/sheet"
	"github.com/giellatekno/termwiki/internal/app"
	"github.com/giellatekno/termwiki/internal/config"
	"github.com/giellatekno/termwiki/internal/index"
	"github.com/giellatekno/termwiki/internal/service/dumphandler"
	"github.com/giellatekno/termwiki/internal/service/importer"
)

func main() {
	fileFlag := flag.String("file", "", "workbook to import")
	reportFlag := flag.Bool("report", false, "write a duplicate report against the dump")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewRunLogger(cfg.Log)
	if *fileFlag == "" {
		logger.Error("termimport needs -file")
		os.Exit(1)
	}

	src, err := sheet.Open(*fileFlag)
	if err != nil {
		logger.Error("open workbook", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer src.Close()

	imp := importer.New(logger)
	results, err := imp.Import(src)
	if err != nil {
		logger.Error("import", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var idx *index.Index
	if *reportFlag {
		dump, err := dumpfile.Load(cfg.Dump.Path)
		if err != nil {
			logger.Error("load dump", slog.String("error", err.Error()))
			os.Exit(1)
		}
		idx = index.Build(dumphandler.New(dump, logger).Concepts())
	}

	dir := filepath.Dir(*fileFlag)
	for _, result := range results {
		path := filepath.Join(dir, importer.ResultFileName(result.Collection.Name))
		if err := writeResultFile(path, result); err != nil {
			logger.Error("write result", slog.String("path", path), slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("wrote result", slog.String("path", path), slog.Int("concepts", len(result.Concepts)))

		if idx != nil {
			reportPath := strings.TrimSuffix(*fileFlag, filepath.Ext(*fileFlag)) + ".report.xlsx"
			if err := imp.DuplicateReport(reportPath, result, idx); err != nil {
				logger.Error("write report", slog.String("error", err.Error()))
				os.Exit(1)
			}
			logger.Info("wrote report", slog.String("path", reportPath))
		}
	}
}

func writeResultFile(path string, result importer.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := importer.WriteResult(f, result); err != nil {
		return err
	}
	return f.Close()
}
