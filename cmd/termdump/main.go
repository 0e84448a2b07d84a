// Command termdump runs reports and maintenance over the offline XML
// dump at dump.path. Reports go to stdout; diagnostics go to stderr.
//
// Actions:
//
//	sum        count sanctioned and unsanctioned terms of -language
//	stats      per-category numbers for -language
//	invalid    list expressions with characters that break search
//	missing    list words the normative transducer rejects
//	pairs      tab-separated term pairs for -language and -language2
//	dupes      list expressions appearing on more than one page
//	sanction   sanction terms of -language the normative transducer accepts
//	sort       sort the dump by page title and rewrite it
//	json       write the whole dump as the satni export tree
//	search     look up the remaining arguments, write a TSV table
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/giellatekno/termwiki/internal/adapter/analyser"
	"github.com/giellatekno/termwiki/internal/adapter/dumpfile"
	"github.com/giellatekno/termwiki/internal/app"
	"github.com/giellatekno/termwiki/internal/config"
	"github.com/giellatekno/termwiki/internal/domain"
	"github.com/giellatekno/termwiki/internal/service/dumphandler"
)

func main() {
	actionFlag := flag.String("action", "stats", "sum, stats, invalid, missing, pairs, dupes, sanction, sort, json or search")
	languageFlag := flag.String("language", "se", "language of the report")
	language2Flag := flag.String("language2", "nb", "second language (pairs)")
	categoryFlag := flag.String("category", "", "restrict to one thematic category (pairs)")
	sanctionedFlag := flag.Bool("only-sanctioned", false, "ignore unsanctioned expressions")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewRunLogger(cfg.Log)

	lang := domain.Language(*languageFlag)
	if !lang.IsValid() {
		logger.Error("unknown language", slog.String("language", *languageFlag))
		os.Exit(1)
	}

	dump, err := dumpfile.Load(cfg.Dump.Path)
	if err != nil {
		logger.Error("load dump", slog.String("error", err.Error()))
		os.Exit(1)
	}
	handler := dumphandler.New(dump, logger)

	if err := run(handler, cfg, *actionFlag, lang, domain.Language(*language2Flag),
		*categoryFlag, *sanctionedFlag, flag.Args()); err != nil {
		logger.Error("run", slog.String("action", *actionFlag), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(handler *dumphandler.Handler, cfg *config.Config, action string,
	lang, lang2 domain.Language, category string, onlySanctioned bool, args []string) error {

	out := os.Stdout
	switch action {
	case "sum":
		sum := handler.SumTerms(lang)
		fmt.Fprintf(out, "%s:\nSanctioned:\t%d\nNot-sanctioned:\t%d\nTotal:\t\t%d\n",
			lang, sum.Sanctioned, sum.NotSanctioned, sum.Total())
		return nil

	case "stats":
		categories, total := handler.Statistics(lang)
		fmt.Fprintln(out, lang)
		for _, stats := range append(categories, total) {
			fmt.Fprintf(out, "%s\nconcepts\t%d\nexpressions\t%d\nsanctioned\t%d\nnot sanctioned\t%d\ninvalid\t%d\n\n",
				stats.Category, stats.Concepts, stats.Expressions,
				stats.Sanctioned, stats.NotSanctioned, stats.Invalid)
		}
		return nil

	case "invalid":
		for _, inv := range handler.InvalidChars(lang, onlySanctioned) {
			fmt.Fprintf(out, "%s %s\n", inv.Expression, inv.URL)
		}
		return nil

	case "missing":
		oracle := analyser.New(cfg.Analyser, slog.Default())
		missing, err := handler.MissingFromAnalyser(context.Background(), oracle, lang, onlySanctioned)
		if err != nil {
			return err
		}
		return dumphandler.WriteMissing(out, missing)

	case "pairs":
		if !lang2.IsValid() {
			return fmt.Errorf("unknown language %q", lang2)
		}
		return handler.ExpressionPairs(out, lang, lang2, category)

	case "dupes":
		for _, expression := range handler.DuplicateExpressions() {
			fmt.Fprintln(out, expression)
		}
		return nil

	case "sanction":
		oracle := analyser.New(cfg.Analyser, slog.Default())
		changed, err := handler.AutoSanction(oracle, lang)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "sanctioned expressions on %d pages\n", changed)
		return nil

	case "sort":
		return handler.SortDump()

	case "json":
		return handler.DumpToJSON(out)

	case "search":
		return handler.Search(out, lang, args)

	default:
		return fmt.Errorf("unknown action %q", action)
	}
}
