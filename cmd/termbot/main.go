// Command termbot runs maintenance operations against the live wiki.
//
// Actions:
//
//	fix            normalize every concept page, category by category
//	fix-recent     normalize the concept pages among the -n most recent changes
//	fix-title      normalize one page named by -title
//	improve-names  rename pages whose titles break downstream search
//	delete         delete pages whose titles start with -prefix (candidates
//	               come from the dump at dump.path)
//	categories     list every category on the site, flagging unknown ones
//
// Credentials and the wiki URL come from config (WIKI_URL, WIKI_USERNAME,
// WIKI_PASSWORD).
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

	"github.com/giellatekno/termwiki/internal/adapter/dumpfile"
	"github.com/giellatekno/termwiki/internal/adapter/mediawiki"
	"github.com/giellatekno/termwiki/internal/app"
	"github.com/giellatekno/termwiki/internal/config"
	"github.com/giellatekno/termwiki/internal/service/sitehandler"
)

func main() {
	actionFlag := flag.String("action", "fix", "fix, fix-recent, fix-title, improve-names, delete or categories")
	nFlag := flag.Int("n", 100, "number of recent changes to inspect (fix-recent)")
	titleFlag := flag.String("title", "", "page title (fix-title)")
	prefixFlag := flag.String("prefix", "", "title prefix (delete)")
	reasonFlag := flag.String("reason", "Page is not needed anymore", "deletion reason (delete)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewRunLogger(cfg.Log)
	ctx := context.Background()

	client, err := mediawiki.NewClient(cfg.Wiki, logger)
	if err != nil {
		logger.Error("create wiki client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := client.Login(ctx, cfg.Wiki.Username, cfg.Wiki.Password); err != nil {
		logger.Error("login", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handler := sitehandler.New(client, cfg.Wiki.SaveDelay, logger)

	switch *actionFlag {
	case "fix":
		result, err := handler.FixAll(ctx)
		if err != nil {
			logger.Error("fix", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("fix done", slog.Int("checked", result.Checked), slog.Int("fixed", result.Fixed))

	case "fix-recent":
		result, err := handler.FixRecent(ctx, *nFlag)
		if err != nil {
			logger.Error("fix-recent", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("fix-recent done", slog.Int("checked", result.Checked), slog.Int("fixed", result.Fixed))

	case "fix-title":
		if *titleFlag == "" {
			logger.Error("fix-title needs -title")
			os.Exit(1)
		}
		handler.FixTitle(ctx, *titleFlag)

	case "improve-names":
		moved, err := handler.ImprovePageNames(ctx)
		if err != nil {
			logger.Error("improve-names", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("improve-names done", slog.Int("moved", moved))

	case "delete":
		if *prefixFlag == "" {
			logger.Error("delete needs -prefix")
			os.Exit(1)
		}
		dump, err := dumpfile.Load(cfg.Dump.Path)
		if err != nil {
			logger.Error("load dump", slog.String("error", err.Error()))
			os.Exit(1)
		}
		deleted, err := handler.DeletePagesMatching(ctx, dump, *prefixFlag, *reasonFlag)
		if err != nil {
			logger.Error("delete", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("delete done", slog.Int("deleted", deleted))

	case "categories":
		categories, err := client.AllCategories(ctx)
		if err != nil {
			logger.Error("categories", slog.String("error", err.Error()))
			os.Exit(1)
		}
		known := make(map[string]bool, len(dumpfile.ConceptCategories))
		for _, category := range dumpfile.ConceptCategories {
			known[category] = true
		}
		for _, category := range categories {
			if known[category] {
				fmt.Println(category)
			} else {
				fmt.Println(category, "(not a concept category)")
			}
		}

	default:
		logger.Error("unknown action", slog.String("action", *actionFlag))
		os.Exit(1)
	}
}
