// Package sitehandler holds the batch operations that run against the
// live wiki: normalizing page content in place, cleaning up page names
// and deleting obsolete pages. Per-page failures are logged and the
// batch continues.
package sitehandler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/giellatekno/termwiki/internal/adapter/dumpfile"
	"github.com/giellatekno/termwiki/internal/domain"
	"github.com/giellatekno/termwiki/internal/markup"
)

// Wiki is the site client surface the handler needs; the mediawiki
// adapter satisfies it.
type Wiki interface {
	PageText(ctx context.Context, title string) (string, error)
	SavePage(ctx context.Context, title, content, summary string) error
	DeletePage(ctx context.Context, title, reason string) error
	MovePage(ctx context.Context, from, to, reason string) error
	CategoryMembers(ctx context.Context, category string) ([]string, error)
	RecentChanges(ctx context.Context, n int) ([]string, error)
	PageURL(title string) string
}

// Handler runs batch operations against one wiki.
type Handler struct {
	wiki      Wiki
	saveDelay time.Duration
	log       *slog.Logger
}

// New creates a Handler. saveDelay is the pause between consecutive
// saves, keeping the bot polite on a shared server.
func New(wiki Wiki, saveDelay time.Duration, logger *slog.Logger) *Handler {
	return &Handler{wiki: wiki, saveDelay: saveDelay, log: logger.With("service", "sitehandler")}
}

// FixResult counts what a fixing run did.
type FixResult struct {
	Checked int
	Fixed   int
}

// FixAll normalizes every concept page on the site, category by
// category. Pages already in canonical form are left untouched.
func (h *Handler) FixAll(ctx context.Context) (FixResult, error) {
	var result FixResult
	for _, category := range dumpfile.ConceptCategories {
		titles, err := h.wiki.CategoryMembers(ctx, category)
		if err != nil {
			h.log.ErrorContext(ctx, "category listing failed",
				slog.String("category", category),
				slog.String("error", err.Error()))
			continue
		}
		for _, title := range titles {
			result.Checked++
			if h.FixTitle(ctx, title) {
				result.Fixed++
			}
		}
	}
	return result, ctx.Err()
}

// FixRecent normalizes the concept pages among the n most recently
// changed pages.
func (h *Handler) FixRecent(ctx context.Context, n int) (FixResult, error) {
	titles, err := h.wiki.RecentChanges(ctx, n)
	if err != nil {
		return FixResult{}, fmt.Errorf("sitehandler: recent changes: %w", err)
	}

	var result FixResult
	for _, title := range titles {
		if !dumpfile.IsConceptTitle(title) {
			continue
		}
		result.Checked++
		if h.FixTitle(ctx, title) {
			result.Fixed++
		}
	}
	return result, nil
}

// FixTitle fetches one page, parses and re-renders it, and saves it
// back when the canonical form differs. Reports whether a save
// happened.
func (h *Handler) FixTitle(ctx context.Context, title string) bool {
	text, err := h.wiki.PageText(ctx, title)
	if err != nil {
		h.log.ErrorContext(ctx, "fetch failed",
			slog.String("title", title),
			slog.String("url", h.wiki.PageURL(title)),
			slog.String("error", err.Error()))
		return false
	}
	if !strings.Contains(text, "{{Concept") {
		return false
	}

	page, err := markup.Parse(title, text)
	if err != nil {
		h.log.ErrorContext(ctx, "parse failed",
			slog.String("title", title),
			slog.String("url", h.wiki.PageURL(title)),
			slog.String("error", err.Error()))
		return false
	}

	fixed := markup.Render(page)
	if fixed == text {
		return false
	}

	if err := h.wiki.SavePage(ctx, title, fixed, "Fixing content"); err != nil {
		h.log.ErrorContext(ctx, "save failed",
			slog.String("title", title),
			slog.String("url", h.wiki.PageURL(title)),
			slog.String("error", err.Error()))
		return false
	}
	h.log.InfoContext(ctx, "fixed page", slog.String("title", title))
	h.pause(ctx)
	return true
}

// PublishPages saves concept pages to the wiki in canonical form.
// Orphan pages (no expressions) are skipped, per-page save failures are
// logged and the batch continues. Returns the number of pages saved.
func (h *Handler) PublishPages(ctx context.Context, pages []*domain.ConceptPage, summary string) (int, error) {
	published := 0
	for _, page := range pages {
		if page.IsOrphan() {
			h.log.WarnContext(ctx, "skipping orphan page", slog.String("title", page.Title))
			continue
		}
		if err := h.wiki.SavePage(ctx, page.Title, markup.Render(page), summary); err != nil {
			h.log.ErrorContext(ctx, "save failed",
				slog.String("title", page.Title),
				slog.String("url", h.wiki.PageURL(page.Title)),
				slog.String("error", err.Error()))
			continue
		}
		h.log.InfoContext(ctx, "published page", slog.String("title", page.Title))
		published++
		h.pause(ctx)
	}
	return published, ctx.Err()
}

// DeletePagesMatching deletes every page whose title starts with
// prefix. Candidates come from the dump; the wiki is the authority on
// whether a page still exists.
func (h *Handler) DeletePagesMatching(ctx context.Context, dump *dumpfile.Dump, prefix, reason string) (int, error) {
	deleted := 0
	for _, page := range dump.AllPages() {
		if !strings.HasPrefix(page.Title, prefix) {
			continue
		}
		if err := h.wiki.DeletePage(ctx, page.Title, reason); err != nil {
			h.log.ErrorContext(ctx, "delete failed",
				slog.String("title", page.Title),
				slog.String("error", err.Error()))
			continue
		}
		deleted++
		h.pause(ctx)
	}
	return deleted, ctx.Err()
}

// ImprovePageNames renames concept pages whose titles break the
// downstream search systems: parenthesised qualifiers are dropped and
// Skolt Sámi apostrophe variants are normalized. Renames never leave a
// redirect behind.
func (h *Handler) ImprovePageNames(ctx context.Context) (int, error) {
	moved := 0
	for _, category := range dumpfile.ConceptCategories {
		titles, err := h.wiki.CategoryMembers(ctx, category)
		if err != nil {
			h.log.ErrorContext(ctx, "category listing failed",
				slog.String("category", category),
				slog.String("error", err.Error()))
			continue
		}
		for _, title := range titles {
			improved := h.improveTitle(ctx, title)
			if improved == title {
				continue
			}
			if err := h.wiki.MovePage(ctx, title, improved, "Remove characters that break search from page names"); err != nil {
				h.log.ErrorContext(ctx, "move failed",
					slog.String("from", title),
					slog.String("to", improved),
					slog.String("error", err.Error()))
				continue
			}
			h.log.InfoContext(ctx, "moved page",
				slog.String("from", title), slog.String("to", improved))
			moved++
			h.pause(ctx)
		}
	}
	return moved, ctx.Err()
}

// improveTitle computes the cleaned-up name for a page, probing the
// site for a free name when the paren-stripped one is taken.
func (h *Handler) improveTitle(ctx context.Context, title string) string {
	improved := title
	if strings.Contains(improved, "(") {
		improved = h.uniqueName(ctx, strings.TrimSpace(improved[:strings.Index(improved, "(")]))
	}
	return domain.SubstituteChars(domain.LanguageSms, improved)
}

// uniqueName returns base, or "base 1", "base 2", ... when taken.
func (h *Handler) uniqueName(ctx context.Context, base string) string {
	name := base
	for instance := 1; ; instance++ {
		text, err := h.wiki.PageText(ctx, name)
		if err != nil || text == "" {
			return name
		}
		name = fmt.Sprintf("%s %d", base, instance)
	}
}

func (h *Handler) pause(ctx context.Context) {
	if h.saveDelay <= 0 {
		return
	}
	select {
	case <-time.After(h.saveDelay):
	case <-ctx.Done():
	}
}
