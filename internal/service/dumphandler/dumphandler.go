// Package dumphandler holds the batch operations that run against the
// offline XML dump: reports, consistency checks and write-backs. Every
// loop treats a single bad page as recoverable; the page is logged
// with its wiki URL and the batch continues.
package dumphandler

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/giellatekno/termwiki/internal/adapter/dumpfile"
	"github.com/giellatekno/termwiki/internal/domain"
	"github.com/giellatekno/termwiki/internal/index"
	"github.com/giellatekno/termwiki/internal/markup"
	"github.com/giellatekno/termwiki/internal/service/satni"
)

const wikiBaseURL = "https://satni.uit.no/termwiki"

// PageURL returns the dereferenceable URL of a page for log lines.
func PageURL(title string) string {
	return wikiBaseURL + "/index.php?title=" + strings.ReplaceAll(title, " ", "_")
}

// Handler runs batch operations over one loaded dump.
type Handler struct {
	dump *dumpfile.Dump
	log  *slog.Logger
}

// New creates a Handler.
func New(dump *dumpfile.Dump, logger *slog.Logger) *Handler {
	return &Handler{dump: dump, log: logger.With("service", "dumphandler")}
}

// Concepts parses every concept page in the dump. Pages that fail to
// parse are logged with their URL and skipped.
func (h *Handler) Concepts() []*domain.ConceptPage {
	var concepts []*domain.ConceptPage
	for _, page := range h.dump.Pages() {
		text := page.Revision.Text
		if !strings.Contains(text, "{{Concept") {
			continue
		}
		concept, err := markup.Parse(page.Title, text)
		if err != nil {
			h.log.Error("parse failed",
				slog.String("title", page.Title),
				slog.String("url", PageURL(page.Title)),
				slog.String("error", err.Error()))
			continue
		}
		concepts = append(concepts, concept)
	}
	return concepts
}

// SaveConcept renders a concept page back into the dump.
func (h *Handler) SaveConcept(page *domain.ConceptPage) error {
	return h.dump.SetPageText(page.Title, markup.Render(page))
}

// SortDump orders the dump by page title and rewrites it.
func (h *Handler) SortDump() error {
	h.dump.SortByTitle()
	return h.dump.Save()
}

// AutoSanction sanctions every unsanctioned expression of one language
// that the normative transducer accepts, and saves the dump when
// anything changed. Returns the number of changed pages.
func (h *Handler) AutoSanction(oracle domain.Analyser, lang domain.Language) (int, error) {
	changed := 0
	for _, concept := range h.Concepts() {
		if !concept.AutoSanction(oracle, lang) {
			continue
		}
		if err := h.SaveConcept(concept); err != nil {
			return changed, fmt.Errorf("dumphandler: auto-sanction: %w", err)
		}
		h.log.Info("sanctioned expressions", slog.String("title", concept.Title))
		changed++
	}
	if changed > 0 {
		if err := h.dump.Save(); err != nil {
			return changed, fmt.Errorf("dumphandler: auto-sanction: %w", err)
		}
	}
	return changed, nil
}

// TermSum counts sanctioned and unsanctioned terms of one language.
type TermSum struct {
	Sanctioned    int
	NotSanctioned int
}

func (s TermSum) Total() int { return s.Sanctioned + s.NotSanctioned }

// SumTerms counts the dump's terms in one language.
func (h *Handler) SumTerms(lang domain.Language) TermSum {
	var sum TermSum
	for _, concept := range h.Concepts() {
		for _, expr := range concept.RelatedExpressions {
			if expr.Language != lang {
				continue
			}
			if expr.IsSanctioned() {
				sum.Sanctioned++
			} else {
				sum.NotSanctioned++
			}
		}
	}
	return sum
}

// CategoryStats aggregates one thematic category's numbers for one
// language.
type CategoryStats struct {
	Category      string
	Concepts      int
	Expressions   int
	Sanctioned    int
	NotSanctioned int
	Invalid       int
}

// Statistics breaks the dump down per thematic category for one
// language, plus a total row. Categories come back sorted by name.
func (h *Handler) Statistics(lang domain.Language) ([]CategoryStats, CategoryStats) {
	byCategory := make(map[string]*CategoryStats)
	for _, concept := range h.Concepts() {
		var withLang []domain.RelatedExpression
		for _, expr := range concept.RelatedExpressions {
			if expr.Language == lang {
				withLang = append(withLang, expr)
			}
		}
		if len(withLang) == 0 {
			continue
		}

		category := concept.Category()
		stats := byCategory[category]
		if stats == nil {
			stats = &CategoryStats{Category: category}
			byCategory[category] = stats
		}

		stats.Concepts++
		stats.Expressions += len(withLang)
		for _, expr := range withLang {
			if expr.IsSanctioned() {
				stats.Sanctioned++
			} else {
				stats.NotSanctioned++
			}
			if domain.HasInvalidChars(expr.Expression) {
				stats.Invalid++
			}
		}
	}

	categories := make([]CategoryStats, 0, len(byCategory))
	for _, stats := range byCategory {
		categories = append(categories, *stats)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Category < categories[j].Category
	})

	total := CategoryStats{Category: "total"}
	for _, stats := range categories {
		total.Concepts += stats.Concepts
		total.Expressions += stats.Expressions
		total.Sanctioned += stats.Sanctioned
		total.NotSanctioned += stats.NotSanctioned
		total.Invalid += stats.Invalid
	}
	return categories, total
}

// InvalidExpression is a lemma carrying characters that break the
// downstream search systems, with the page it lives on.
type InvalidExpression struct {
	Expression string
	URL        string
}

// InvalidChars lists expressions with invalid characters in one
// language. When onlySanctioned is true, unsanctioned expressions are
// ignored.
func (h *Handler) InvalidChars(lang domain.Language, onlySanctioned bool) []InvalidExpression {
	states := []string{domain.SanctionedTrue}
	if !onlySanctioned {
		states = append(states, domain.SanctionedFalse)
	}

	var out []InvalidExpression
	for _, concept := range h.Concepts() {
		for _, state := range states {
			for _, expression := range concept.InvalidExpressions(lang, state) {
				out = append(out, InvalidExpression{
					Expression: expression,
					URL:        PageURL(concept.Title),
				})
			}
		}
	}
	return out
}

// ExpressionPairs writes tab-separated term pairs for two languages,
// the raw material for bilingual dictionaries. Only concepts with at
// least one sanctioned Sámi term and sanctioned terms on both sides
// contribute. An empty category matches every concept.
func (h *Handler) ExpressionPairs(w io.Writer, lang1, lang2 domain.Language, category string) error {
	for _, concept := range h.Concepts() {
		if category != "" && concept.Category() != category {
			continue
		}
		if !concept.HasSanctionedSami() {
			continue
		}

		first := sanctionedExpressions(concept, lang1)
		second := sanctionedExpressions(concept, lang2)
		if len(first) == 0 || len(second) == 0 {
			continue
		}
		for _, expr := range first {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", expr, strings.Join(second, ", ")); err != nil {
				return fmt.Errorf("dumphandler: expression pairs: %w", err)
			}
		}
	}
	return nil
}

// DuplicateExpressions lists expressions appearing on more than one
// concept page, the raw material for manual merging.
func (h *Handler) DuplicateExpressions() []string {
	return index.Build(h.Concepts()).Duplicates()
}

// DumpToJSON writes the whole dump as the satni export tree.
func (h *Handler) DumpToJSON(w io.Writer) error {
	return satni.WriteJSON(w, satni.FromConceptPages(h.Concepts()))
}

// SearchResult is one matched concept, rendered per language as
// "term, term definition".
type SearchResult map[domain.Language]string

// Search looks up the given words in the expression index and writes a
// TSV table: the search language first, every other matched language
// after it.
func (h *Handler) Search(w io.Writer, searchLang domain.Language, words []string) error {
	idx := index.Build(h.Concepts())

	var results []SearchResult
	for _, word := range normalizeSearches(words) {
		for _, concept := range idx.Lookup(word) {
			result := make(SearchResult)
			for _, lang := range concept.Languages() {
				result[lang] = describeIn(concept, lang)
			}
			results = append(results, result)
		}
	}

	langs := resultLanguages(results, searchLang)
	header := make([]string, len(langs))
	for i, lang := range langs {
		header[i] = string(lang)
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return fmt.Errorf("dumphandler: search: %w", err)
	}

	for _, result := range results {
		row := make([]string, len(langs))
		for i, lang := range langs {
			row[i] = result[lang]
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("dumphandler: search: %w", err)
		}
	}
	return nil
}

func sanctionedExpressions(concept *domain.ConceptPage, lang domain.Language) []string {
	var out []string
	seen := make(map[string]bool)
	for _, expr := range concept.RelatedExpressions {
		if expr.Language == lang && expr.IsSanctioned() && !seen[expr.Expression] {
			seen[expr.Expression] = true
			out = append(out, expr.Expression)
		}
	}
	return out
}

// describeIn renders a concept in one language: its sanctioned terms
// joined with commas, followed by the definition when there is one.
func describeIn(concept *domain.ConceptPage, lang domain.Language) string {
	parts := strings.Join(sanctionedExpressions(concept, lang), ", ")
	if info := concept.ConceptInfoFor(lang); info != nil && info.Definition != "" {
		parts = strings.TrimSpace(parts + " " + info.Definition)
	}
	return parts
}

// normalizeSearches lowercases and splits the raw search arguments and
// strips characters the index never contains.
func normalizeSearches(words []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, raw := range words {
		for _, word := range strings.Fields(strings.ToLower(raw)) {
			word = strings.Map(func(r rune) rune {
				switch r {
				case '(', ')', ':':
					return -1
				}
				return r
			}, word)
			if word != "" && !seen[word] {
				seen[word] = true
				out = append(out, word)
			}
		}
	}
	sort.Strings(out)
	return out
}

func resultLanguages(results []SearchResult, searchLang domain.Language) []domain.Language {
	seen := make(map[domain.Language]bool)
	for _, result := range results {
		for lang := range result {
			if lang != searchLang {
				seen[lang] = true
			}
		}
	}
	others := make([]domain.Language, 0, len(seen))
	for lang := range seen {
		others = append(others, lang)
	}
	sort.Slice(others, func(i, j int) bool { return others[i] < others[j] })
	return append([]domain.Language{searchLang}, others...)
}
