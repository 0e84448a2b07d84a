// Package index provides the expression lookup index built over a full
// corpus of concept pages.
package index

import (
	"sort"

	"github.com/giellatekno/termwiki/internal/domain"
)

// Index maps each literal expression string to the pages containing
// it, across all languages — language filtering happens at query time.
// It is built once per run with Build and is immutable afterwards;
// rebuilding after a batch of writes is a single Build call.
type Index struct {
	pages  []*domain.ConceptPage
	byExpr map[string][]*domain.ConceptPage
}

// Build scans every page once and returns the completed index.
// Cost is O(total expressions).
func Build(pages []*domain.ConceptPage) *Index {
	idx := &Index{
		pages:  pages,
		byExpr: make(map[string][]*domain.ConceptPage),
	}
	for _, page := range pages {
		seen := make(map[string]bool, len(page.RelatedExpressions))
		for _, expr := range page.RelatedExpressions {
			if expr.Expression == "" || seen[expr.Expression] {
				continue
			}
			seen[expr.Expression] = true
			idx.byExpr[expr.Expression] = append(idx.byExpr[expr.Expression], page)
		}
	}
	return idx
}

// Pages returns the corpus the index was built over.
func (idx *Index) Pages() []*domain.ConceptPage { return idx.pages }

// Lookup returns every page containing the expression, in any language.
func (idx *Index) Lookup(expression string) []*domain.ConceptPage {
	return idx.byExpr[expression]
}

// LookupLanguage returns the pages containing the expression in the
// given language.
func (idx *Index) LookupLanguage(expression string, lang domain.Language) []*domain.ConceptPage {
	var out []*domain.ConceptPage
	for _, page := range idx.byExpr[expression] {
		for _, expr := range page.RelatedExpressions {
			if expr.Expression == expression && expr.Language == lang {
				out = append(out, page)
				break
			}
		}
	}
	return out
}

// Duplicates returns the expressions appearing on more than one page,
// sorted, as duplicate-merge candidates for editors.
func (idx *Index) Duplicates() []string {
	var out []string
	for expression, pages := range idx.byExpr {
		if len(pages) > 1 {
			out = append(out, expression)
		}
	}
	sort.Strings(out)
	return out
}

// MergeCandidates returns the indexed pages sharing at least one
// expression string with the candidate page, in corpus order. The
// candidate itself is excluded when it is part of the corpus.
func (idx *Index) MergeCandidates(candidate *domain.ConceptPage) []*domain.ConceptPage {
	seen := make(map[*domain.ConceptPage]bool)
	var out []*domain.ConceptPage
	for _, expr := range candidate.RelatedExpressions {
		for _, page := range idx.byExpr[expr.Expression] {
			if page == candidate || seen[page] {
				continue
			}
			seen[page] = true
			out = append(out, page)
		}
	}
	return out
}
