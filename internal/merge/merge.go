// Package merge combines a freshly imported concept page with the
// existing wiki record describing the same concept.
package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/giellatekno/termwiki/internal/domain"
	"github.com/giellatekno/termwiki/internal/markup"
)

// PosDecider resolves a part-of-speech conflict: more than one distinct
// tag was seen across the two pages and someone has to pick. Production
// code wires a terminal prompt; tests supply a deterministic function.
type PosDecider func(title string, tags []domain.PartOfSpeech) (domain.PartOfSpeech, error)

// Merge combines an imported page into a dump page. The dump side is
// authoritative for identity: the result keeps the dump's title and
// exactly the dump's set of (expression, language) pairs, enriched from
// the import side. Import expressions with no dump counterpart are
// dropped, never added — the merge is dump-anchored by design.
//
// Sanctioning is monotonic: once either side says "True" the merged
// expression stays "True". A part-of-speech conflict with a nil decide
// fails with a PosConflictError instead of guessing.
//
// Neither input is mutated. The result is re-validated and re-cleaned
// before it is returned.
func Merge(dump, imported *domain.ConceptPage, decide PosDecider) (*domain.ConceptPage, error) {
	result := dump.Clone()

	mergeCollections(result, imported)
	mergeConceptInfos(result, imported)

	chosen, err := reconcilePos(dump, imported, decide)
	if err != nil {
		return nil, err
	}

	mergeExpressions(result, imported)

	if chosen != "" {
		for i := range result.RelatedExpressions {
			if result.RelatedExpressions[i].Pos != domain.PosMWE {
				result.RelatedExpressions[i].Pos = chosen
			}
		}
	}

	markup.Clean(result)
	if err := markup.Validate(result); err != nil {
		return nil, fmt.Errorf("merge %q: %w", dump.Title, err)
	}
	return result, nil
}

// mergeCollections unions the two collection sets. The union is
// nil-safe: a nil side contributes nothing, and when both sides are nil
// the result stays nil — "never asserted" is not the same as "asserted
// empty".
func mergeCollections(result *domain.ConceptPage, imported *domain.ConceptPage) {
	var dumpColl, importColl []string
	if result.Concept != nil {
		dumpColl = result.Concept.Collection
	}
	if imported.Concept != nil {
		importColl = imported.Concept.Collection
	}
	if dumpColl == nil && importColl == nil {
		return
	}

	seen := make(map[string]bool)
	union := []string{}
	for _, name := range append(append([]string(nil), dumpColl...), importColl...) {
		if !seen[name] {
			seen[name] = true
			union = append(union, name)
		}
	}
	sort.Strings(union)

	if result.Concept == nil {
		result.Concept = &domain.Concept{}
	}
	result.Concept.Collection = union
}

// mergeConceptInfos coalesces concept infos by language. For languages
// on both sides a non-empty import field wins and an empty one is
// backfilled from the dump; dump-only infos pass through; import-only
// infos are appended.
func mergeConceptInfos(result *domain.ConceptPage, imported *domain.ConceptPage) {
	if len(imported.ConceptInfos) == 0 {
		return
	}
	if len(result.ConceptInfos) == 0 {
		result.ConceptInfos = append([]domain.ConceptInfo(nil), imported.ConceptInfos...)
		return
	}

	byLang := make(map[domain.Language]domain.ConceptInfo, len(imported.ConceptInfos))
	for _, info := range imported.ConceptInfos {
		byLang[info.Language] = info
	}

	for i := range result.ConceptInfos {
		dumpInfo := &result.ConceptInfos[i]
		importInfo, ok := byLang[dumpInfo.Language]
		if !ok {
			continue
		}
		delete(byLang, dumpInfo.Language)
		dumpInfo.Definition = pick(importInfo.Definition, dumpInfo.Definition)
		dumpInfo.Explanation = pick(importInfo.Explanation, dumpInfo.Explanation)
		dumpInfo.MoreInfo = pick(importInfo.MoreInfo, dumpInfo.MoreInfo)
	}

	// Append import-only languages in their original order.
	for _, info := range imported.ConceptInfos {
		if _, left := byLang[info.Language]; left {
			result.ConceptInfos = append(result.ConceptInfos, info)
			delete(byLang, info.Language)
		}
	}
}

// reconcilePos collects the distinct non-MWE tags across both sides.
// One distinct tag wins outright; more than one is a genuine conflict
// that needs the decider.
func reconcilePos(dump, imported *domain.ConceptPage, decide PosDecider) (domain.PartOfSpeech, error) {
	seen := make(map[domain.PartOfSpeech]bool)
	var tags []domain.PartOfSpeech
	for _, page := range []*domain.ConceptPage{dump, imported} {
		for _, expr := range page.RelatedExpressions {
			if expr.Pos == "" || expr.Pos == domain.PosMWE || seen[expr.Pos] {
				continue
			}
			seen[expr.Pos] = true
			tags = append(tags, expr.Pos)
		}
	}

	switch len(tags) {
	case 0:
		return "", nil
	case 1:
		return tags[0], nil
	}

	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	if decide == nil {
		return "", &domain.PosConflictError{Title: dump.Title, Tags: tags}
	}
	chosen, err := decide(dump.Title, tags)
	if err != nil {
		return "", fmt.Errorf("pos decision for %q: %w", dump.Title, err)
	}
	if !chosen.IsValid() {
		return "", domain.NewEnumError("pos", chosen.String(), domain.PartsOfSpeech())
	}
	return chosen, nil
}

// mergeExpressions enriches the dump-side expressions from matching
// import-side records. Matching is on (expression, language).
func mergeExpressions(result *domain.ConceptPage, imported *domain.ConceptPage) {
	if len(imported.RelatedExpressions) == 0 {
		return
	}

	byKey := make(map[domain.ExpressionKey]domain.RelatedExpression, len(imported.RelatedExpressions))
	for _, expr := range imported.RelatedExpressions {
		byKey[expr.Key()] = expr
	}

	for i := range result.RelatedExpressions {
		dumpExpr := &result.RelatedExpressions[i]
		importExpr, ok := byKey[dumpExpr.Key()]
		if !ok {
			continue
		}

		if importExpr.IsSanctioned() || dumpExpr.IsSanctioned() {
			dumpExpr.Sanctioned = domain.SanctionedTrue
		}
		dumpExpr.Pos = domain.PartOfSpeech(pick(importExpr.Pos.String(), dumpExpr.Pos.String()))
		dumpExpr.Status = domain.Status(pick(importExpr.Status.String(), dumpExpr.Status.String()))
		dumpExpr.Note = pick(importExpr.Note, dumpExpr.Note)
		dumpExpr.Source = pick(importExpr.Source, dumpExpr.Source)
		dumpExpr.Inflection = pick(importExpr.Inflection, dumpExpr.Inflection)
		dumpExpr.Country = pick(importExpr.Country, dumpExpr.Country)
		dumpExpr.Dialect = pick(importExpr.Dialect, dumpExpr.Dialect)
	}
}

// pick returns the first value unless it is empty.
func pick(first, second string) string {
	if strings.TrimSpace(first) != "" {
		return first
	}
	return second
}
