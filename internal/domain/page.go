package domain

import (
	"regexp"
	"sort"
	"strings"
)

// ConceptPage is the unit of storage: one wiki page describing a
// terminological concept.
//
// The JSON form mirrors this schema one-to-one; it is the interchange
// format between the import and merge tools.
type ConceptPage struct {
	Title              string              `json:"title"`
	Concept            *Concept            `json:"concept,omitempty"`
	ConceptInfos       []ConceptInfo       `json:"concept_infos,omitempty"`
	RelatedExpressions []RelatedExpression `json:"related_expressions,omitempty"`
	RelatedConcepts    []RelatedConcept    `json:"related_concepts,omitempty"`
}

// Concept is the per-page metadata block. Collection is a set of
// collection names; nil means the field was never asserted, which is
// distinct from an asserted-empty set.
type Concept struct {
	Collection   []string `json:"collection,omitempty"`
	Category     string   `json:"category,omitempty"`
	MainCategory string   `json:"main_category,omitempty"`
	Sources      string   `json:"sources,omitempty"`
	PageID       string   `json:"page_id,omitempty"`
}

// ConceptInfo is the per-language descriptive bundle. Well-formed pages
// carry at most one per language.
type ConceptInfo struct {
	Language    Language `json:"language"`
	Definition  string   `json:"definition,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	MoreInfo    string   `json:"more_info,omitempty"`
}

// RelatedExpression is one term in one language. Sanctioned is the
// wiki's boolean-as-string flag ("True"/"False", default "False").
type RelatedExpression struct {
	Language   Language     `json:"language"`
	Expression string       `json:"expression"`
	Pos        PartOfSpeech `json:"pos,omitempty"`
	Status     Status       `json:"status,omitempty"`
	Note       string       `json:"note,omitempty"`
	Source     string       `json:"source,omitempty"`
	Inflection string       `json:"inflection,omitempty"`
	Country    string       `json:"country,omitempty"`
	Dialect    string       `json:"dialect,omitempty"`
	Sanctioned string       `json:"sanctioned"`
}

// ExpressionKey identifies an expression for matching purposes.
// Two records with the same key describe the same term.
type ExpressionKey struct {
	Expression string
	Language   Language
}

func (r RelatedExpression) Key() ExpressionKey {
	return ExpressionKey{Expression: r.Expression, Language: r.Language}
}

// IsSanctioned reports whether the expression is editorially approved.
func (r RelatedExpression) IsSanctioned() bool {
	return r.Sanctioned == SanctionedTrue
}

// RelatedConcept is a non-owning reference to another concept page.
// The target may dangle; resolution is not guaranteed at parse time.
type RelatedConcept struct {
	Concept  string   `json:"concept"`
	Relation Relation `json:"relation,omitempty"`
}

// Analyser is the morphological analyser oracle: it reports whether a
// word is known to the language's normative lexicon.
type Analyser interface {
	IsKnown(lang Language, word string) bool
}

// invalidChars matches characters that break downstream search systems
// when they appear in a lemma.
var invalidChars = regexp.MustCompile(`[()[\]?:;+*=]`)

// HasInvalidChars reports whether a lemma contains characters that
// break downstream search systems.
func HasInvalidChars(expression string) bool {
	return invalidChars.MatchString(expression)
}

// Category returns the thematic category of the page, the part of the
// title before the first colon.
func (p *ConceptPage) Category() string {
	colon := strings.Index(p.Title, ":")
	if colon < 0 {
		return ""
	}
	return p.Title[:colon]
}

// IsOrphan reports whether the page has no related expressions. Orphan
// pages are incomplete and skipped by write-back loops.
func (p *ConceptPage) IsOrphan() bool {
	return len(p.RelatedExpressions) == 0
}

// Languages returns the sorted set of languages appearing in the
// page's concept infos and related expressions.
func (p *ConceptPage) Languages() []Language {
	seen := make(map[Language]bool)
	for _, info := range p.ConceptInfos {
		if info.Language != "" {
			seen[info.Language] = true
		}
	}
	for _, expr := range p.RelatedExpressions {
		if expr.Language != "" {
			seen[expr.Language] = true
		}
	}
	langs := make([]Language, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// ConceptInfoFor returns the concept info for the given language, or
// nil if the page has none.
func (p *ConceptPage) ConceptInfoFor(lang Language) *ConceptInfo {
	for i := range p.ConceptInfos {
		if p.ConceptInfos[i].Language == lang {
			return &p.ConceptInfos[i]
		}
	}
	return nil
}

// HasSanctionedSami reports whether any Sámi expression on the page is
// sanctioned.
func (p *ConceptPage) HasSanctionedSami() bool {
	for _, expr := range p.RelatedExpressions {
		if expr.Language.IsSami() && expr.IsSanctioned() {
			return true
		}
	}
	return false
}

// InvalidExpressions returns expressions in the given language and
// sanction state that contain characters breaking downstream search.
func (p *ConceptPage) InvalidExpressions(lang Language, sanctioned string) []string {
	var out []string
	for _, expr := range p.RelatedExpressions {
		if expr.Language == lang && expr.Sanctioned == sanctioned &&
			invalidChars.MatchString(expr.Expression) {
			out = append(out, expr.Expression)
		}
	}
	return out
}

// AutoSanction marks unsanctioned expressions in the given language as
// sanctioned when the analyser knows the word. Reports whether any
// expression changed.
func (p *ConceptPage) AutoSanction(analyser Analyser, lang Language) bool {
	changed := false
	for i := range p.RelatedExpressions {
		expr := &p.RelatedExpressions[i]
		if expr.Language != lang || expr.IsSanctioned() {
			continue
		}
		if analyser.IsKnown(lang, expr.Expression) {
			expr.Sanctioned = SanctionedTrue
			changed = true
		}
	}
	return changed
}

// Clone returns a deep copy of the page.
func (p *ConceptPage) Clone() *ConceptPage {
	out := &ConceptPage{Title: p.Title}
	if p.Concept != nil {
		c := *p.Concept
		if p.Concept.Collection != nil {
			c.Collection = append([]string(nil), p.Concept.Collection...)
		}
		out.Concept = &c
	}
	if p.ConceptInfos != nil {
		out.ConceptInfos = append([]ConceptInfo(nil), p.ConceptInfos...)
	}
	if p.RelatedExpressions != nil {
		out.RelatedExpressions = append([]RelatedExpression(nil), p.RelatedExpressions...)
	}
	if p.RelatedConcepts != nil {
		out.RelatedConcepts = append([]RelatedConcept(nil), p.RelatedConcepts...)
	}
	return out
}
