package dumphandler

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/giellatekno/termwiki/internal/adapter/analyser"
	"github.com/giellatekno/termwiki/internal/domain"
)

// Lookuper is the transducer oracle the missing-words report runs
// against.
type Lookuper interface {
	Lookup(ctx context.Context, lang domain.Language, word string, kind analyser.Kind) ([]string, error)
}

// strippedChars are removed from each word before it is sent to the
// transducer.
var strippedChars = regexp.MustCompile(`[(),?+*\[\]=;:!]`)

// Missing is one word the normative transducer rejects. Analyses holds
// what the descriptive transducer says about it; an empty list means
// the word is unknown to both.
type Missing struct {
	Word     string
	Analyses []string
	Sources  []string
}

// MissingFromAnalyser finds words in the dump the normative transducer
// does not accept, then asks the descriptive transducer about each of
// them. Multiword expressions are split on whitespace and slash;
// hyphen-initial fragments are skipped.
func (h *Handler) MissingFromAnalyser(ctx context.Context, oracle Lookuper, lang domain.Language, onlySanctioned bool) ([]Missing, error) {
	sources := make(map[string]map[string]bool)
	for _, concept := range h.Concepts() {
		for _, expr := range concept.RelatedExpressions {
			if expr.Language != lang {
				continue
			}
			if onlySanctioned && !expr.IsSanctioned() {
				continue
			}
			for _, word := range splitExpression(expr.Expression) {
				if sources[word] == nil {
					analyses, err := oracle.Lookup(ctx, lang, word, analyser.Normative)
					if err != nil {
						return nil, fmt.Errorf("dumphandler: missing words: %w", err)
					}
					if len(analyses) > 0 {
						continue
					}
					sources[word] = make(map[string]bool)
				}
				sources[word][PageURL(concept.Title)] = true
			}
		}
	}

	missing := make([]Missing, 0, len(sources))
	for word, urls := range sources {
		analyses, err := oracle.Lookup(ctx, lang, word, analyser.Descriptive)
		if err != nil {
			return nil, fmt.Errorf("dumphandler: missing words: %w", err)
		}
		missing = append(missing, Missing{
			Word:     word,
			Analyses: filterAnalyses(analyses),
			Sources:  sortedKeys(urls),
		})
	}

	// Reversed-suffix order groups words sharing a derivation suffix,
	// which is how the lexicon files are maintained.
	sort.Slice(missing, func(i, j int) bool {
		return reverse(missing[i].Word) < reverse(missing[j].Word)
	})
	return missing, nil
}

// WriteMissing prints the report: words the descriptive transducer
// knows first, with their analyses and sources, then lexicon stub
// lines for words unknown to both transducers.
func WriteMissing(w io.Writer, missing []Missing) error {
	for _, m := range missing {
		if len(m.Analyses) == 0 {
			continue
		}
		fmt.Fprintln(w, m.Word)
		for _, analysis := range m.Analyses {
			fmt.Fprintf(w, "%s\t%s\n", m.Word, analysis)
		}
		for _, source := range m.Sources {
			fmt.Fprintf(w, "\t%s\n", source)
		}
		fmt.Fprintln(w)
	}

	for _, m := range missing {
		if len(m.Analyses) > 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s:%s TODO ; !  %s\n",
			m.Word, m.Word, strings.Join(m.Sources, " ")); err != nil {
			return fmt.Errorf("dumphandler: write missing: %w", err)
		}
	}
	return nil
}

// splitExpression breaks a lemma into the words the transducer can
// judge one at a time.
func splitExpression(expression string) []string {
	var words []string
	for _, field := range strings.Fields(expression) {
		for _, word := range strings.Split(field, "/") {
			word = strippedChars.ReplaceAllString(word, "")
			if word == "" || strings.HasPrefix(word, "-") || strings.HasPrefix(word, "‑") {
				continue
			}
			words = append(words, word)
		}
	}
	return words
}

// filterAnalyses narrows descriptive analyses the way a lexicographer
// reads them: drop compound analyses when a lexicalised one exists,
// and keep nominative readings when any analysis ends in +Nom.
func filterAnalyses(analyses []string) []string {
	if anyAnalysis(analyses, func(a string) bool { return !strings.Contains(a, "+Cmp#") }) {
		analyses = keepAnalyses(analyses, func(a string) bool { return !strings.Contains(a, "+Cmp#") })
	}
	if anyAnalysis(analyses, func(a string) bool { return strings.HasSuffix(a, "+Nom") }) {
		analyses = keepAnalyses(analyses, func(a string) bool { return strings.HasSuffix(a, "+Nom") })
	}
	return analyses
}

func anyAnalysis(analyses []string, keep func(string) bool) bool {
	for _, a := range analyses {
		if keep(a) {
			return true
		}
	}
	return false
}

func keepAnalyses(analyses []string, keep func(string) bool) []string {
	var out []string
	for _, a := range analyses {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
