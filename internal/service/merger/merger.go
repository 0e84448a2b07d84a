// Package merger folds imported concepts into the offline dump. Each
// imported concept either enriches an existing page sharing one of its
// expressions, or becomes a new page. Part-of-speech conflicts block:
// they are resolved by the injected decider or abort the run.
package merger

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/giellatekno/termwiki/internal/adapter/dumpfile"
	"github.com/giellatekno/termwiki/internal/domain"
	"github.com/giellatekno/termwiki/internal/index"
	"github.com/giellatekno/termwiki/internal/markup"
	"github.com/giellatekno/termwiki/internal/merge"
	"github.com/giellatekno/termwiki/internal/service/dumphandler"
	"github.com/giellatekno/termwiki/internal/service/importer"
)

// Stats counts what one merge run did.
type Stats struct {
	Merged int
	Added  int
}

// Merger folds import results into one dump.
type Merger struct {
	dump    *dumpfile.Dump
	handler *dumphandler.Handler
	decide  merge.PosDecider
	log     *slog.Logger
}

// New creates a Merger. A nil decider makes pos conflicts fatal.
func New(dump *dumpfile.Dump, decide merge.PosDecider, logger *slog.Logger) *Merger {
	return &Merger{
		dump:    dump,
		handler: dumphandler.New(dump, logger),
		decide:  decide,
		log:     logger.With("service", "merger"),
	}
}

// Run merges every concept of a result into the dump and saves it.
// The first merge failure aborts the run before anything is written.
// Pages added during the run are not candidates for later concepts.
func (m *Merger) Run(result importer.Result) (Stats, error) {
	concepts := m.handler.Concepts()
	idx := index.Build(concepts)

	var stats Stats
	for _, imported := range result.Concepts {
		candidates := idx.MergeCandidates(imported)
		if len(candidates) == 0 {
			m.dump.AddPage(imported.Title, markup.Render(imported))
			m.log.Info("added new page", slog.String("title", imported.Title))
			stats.Added++
			continue
		}

		if len(candidates) > 1 {
			m.log.Warn("multiple merge candidates, using first",
				slog.String("title", imported.Title),
				slog.Int("candidates", len(candidates)))
		}
		target := candidates[0]

		merged, err := merge.Merge(target, imported, m.decide)
		if err != nil {
			return stats, fmt.Errorf("merger: %q into %q: %w",
				imported.Title, target.Title, err)
		}
		if err := m.handler.SaveConcept(merged); err != nil {
			return stats, fmt.Errorf("merger: save %q: %w", target.Title, err)
		}
		// Later concepts targeting the same page must merge against the
		// enriched state, not the state at the start of the run.
		*target = *merged
		m.log.Info("merged into existing page",
			slog.String("imported", imported.Title),
			slog.String("target", target.Title))
		stats.Merged++
	}

	if err := m.dump.Save(); err != nil {
		return stats, fmt.Errorf("merger: %w", err)
	}
	return stats, nil
}

// TerminalDecider prompts on w and reads the chosen tag from r. It is
// the interactive pos conflict resolver of the merge tool.
func TerminalDecider(r io.Reader, w io.Writer) merge.PosDecider {
	scanner := bufio.NewScanner(r)
	return func(title string, tags []domain.PartOfSpeech) (domain.PartOfSpeech, error) {
		sorted := append([]domain.PartOfSpeech(nil), tags...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		fmt.Fprintf(w, "%s has conflicting pos tags:\n", title)
		for n, tag := range sorted {
			fmt.Fprintf(w, "  %d) %s\n", n+1, tag)
		}
		fmt.Fprint(w, "choose: ")

		for scanner.Scan() {
			choice := strings.TrimSpace(scanner.Text())
			if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(sorted) {
				return sorted[n-1], nil
			}
			for _, tag := range sorted {
				if string(tag) == choice {
					return tag, nil
				}
			}
			fmt.Fprint(w, "choose: ")
		}
		return "", fmt.Errorf("merger: no pos choice for %q: %w", title, domain.ErrConflict)
	}
}
