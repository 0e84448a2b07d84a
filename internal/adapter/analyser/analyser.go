// Package analyser shells out to hfst-lookup to ask the morphological
// transducers whether a word is known. Each language ships two
// transducers: the normative one (norm) accepts only approved forms,
// the descriptive one (desc) also accepts forms seen in the corpus.
package analyser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/giellatekno/termwiki/internal/config"
	"github.com/giellatekno/termwiki/internal/domain"
)

// Kind selects which transducer a lookup runs against.
type Kind string

const (
	Normative   Kind = "norm"
	Descriptive Kind = "desc"
)

// flagDiacritics strips the @...@ markers hfst leaves in analyses.
var flagDiacritics = regexp.MustCompile(`@[^@]+@`)

// Analyser runs hfst-lookup against per-language transducer files laid
// out as <fstDir>/<iso 639-3>/analyser-gt-<kind>.hfstol.
type Analyser struct {
	lookupTool string
	fstDir     string
	timeout    time.Duration
	log        *slog.Logger
}

// New creates an Analyser from config.
func New(cfg config.AnalyserConfig, logger *slog.Logger) *Analyser {
	return &Analyser{
		lookupTool: cfg.LookupTool,
		fstDir:     cfg.FstDir,
		timeout:    cfg.Timeout,
		log:        logger.With("adapter", "analyser"),
	}
}

// FstPath returns the transducer file for a language and kind.
func (a *Analyser) FstPath(lang domain.Language, kind Kind) string {
	return filepath.Join(a.fstDir, lang.ISOCode(), fmt.Sprintf("analyser-gt-%s.hfstol", kind))
}

// Lookup returns the analyses of word, flag diacritics stripped.
// An unknown word yields an empty slice and no error.
func (a *Analyser) Lookup(ctx context.Context, lang domain.Language, word string, kind Kind) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.lookupTool, "--quiet", a.FstPath(lang, kind))
	cmd.Stdin = strings.NewReader(word + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("analyser: %s %q (%s): %w: %s",
			lang, word, kind, err, strings.TrimSpace(stderr.String()))
	}
	return ParseLookupOutput(stdout.String()), nil
}

// IsKnown reports whether the normative transducer accepts the word.
// Subprocess failures (missing transducer, missing tool) count as
// unknown; the batch tools must not sanction words they cannot check.
func (a *Analyser) IsKnown(lang domain.Language, word string) bool {
	analyses, err := a.Lookup(context.Background(), lang, word, Normative)
	if err != nil {
		a.log.Warn("lookup failed",
			slog.String("language", string(lang)),
			slog.String("word", word),
			slog.String("error", err.Error()))
		return false
	}
	return len(analyses) > 0
}

// ParseLookupOutput extracts the analyses from hfst-lookup's
// tab-separated output. Lines whose analysis ends in "+?" mean the
// word was rejected and are dropped.
func ParseLookupOutput(output string) []string {
	var analyses []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		analysis := fields[1]
		if strings.HasSuffix(analysis, "+?") {
			continue
		}
		analyses = append(analyses, flagDiacritics.ReplaceAllString(analysis, ""))
	}
	return analyses
}
