package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/giellatekno/termwiki/internal/domain"
	"github.com/giellatekno/termwiki/internal/index"
)

const reportSheet = "Sheet1"

// DuplicateReport writes a workbook flagging imported concepts that
// share an expression with a page already in the dump. One row per
// imported concept: its expressions grouped per language, then a
// hyperlinked column per possible duplicate.
func (i *Importer) DuplicateReport(path string, result Result, idx *index.Index) error {
	langs := reportLanguages(result)
	langColumn := make(map[domain.Language]int, len(langs))
	for n, lang := range langs {
		langColumn[lang] = n + 1
	}

	type dupeRow struct {
		page *domain.ConceptPage
		hits []*domain.ConceptPage
	}
	var rows []dupeRow
	flagged := 0
	for _, page := range result.Concepts {
		row := dupeRow{page: page, hits: idx.MergeCandidates(page)}
		if len(row.hits) > 0 {
			flagged++
		}
		rows = append(rows, row)
	}

	f := excelize.NewFile()
	defer f.Close()

	setCell := func(row, col int, value string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(reportSheet, cell, value)
	}

	if err := setCell(1, 1, fmt.Sprintf("Possible duplicate concepts: %d of totally %d",
		flagged, len(rows))); err != nil {
		return fmt.Errorf("importer: duplicate report: %w", err)
	}
	for lang, col := range langColumn {
		if err := setCell(2, col, string(lang)); err != nil {
			return fmt.Errorf("importer: duplicate report: %w", err)
		}
	}

	for n, row := range rows {
		rowNum := n + 3
		for lang, col := range langColumn {
			if err := setCell(rowNum, col, expressionsIn(row.page, lang)); err != nil {
				return fmt.Errorf("importer: duplicate report: %w", err)
			}
		}
		for h, hit := range row.hits {
			col := len(langColumn) + 1 + h
			if err := setCell(2, col, "Possible dupe"); err != nil {
				return fmt.Errorf("importer: duplicate report: %w", err)
			}
			cell, err := excelize.CoordinatesToCellName(col, rowNum)
			if err != nil {
				return fmt.Errorf("importer: duplicate report: %w", err)
			}
			if err := f.SetCellValue(reportSheet, cell, hit.Title); err != nil {
				return fmt.Errorf("importer: duplicate report: %w", err)
			}
			url := "https://satni.uit.no/termwiki/index.php?title=" +
				strings.ReplaceAll(hit.Title, " ", "_")
			if err := f.SetCellHyperLink(reportSheet, cell, url, "External"); err != nil {
				return fmt.Errorf("importer: duplicate report: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("importer: duplicate report: %w", err)
	}
	return nil
}

func reportLanguages(result Result) []domain.Language {
	seen := make(map[domain.Language]bool)
	var langs []domain.Language
	for _, lang := range result.Collection.Languages {
		if !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	// Concepts may carry languages the template never declared.
	var extra []domain.Language
	for _, page := range result.Concepts {
		for _, lang := range page.Languages() {
			if !seen[lang] {
				seen[lang] = true
				extra = append(extra, lang)
			}
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(langs, extra...)
}

func expressionsIn(page *domain.ConceptPage, lang domain.Language) string {
	var out []string
	for _, expr := range page.RelatedExpressions {
		if expr.Language == lang {
			out = append(out, expr.Expression)
		}
	}
	return strings.Join(out, ", ")
}
