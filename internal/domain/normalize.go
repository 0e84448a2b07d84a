package domain

import (
	"strings"
)

// substitution maps a legacy codepoint sequence to its canonical form.
type substitution struct {
	from string
	to   string
}

// charTables holds per-language character substitution tables for
// languages with known legacy transliteration issues. The tables are
// domain data; extend them here, not in control flow.
var charTables = map[Language][]substitution{
	// Skolt Sámi: look-alike quote/accent variants normalized to
	// MODIFIER LETTER APOSTROPHE (U+02BC) and MODIFIER LETTER PRIME (U+02B9).
	LanguageSms: {
		{"’", "ʼ"}, // RIGHT SINGLE QUOTATION MARK
		{"'", "ʼ"}, // APOSTROPHE
		{"′", "ʹ"}, // PRIME
		{"´", "ʹ"}, // ACUTE ACCENT
		{"́", "ʹ"}, // COMBINING ACUTE ACCENT
	},
	// Lule Sámi: n with tilde normalized to n with acute.
	LanguageSmj: {
		{"ñ", "ń"}, // ñ → ń
		{"Ñ", "Ń"}, // Ñ → Ń
	},
}

// SubstituteChars applies the language's character substitution table
// to s. Languages without a table pass through unchanged.
func SubstituteChars(lang Language, s string) string {
	for _, sub := range charTables[lang] {
		s = strings.ReplaceAll(s, sub.from, sub.to)
	}
	return s
}

// NormalizeExpression collapses runs of whitespace into single spaces,
// trims the ends, and applies the language's character substitutions.
func NormalizeExpression(lang Language, expression string) string {
	expression = CollapseWhitespace(expression)
	return SubstituteChars(lang, expression)
}

// CollapseWhitespace compresses all whitespace runs into single spaces
// and trims leading/trailing whitespace.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
