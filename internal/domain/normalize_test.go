package domain

import "testing"

func TestSubstituteChars_Sms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"right single quotation mark", "vuâđđlää’jj", "vuâđđlääʼjj"},
		{"apostrophe", "vuâđđlää'jj", "vuâđđlääʼjj"},
		{"prime", "ääʹrb′vuõtt", "ääʹrbʹvuõtt"},
		{"acute accent", "ääʹrb´vuõtt", "ääʹrbʹvuõtt"},
		{"combining acute accent", "ääʹrb́vuõtt", "ääʹrbʹvuõtt"},
		{"clean string unchanged", "äʼrbbvuõtt", "äʼrbbvuõtt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SubstituteChars(LanguageSms, tt.in); got != tt.want {
				t.Errorf("SubstituteChars(sms, %q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSubstituteChars_Smj(t *testing.T) {
	t.Parallel()

	if got := SubstituteChars(LanguageSmj, "mañát"); got != "mańát" {
		t.Errorf("got %q, want mańát", got)
	}
	if got := SubstituteChars(LanguageSmj, "Ñavvi"); got != "Ńavvi" {
		t.Errorf("got %q, want Ńavvi", got)
	}
}

func TestSubstituteChars_NoTable(t *testing.T) {
	t.Parallel()

	// Languages without a table pass through, apostrophes included.
	in := "l'école"
	if got := SubstituteChars(LanguageNb, in); got != in {
		t.Errorf("got %q, want %q", got, in)
	}
}

func TestNormalizeExpression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lang Language
		in   string
		want string
	}{
		{"collapses inner whitespace", LanguageSe, "guolli  \t dearbmi", "guolli dearbmi"},
		{"trims ends", LanguageSe, "  guolli ", "guolli"},
		{"applies char table after collapsing", LanguageSms, "  ää’rb  vuõtt ", "ääʼrb vuõtt"},
		{"empty stays empty", LanguageSe, "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeExpression(tt.lang, tt.in); got != tt.want {
				t.Errorf("NormalizeExpression(%q, %q) = %q, want %q", tt.lang, tt.in, got, tt.want)
			}
		})
	}
}
