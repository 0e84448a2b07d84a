package analyser

import (
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/giellatekno/termwiki/internal/config"
	"github.com/giellatekno/termwiki/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseLookupOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name:   "known word",
			output: "guolli\tguolli+N+Sg+Nom\t0,000000\n\n",
			want:   []string{"guolli+N+Sg+Nom"},
		},
		{
			name:   "unknown word",
			output: "blargh\tblargh+?\tinf\n\n",
			want:   nil,
		},
		{
			name: "multiple analyses",
			output: "goahti\tgoahti+N+Sg+Nom\t0,000000\n" +
				"goahti\tgoahtit+V+Imprt+Du2\t10,000000\n\n",
			want: []string{"goahti+N+Sg+Nom", "goahtit+V+Imprt+Du2"},
		},
		{
			name:   "flag diacritics stripped",
			output: "viessu\tviessu@D.NeedNoun.ON@+N+Sg+Nom\t0,000000\n",
			want:   []string{"viessu+N+Sg+Nom"},
		},
		{
			name:   "empty output",
			output: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseLookupOutput(tt.output)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLookupOutput() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFstPath(t *testing.T) {
	t.Parallel()

	a := New(config.AnalyserConfig{
		LookupTool: "hfst-lookup",
		FstDir:     "/usr/share/giella",
	}, newTestLogger())

	tests := []struct {
		lang domain.Language
		kind Kind
		want string
	}{
		{domain.LanguageSe, Normative, "/usr/share/giella/sme/analyser-gt-norm.hfstol"},
		{domain.LanguageSe, Descriptive, "/usr/share/giella/sme/analyser-gt-desc.hfstol"},
		{domain.LanguageNb, Normative, "/usr/share/giella/nob/analyser-gt-norm.hfstol"},
		{domain.LanguageSms, Normative, "/usr/share/giella/sms/analyser-gt-norm.hfstol"},
	}
	for _, tt := range tests {
		if got := a.FstPath(tt.lang, tt.kind); got != tt.want {
			t.Errorf("FstPath(%s, %s) = %q, want %q", tt.lang, tt.kind, got, tt.want)
		}
	}
}

func TestIsKnown_ToolFailure(t *testing.T) {
	t.Parallel()

	a := New(config.AnalyserConfig{
		LookupTool: "/nonexistent/hfst-lookup",
		FstDir:     t.TempDir(),
		Timeout:    time.Second,
	}, newTestLogger())

	if a.IsKnown(domain.LanguageSe, "guolli") {
		t.Error("a failing lookup tool must never report a word as known")
	}
}
