package domain

// The wiki uses short language codes; the analyser toolchain and the
// term database use ISO 639-3.
var wikiToISO = map[Language]string{
	LanguageEn:  "eng",
	LanguageFi:  "fin",
	LanguageSe:  "sme",
	LanguageSv:  "swe",
	LanguageNb:  "nob",
	LanguageNn:  "nno",
	LanguageSma: "sma",
	LanguageSmj: "smj",
	LanguageSmn: "smn",
	LanguageSms: "sms",
	LanguageLat: "lat",
}

var isoToWiki = func() map[string]Language {
	m := make(map[string]Language, len(wikiToISO))
	for wiki, iso := range wikiToISO {
		m[iso] = wiki
	}
	return m
}()

// ISOCode returns the ISO 639-3 code for a wiki language.
func (l Language) ISOCode() string { return wikiToISO[l] }

// LanguageFromISO maps an ISO 639-3 code back to the wiki language.
func LanguageFromISO(iso string) (Language, bool) {
	lang, ok := isoToWiki[iso]
	return lang, ok
}
