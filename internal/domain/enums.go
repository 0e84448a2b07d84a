package domain

// Language is a wiki language code attached to concept infos and
// related expressions.
type Language string

const (
	LanguageSe  Language = "se"
	LanguageSv  Language = "sv"
	LanguageFi  Language = "fi"
	LanguageEn  Language = "en"
	LanguageNb  Language = "nb"
	LanguageNn  Language = "nn"
	LanguageSma Language = "sma"
	LanguageSmj Language = "smj"
	LanguageSmn Language = "smn"
	LanguageSms Language = "sms"
	LanguageLat Language = "lat"
)

func (l Language) String() string { return string(l) }

func (l Language) IsValid() bool {
	switch l {
	case LanguageSe, LanguageSv, LanguageFi, LanguageEn, LanguageNb, LanguageNn,
		LanguageSma, LanguageSmj, LanguageSmn, LanguageSms, LanguageLat:
		return true
	}
	return false
}

// IsSami reports whether the language is one of the Sámi languages.
func (l Language) IsSami() bool {
	switch l {
	case LanguageSe, LanguageSma, LanguageSmj, LanguageSmn, LanguageSms:
		return true
	}
	return false
}

// Languages returns every valid language code, in the order concept
// infos are serialized.
func Languages() []Language {
	return []Language{
		LanguageSe, LanguageSv, LanguageFi, LanguageEn, LanguageNb, LanguageNn,
		LanguageSma, LanguageSmj, LanguageSmn, LanguageSms, LanguageLat,
	}
}

// PartOfSpeech is the grammatical tag of a related expression.
// An empty value means the tag is unknown.
type PartOfSpeech string

const (
	PosNoun         PartOfSpeech = "N"
	PosAdjective    PartOfSpeech = "A"
	PosAdverb       PartOfSpeech = "Adv"
	PosVerb         PartOfSpeech = "V"
	PosPronoun      PartOfSpeech = "Pron"
	PosSubjunction  PartOfSpeech = "CS"
	PosConjunction  PartOfSpeech = "CC"
	PosAdposition   PartOfSpeech = "Adp"
	PosPostposition PartOfSpeech = "Po"
	PosPreposition  PartOfSpeech = "Pr"
	PosInterjection PartOfSpeech = "Interj"
	PosParticle     PartOfSpeech = "Pcle"
	PosNumeral      PartOfSpeech = "Num"
	PosAbbreviation PartOfSpeech = "ABBR"
	// PosMWE tags multi-word expressions. An expression containing a
	// space always carries this tag, whatever else was recorded.
	PosMWE PartOfSpeech = "MWE"
)

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case PosNoun, PosAdjective, PosAdverb, PosVerb, PosPronoun, PosSubjunction,
		PosConjunction, PosAdposition, PosPostposition, PosPreposition,
		PosInterjection, PosParticle, PosNumeral, PosAbbreviation, PosMWE:
		return true
	}
	return false
}

func PartsOfSpeech() []PartOfSpeech {
	return []PartOfSpeech{
		PosNoun, PosAdjective, PosAdverb, PosVerb, PosPronoun, PosSubjunction,
		PosConjunction, PosAdposition, PosPostposition, PosPreposition,
		PosInterjection, PosParticle, PosNumeral, PosAbbreviation, PosMWE,
	}
}

// Status is the editorial status of a related expression.
type Status string

const (
	StatusRecommended Status = "recommended"
	StatusOutOfDate   Status = "out of date"
	StatusAvoid       Status = "avoid"
	StatusRare        Status = "rare"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusRecommended, StatusOutOfDate, StatusAvoid, StatusRare:
		return true
	}
	return false
}

func Statuses() []Status {
	return []Status{StatusRecommended, StatusOutOfDate, StatusAvoid, StatusRare}
}

// Relation is the kind of link from one concept page to another.
type Relation string

const (
	RelationBroader       Relation = "broader concept"
	RelationNarrower      Relation = "narrower concept"
	RelationCoordinate    Relation = "coordinate concept"
	RelationComprehensive Relation = "comprehensive concept"
	RelationPartitive     Relation = "partitive concept"
	RelationPragmatic     Relation = "pragmatic relation"
	RelationCohyponym     Relation = "cohyponym"
	RelationSynonym       Relation = "synonym"
	RelationUnspecified   Relation = "unspecified"
)

func (r Relation) String() string { return string(r) }

func (r Relation) IsValid() bool {
	switch r {
	case RelationBroader, RelationNarrower, RelationCoordinate,
		RelationComprehensive, RelationPartitive, RelationPragmatic,
		RelationCohyponym, RelationSynonym, RelationUnspecified:
		return true
	}
	return false
}

func Relations() []Relation {
	return []Relation{
		RelationBroader, RelationNarrower, RelationCoordinate,
		RelationComprehensive, RelationPartitive, RelationPragmatic,
		RelationCohyponym, RelationSynonym, RelationUnspecified,
	}
}

// Sanctioned values. The wiki stores the flag as a string, not a bool,
// so the domain keeps the string form.
const (
	SanctionedTrue  = "True"
	SanctionedFalse = "False"
)
