package domain

// The satni export tree: one concept per wiki page, grouped per
// language, sanctioned terms only. Languages here are ISO 639-3.
// The JSON tags mirror the downstream search system's schema.

// SatniLemma is the dictionary form of a term.
type SatniLemma struct {
	Pos     string `json:"pos,omitempty"`
	Lemma   string `json:"lemma"`
	Country string `json:"country,omitempty"`
	Dialect string `json:"dialect,omitempty"`
}

// SatniTerm is one sanctioned expression of a concept.
type SatniTerm struct {
	Status     string     `json:"status,omitempty"`
	Sanctioned bool       `json:"sanctioned"`
	Note       string     `json:"note,omitempty"`
	Source     string     `json:"source,omitempty"`
	Expression SatniLemma `json:"expression"`
}

// SatniLanguageConcept groups a concept's terms and description in one
// language.
type SatniLanguageConcept struct {
	Language    string      `json:"language"`
	Definition  string      `json:"definition,omitempty"`
	Explanation string      `json:"explanation,omitempty"`
	Terms       []SatniTerm `json:"terms"`
}

// SatniConcept is the export form of one wiki page.
type SatniConcept struct {
	Name        string                 `json:"name"`
	Collections []string               `json:"collections,omitempty"`
	Concepts    []SatniLanguageConcept `json:"concepts"`
}
