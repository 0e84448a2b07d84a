package mediawiki

// Wire types for the subset of the MediaWiki API this tooling uses.

type errorResponse struct {
	Error struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

type tokenResponse struct {
	Query struct {
		Tokens map[string]string `json:"tokens"`
	} `json:"query"`
}

type loginResponse struct {
	Login struct {
		Result string `json:"result"`
	} `json:"login"`
}

type editResponse struct {
	Edit struct {
		Result string `json:"result"`
	} `json:"edit"`
}

type queryResponse struct {
	Continue struct {
		CmContinue string `json:"cmcontinue"`
		AcContinue string `json:"accontinue"`
	} `json:"continue"`
	Query struct {
		Pages []struct {
			Title     string `json:"title"`
			Missing   bool   `json:"missing"`
			Revisions []struct {
				Content string `json:"content"`
			} `json:"revisions"`
		} `json:"pages"`
		CategoryMembers []struct {
			Title string `json:"title"`
		} `json:"categorymembers"`
		RecentChanges []struct {
			Title string `json:"title"`
		} `json:"recentchanges"`
		AllCategories []struct {
			Category string `json:"category"`
		} `json:"allcategories"`
	} `json:"query"`
}
