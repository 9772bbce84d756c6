package app

type Result struct {
	Verdict  string    `json:"verdict"`
	URL      string    `json:"url"`
	Findings []Finding `json:"findings"`
}

type Finding struct {
	Description string `json:"description"`
}
