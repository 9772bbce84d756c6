package app

// analyzeRequest is the body posted to the analysis service.
type analyzeRequest struct {
	URL string `json:"url"`
}

// errorPayload is what the analysis service replies with on non-2xx.
type errorPayload struct {
	Error string `json:"error"`
}
