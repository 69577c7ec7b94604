package api

// ResearchRequest is the body of POST /research.
//
// Breadth and Depth are pointers so that an omitted field can be told apart
// from an explicit zero. FollowUpAnswers is nil when the field is absent or
// null, and a non-nil (possibly empty) slice when the client sent an array.
type ResearchRequest struct {
	InitialQuery    string   `json:"initialQuery"`
	Breadth         *int     `json:"breadth"`
	Depth           *int     `json:"depth"`
	FollowUpAnswers []string `json:"followUpAnswers,omitempty"`
}

// HasFollowUpAnswers reports whether the client asked for clarification
// enrichment. An empty array still counts.
func (r *ResearchRequest) HasFollowUpAnswers() bool {
	return r.FollowUpAnswers != nil
}

// ResearchResult is the successful outcome of a research request.
type ResearchResult struct {
	ReportMarkdown string   `json:"reportMarkdown"`
	Learnings      []string `json:"learnings"`
	VisitedURLs    []string `json:"visitedUrls"`
}

// MessageResponse is the body of the liveness route.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the JSON error envelope. Details is only populated for
// orchestration failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
