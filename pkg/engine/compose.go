package engine

import "strings"

const (
	initialQueryLabel = "Initial Query: "
	followUpHeader    = "\nFollow-up Questions and Answers:\n"

	// NoAnswerPlaceholder stands in for an answer the client did not supply
	// at a question's position.
	NoAnswerPlaceholder = "No Answer Provided"
)

// ComposeQuery returns the labelled initial query used when no
// clarification took place.
func ComposeQuery(initialQuery string) string {
	return initialQueryLabel + initialQuery
}

// ComposeClarifiedQuery appends the clarification exchange to the labelled
// initial query. Each question is paired with the answer at the same index;
// a missing or empty answer becomes NoAnswerPlaceholder. Answers beyond the
// last question are ignored. The header is emitted even when questions is
// empty.
func ComposeClarifiedQuery(initialQuery string, questions, answers []string) string {
	pairs := make([]string, len(questions))
	for i, q := range questions {
		a := NoAnswerPlaceholder
		if i < len(answers) && answers[i] != "" {
			a = answers[i]
		}
		pairs[i] = "Q: " + q + "\nA: " + a
	}
	return ComposeQuery(initialQuery) + followUpHeader + strings.Join(pairs, "\n")
}
