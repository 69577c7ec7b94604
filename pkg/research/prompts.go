package research

import (
	"fmt"
	"strings"
	"time"

	"github.com/rhuss/recherche/pkg/search"
)

// learningsPerQuery caps the learnings extracted from one SERP result.
const learningsPerQuery = 3

func systemPrompt(now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert researcher. Today is %s.\n", now.Format("January 2, 2006"))
	b.WriteString("- The user is a highly experienced analyst. Be detailed and accurate.\n")
	b.WriteString("- You may be asked about topics after your knowledge cutoff. Trust the provided sources over prior beliefs.\n")
	b.WriteString("- Be proactive and anticipate needs. Suggest approaches the user did not think of.\n")
	b.WriteString("- Flag speculation clearly. Value good arguments over authorities.\n")
	b.WriteString("- Always answer with a single JSON object and nothing else.")
	return b.String()
}

func buildFeedbackPrompt(query string, maxQuestions int) string {
	var b strings.Builder
	b.WriteString("Given the following query from the user, ask follow-up questions that clarify the research direction. ")
	fmt.Fprintf(&b, "Return at most %d questions; return fewer if the query is already clear.\n\n", maxQuestions)
	b.WriteString("<query>")
	b.WriteString(query)
	b.WriteString("</query>\n\n")
	b.WriteString(`Respond as {"questions": ["..."]}.`)
	return b.String()
}

func buildSerpQueriesPrompt(query string, numQueries int, learnings []string) string {
	var b strings.Builder
	b.WriteString("Given the following prompt from the user, generate a list of web search queries to research the topic. ")
	fmt.Fprintf(&b, "Return at most %d queries; return fewer if the prompt is clear. Every query must be unique and not similar to the others.\n\n", numQueries)
	b.WriteString("<prompt>")
	b.WriteString(query)
	b.WriteString("</prompt>\n")
	if len(learnings) > 0 {
		b.WriteString("\nHere are learnings from previous research. Use them to generate more specific queries:\n")
		b.WriteString(strings.Join(learnings, "\n"))
		b.WriteString("\n")
	}
	b.WriteString("\nFor each query also give the research goal: what it should accomplish and how research should continue once results are in.\n")
	b.WriteString(`Respond as {"queries": [{"query": "...", "researchGoal": "..."}]}.`)
	return b.String()
}

func buildLearningsPrompt(query string, results []search.Result, numFollowUp int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Given the following contents from a web search for the query <query>%s</query>, extract learnings from the contents. ", query)
	fmt.Fprintf(&b, "Return at most %d learnings; return fewer if the contents are clear. ", learningsPerQuery)
	b.WriteString("Each learning must be unique, concise and information dense. Include entities such as people, places, companies and products, and exact metrics, numbers or dates. ")
	fmt.Fprintf(&b, "Also return at most %d follow-up questions that would deepen the research.\n\n", numFollowUp)
	b.WriteString("<contents>\n")
	for _, r := range results {
		fmt.Fprintf(&b, "<content url=%q title=%q>\n%s\n</content>\n", r.URL, r.Title, r.Snippet)
	}
	b.WriteString("</contents>\n\n")
	b.WriteString(`Respond as {"learnings": ["..."], "followUpQuestions": ["..."]}.`)
	return b.String()
}

func buildReportPrompt(prompt, learnings string) string {
	var b strings.Builder
	b.WriteString("Given the following prompt from the user, write a final report on the topic using the learnings from research. ")
	b.WriteString("Make it as detailed as possible, aim for 3 or more pages, and include ALL the learnings.\n\n")
	b.WriteString("<prompt>")
	b.WriteString(prompt)
	b.WriteString("</prompt>\n\n")
	b.WriteString("Here are all the learnings from previous research:\n\n<learnings>\n")
	b.WriteString(learnings)
	b.WriteString("\n</learnings>\n\n")
	b.WriteString(`Respond as {"reportMarkdown": "..."} with the report in Markdown.`)
	return b.String()
}

// formatLearnings wraps each learning in tags and cuts the block to maxChars
// runes.
func formatLearnings(learnings []string, maxChars int) string {
	parts := make([]string, len(learnings))
	for i, l := range learnings {
		parts[i] = "<learning>\n" + l + "\n</learning>"
	}
	return trimRunes(strings.Join(parts, "\n"), maxChars)
}

func trimRunes(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars])
}
