// Package engine implements the research orchestration layer.
//
// The Engine sequences one research request through its stages:
//
//	Composing -> [FetchingClarification] -> Researching -> WritingReport
//
// Each stage calls an injected collaborator: a FeedbackGenerator for
// clarification questions, a Researcher for the iterative research run,
// and a ReportWriter for the final markdown. Stages run strictly in order.
// A failure in any stage aborts the request and is returned as an
// orchestration *api.Error carrying the stage and the original cause; there
// are no retries and no partial results.
//
// The Engine holds no per-request state and is safe for concurrent use.
package engine
