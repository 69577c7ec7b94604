package api

import "fmt"

// ErrorKind categorizes an Error.
type ErrorKind string

const (
	// KindValidation marks a request that is missing required fields.
	KindValidation ErrorKind = "validation_error"
	// KindOrchestration marks a failure in one of the research stages.
	KindOrchestration ErrorKind = "orchestration_error"
)

// Stage names a step of the research pipeline.
type Stage string

const (
	StageClarification Stage = "clarification"
	StageResearch      Stage = "research"
	StageReport        Stage = "report"
)

// Fixed client-facing messages.
const (
	MissingParametersMessage = "Missing required parameters: initialQuery, breadth, depth"
	ResearchFailedMessage    = "Research process failed"
)

// Error is the tagged error returned by validation and orchestration.
// Message is the fixed human-readable category sent to clients; Cause
// carries the underlying failure whose text is reported as details.
type Error struct {
	Kind    ErrorKind
	Stage   Stage
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Cause != nil && e.Stage != "":
		return fmt.Sprintf("%s: %s stage: %v", e.Kind, e.Stage, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Details returns the message text of the underlying failure, or an empty
// string when there is none.
func (e *Error) Details() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

// NewValidationError creates an Error for a request missing required fields.
// The cause is kept for logging only and never reaches the client.
func NewValidationError(cause error) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: MissingParametersMessage,
		Cause:   cause,
	}
}

// NewOrchestrationError wraps a failure raised while running stage.
func NewOrchestrationError(stage Stage, cause error) *Error {
	return &Error{
		Kind:    KindOrchestration,
		Stage:   stage,
		Message: ResearchFailedMessage,
		Cause:   cause,
	}
}
