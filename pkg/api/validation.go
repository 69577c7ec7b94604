package api

import "errors"

// ValidateRequest checks that the required fields are present. It returns
// a validation *Error on failure, or nil. Breadth and depth are not range
// checked; the research engine owns their interpretation.
func ValidateRequest(req *ResearchRequest) *Error {
	if req == nil {
		return NewValidationError(errors.New("request body is empty"))
	}
	if req.InitialQuery == "" {
		return NewValidationError(errors.New("initialQuery is required"))
	}
	if req.Breadth == nil {
		return NewValidationError(errors.New("breadth is required"))
	}
	if req.Depth == nil {
		return NewValidationError(errors.New("depth is required"))
	}
	return nil
}
