package explain

import (
	"errors"
	"fmt"

	"explainer/internal/core"
	"explainer/internal/fetch"
)

// Status tags a Result as a success or a failure.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Reason classifies a failed Result.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonGenerationFailed Reason = "generation_failed"
	ReasonTopicNotFound    Reason = "topic_not_found"
	ReasonFetchFailed      Reason = "fetch_failed"
	ReasonMissingConfig    Reason = "missing_config"
)

// Result is the outcome of one explanation request. Callers branch on
// Status, never on the text.
type Result struct {
	Status      Status                    `json:"status"`
	Reason      Reason                    `json:"reason,omitempty"`
	Explanation core.GeneratedExplanation `json:"explanation"`
	Err         error                     `json:"-"`
}

// OK reports whether the explanation was generated.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Display returns the explanation text, or the user-facing message for a failure.
func (r Result) Display() string {
	if r.OK() {
		return r.Explanation.Text
	}

	switch r.Reason {
	case ReasonTopicNotFound:
		return fetch.NotFoundMessage
	case ReasonFetchFailed:
		return fmt.Sprintf("Error fetching topic: %v", r.Err)
	case ReasonMissingConfig:
		return fmt.Sprintf("Configuration error: %v", r.Err)
	default:
		return fmt.Sprintf("Error generating explanation: %v", r.Err)
	}
}

// ErrorMessage returns the error text for JSON responses, empty on success.
func (r Result) ErrorMessage() string {
	if r.OK() || r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func succeeded(explanation core.GeneratedExplanation) Result {
	return Result{Status: StatusOK, Explanation: explanation}
}

// Failed builds a failed Result.
func Failed(reason Reason, err error) Result {
	if err == nil {
		err = errors.New(string(reason))
	}
	return Result{Status: StatusFailed, Reason: reason, Err: err}
}

// MissingConfig is the Result for a request that could not reach a backend
// because required configuration is absent.
func MissingConfig(err error) Result {
	return Failed(ReasonMissingConfig, err)
}
