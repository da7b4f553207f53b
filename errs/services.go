package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Third-Party & Infrastructure Errors
var (
	ErrStorageFailure     = errors.New("file storage failure")
	ErrNotificationFailed = errors.New("notification failed")
	ErrConfigMissing      = errors.New("configuration missing")
)

// Data Consistency & Integrity Errors
var (
	ErrPartialFailure = errors.New("partial failure")
)

// ItemError describes one failed item of a batch (an import row or a bulk-action id).
type ItemError struct {
	Row    int    `json:"row,omitempty"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"error"`
}

// PartialFailure reports a batch where some items succeeded and some did not.
type PartialFailure struct {
	Operation string
	Succeeded int
	Errors    []ItemError
}

func (p *PartialFailure) Error() string {
	reasons := make([]string, 0, len(p.Errors))
	for _, itemErr := range p.Errors {
		switch {
		case itemErr.Row > 0:
			reasons = append(reasons, fmt.Sprintf("row %d: %s", itemErr.Row, itemErr.Reason))
		case itemErr.ID != "":
			reasons = append(reasons, fmt.Sprintf("%s: %s", itemErr.ID, itemErr.Reason))
		default:
			reasons = append(reasons, itemErr.Reason)
		}
	}
	return fmt.Sprintf("%s: %d succeeded, %d failed (%s)", p.Operation, p.Succeeded, len(p.Errors), strings.Join(reasons, "; "))
}

func (p *PartialFailure) Unwrap() error {
	return ErrPartialFailure
}

// NewPartialFailure returns nil when there is nothing to report.
func NewPartialFailure(operation string, succeeded int, itemErrors []ItemError) error {
	if len(itemErrors) == 0 {
		return nil
	}
	return &PartialFailure{Operation: operation, Succeeded: succeeded, Errors: itemErrors}
}

func NewStorageError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrStorageFailure,
		Details:    fmt.Sprintf("Failed to %s", operation),
		Cause:      cause,
	}
}

func NewNotificationError(channel string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrNotificationFailed,
		Details:    fmt.Sprintf("Failed to deliver %s", channel),
		Cause:      cause,
	}
}

func NewConfigMissingError(key string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("%s is not configured", key),
		Field:      key,
	}
}

func IsPartialFailure(err error) bool {
	return errors.Is(err, ErrPartialFailure)
}

