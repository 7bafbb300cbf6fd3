package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for bookmark operations
var (
	// ErrServerOffline indicates the bookmark service is unreachable
	ErrServerOffline = errors.New("bookmark service is unreachable")

	// ErrAuthFailed indicates the configured token was rejected
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrNotFound indicates the requested bookmark does not exist
	ErrNotFound = errors.New("bookmark not found")

	// ErrFolderUnavailable indicates the folder lookup did not succeed,
	// so its listing was never requested
	ErrFolderUnavailable = errors.New("folder is not available")

	// ErrRejected indicates the service answered with success=false
	ErrRejected = errors.New("request was rejected by the service")
)

// ProblemDetail is an RFC 7807 error body returned by the bookmark service
type ProblemDetail struct {
	Type     string
	Title    string
	Status   int
	Detail   string
	Instance string
}

// Error implements the error interface
func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s (%d): %s", p.Title, p.Status, p.Detail)
	}
	return fmt.Sprintf("%s (%d)", p.Title, p.Status)
}

// Detail extracts the human-readable detail of an error for notifications.
// Problem details win over the wrapped error chain.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var pd *ProblemDetail
	if errors.As(err, &pd) {
		if pd.Detail != "" {
			return pd.Detail
		}
		if pd.Title != "" {
			return pd.Title
		}
	}
	return err.Error()
}
