package remote

import "fmt"

// HTTPError carries the status code and URL of a failed remote request so
// callers can report what the remote actually said.
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(statusCode int, url, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		URL:        url,
		Message:    message,
	}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for URL %s: %s", e.StatusCode, e.URL, e.Message)
}
