package requestclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrRequest matches every failure returned by Client, whatever its kind.
	ErrRequest = errors.New("request failed")

	// ErrEmptyResponseBody matches a successful response that carried no body.
	ErrEmptyResponseBody = errors.New("empty response body")

	// ErrUnsupportedMethod is returned before any exchange for methods other than GET and POST.
	ErrUnsupportedMethod = errors.New("unsupported method")
)

// TransportError reports that no usable response was obtained: DNS, dial, TLS, timeout,
// context cancellation, or a failure while reading the body.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport error: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrRequest }

// RequestFailedError reports a response whose status is outside the 2xx range.
type RequestFailedError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string

	// Body is a truncated copy of the response body, kept for diagnostics.
	Body string
}

func (e *RequestFailedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	if text := statusText(e.Status, e.StatusCode); text != "" {
		b.WriteString(" ")
		b.WriteString(text)
	}
	if e.Body != "" {
		b.WriteString(": ")
		b.WriteString(e.Body)
	}
	return b.String()
}

func (e *RequestFailedError) Is(target error) bool { return target == ErrRequest }

// EmptyResponseBodyError reports a 2xx response without a body.
type EmptyResponseBodyError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *EmptyResponseBodyError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, ErrEmptyResponseBody)
}

func (e *EmptyResponseBodyError) Is(target error) bool {
	return target == ErrRequest || target == ErrEmptyResponseBody
}

// AsRequestFailed extracts a *RequestFailedError from err.
func AsRequestFailed(err error) (*RequestFailedError, bool) {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf, true
	}
	return nil, false
}

// IsStatus reports whether err is a RequestFailedError with the given status code.
func IsStatus(err error, code int) bool {
	rf, ok := AsRequestFailed(err)
	return ok && rf.StatusCode == code
}

// statusText strips the numeric prefix resty keeps in Status ("404 Not Found").
func statusText(status string, code int) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return http.StatusText(code)
	}
	if rest, ok := strings.CutPrefix(status, fmt.Sprintf("%d", code)); ok {
		return strings.TrimSpace(rest)
	}
	return status
}
