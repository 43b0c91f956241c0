package jira

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError is returned when Jira answers with a 4xx or 5xx status.
type APIError struct {
	StatusCode int
	Reason     string // status text, e.g. "Bad Request"
	Body       []byte
}

func (e *APIError) Error() string {
	return e.Message()
}

// Message extracts a human-readable message from the Jira error body.
// It prefers "errorMessages", then the per-field "errors" object, and falls
// back to the status line when the body has neither.
func (e *APIError) Message() string {
	if gjson.ValidBytes(e.Body) {
		var msgs []string
		for _, m := range gjson.GetBytes(e.Body, "errorMessages").Array() {
			if s := strings.TrimSpace(m.String()); s != "" {
				msgs = append(msgs, s)
			}
		}
		if len(msgs) > 0 {
			return "Jira Error: " + strings.Join(msgs, ", ")
		}

		fields := gjson.GetBytes(e.Body, "errors")
		if fields.IsObject() && len(fields.Map()) > 0 {
			return "Jira Field Error: " + fields.Raw
		}
	}

	reason := e.Reason
	if reason == "" {
		reason = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("Jira returned HTTP %d: %s", e.StatusCode, reason)
}

// UnreachableError is returned when no response was received from Jira.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("jira unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// Timeout reports whether the request was abandoned because the timeout elapsed.
func (e *UnreachableError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// reasonPhrase strips the numeric code from a status line like "400 Bad Request".
func reasonPhrase(status string, code int) string {
	prefix := fmt.Sprintf("%d ", code)
	return strings.TrimSpace(strings.TrimPrefix(status, prefix))
}
