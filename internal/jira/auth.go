package jira

import (
	"fmt"
	"net/http"
	"strings"
)

// AuthFunc applies authentication to an outgoing request.
type AuthFunc func(r *http.Request)

// NewBasicAuth returns an AuthFunc using an account email and API token.
func NewBasicAuth(email, token string) AuthFunc {
	email = strings.TrimSpace(email)
	token = strings.TrimSpace(token)
	return func(r *http.Request) {
		r.SetBasicAuth(email, token)
	}
}

// NewBearerAuth returns an AuthFunc using a personal access token.
func NewBearerAuth(token string) AuthFunc {
	token = strings.TrimSpace(token)
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// ResolveAuth returns the appropriate AuthFunc based on provided credentials.
// A bearer token wins over email + API token.
func ResolveAuth(bearerToken, email, token string) (auth AuthFunc, method string, err error) {
	switch {
	case bearerToken != "":
		return NewBearerAuth(bearerToken), "Bearer", nil
	case email != "" && token != "":
		return NewBasicAuth(email, token), "Basic", nil
	default:
		return nil, "", fmt.Errorf("no valid auth method configured: must provide either bearer token or email+token")
	}
}

// ObfuscatedHeader returns the Authorization header auth would set, showing
// only the scheme and the first and last 2 characters of the credential.
// Example: "Basic dZ*********X1".
func ObfuscatedHeader(auth AuthFunc) string {
	if auth == nil {
		return ""
	}
	req, _ := http.NewRequest(http.MethodGet, "https://jira.invalid", nil)
	auth(req)
	return obfuscate(req.Header.Get("Authorization"))
}

func obfuscate(header string) string {
	if header == "" {
		return ""
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok {
		return "[invalid header]"
	}
	token = strings.TrimSpace(token)

	n := len(token)
	if n <= 4 {
		return scheme + " " + strings.Repeat("*", n)
	}
	return scheme + " " + token[:2] + strings.Repeat("*", n-4) + token[n-2:]
}
