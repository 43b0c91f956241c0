package server

import (
	"net/http"
	"net/url"
	"strings"
)

// NormalizeRoutePrefix returns "" or "/prefix" from input, accepting raw paths or full URLs.
func NormalizeRoutePrefix(input string) string {
	s := strings.TrimSpace(input)
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil {
			s = u.Path
		}
	}
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		return ""
	}
	return "/" + s
}

// mountUnderPrefix serves h below prefix only; other paths 404.
func mountUnderPrefix(h http.Handler, prefix string) http.Handler {
	if prefix == "" {
		return h
	}
	mux := http.NewServeMux()
	// ServeMux redirects the bare prefix to prefix + "/".
	mux.Handle(prefix+"/", http.StripPrefix(prefix, h))
	return mux
}
