package api

import (
	"regexp"
	"strings"
)

// DefaultBase is used when the configured base is empty.
const DefaultBase = "/api"

var (
	absoluteURL = regexp.MustCompile(`(?i)^https?://`)
	multiSlash  = regexp.MustCompile(`/{2,}`)
	// Runs of the literal substring /api, segment or not.
	repeatedAPI  = regexp.MustCompile(`(?:/api){2,}`)
	trailingAPIs = regexp.MustCompile(`(?:/api)+$`)
)

// NormalizeBase trims whitespace and trailing slashes from raw and collapses
// a trailing run of /api segments into one. Empty input yields DefaultBase.
func NormalizeBase(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return DefaultBase
	}
	return trailingAPIs.ReplaceAllString(base, "/api")
}

// ResolveURL joins path onto base. Absolute http(s) paths are returned
// untouched. Relative paths get a single leading slash, collapsed slashes
// and any leading /api segments removed, so the result never repeats /api
// no matter how the caller spelled it.
func ResolveURL(base, path string) string {
	if absoluteURL.MatchString(path) {
		return path
	}
	p, rest := cleanPath(path)
	joined := repeatedAPI.ReplaceAllString(NormalizeBase(base)+p, "/api")
	return joined + rest
}

// cleanPath normalizes the path part of a relative URL and returns it
// separately from the untouched query and fragment.
func cleanPath(path string) (string, string) {
	p, rest := path, ""
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		p, rest = path[:i], path[i:]
	}

	p = multiSlash.ReplaceAllString("/"+p, "/")
	for hasAPISegment(p) {
		p = p[len("/api"):]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p, rest
}

func hasAPISegment(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}
