package utils

import (
	"net/url"
	"strings"
)

// IsValidURL an absolute http(s) url with a host
func IsValidURL(str string) bool {
	u, err := url.Parse(str)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Host != ""
}

// JoinURL base origin without trailing slash plus path with exactly one
// leading slash
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Resolve resolves ref against base, absolute refs are returned as they are
func Resolve(base, ref string) string {
	if base == "" || IsValidURL(ref) {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
