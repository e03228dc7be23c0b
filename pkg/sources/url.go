package sources

import (
	"net/url"
	"strings"
)

// IsValidURL reports whether s is an absolute URL with both a scheme and a host.
func IsValidURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
