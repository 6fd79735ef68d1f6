package security

import "strings"

// Scheme is the closed classification of a URL's scheme.
type Scheme int

const (
	SchemeOther Scheme = iota
	SchemeHTTP
	SchemeHTTPS
)

// String returns the string representation of the scheme
func (s Scheme) String() string {
	switch s {
	case SchemeHTTP:
		return "http"
	case SchemeHTTPS:
		return "https"
	default:
		return "other"
	}
}

// IsWeb reports whether the OS browser may be asked to open a URL with this scheme.
func (s Scheme) IsWeb() bool {
	switch s {
	case SchemeHTTP, SchemeHTTPS:
		return true
	default:
		return false
	}
}

// ParseScheme classifies raw by an exact, case-sensitive prefix match.
// Anything that is not literally "http://..." or "https://..." is SchemeOther,
// including relative paths, file:// and mixed-case schemes.
func ParseScheme(raw string) Scheme {
	switch {
	case strings.HasPrefix(raw, "https://"):
		return SchemeHTTPS
	case strings.HasPrefix(raw, "http://"):
		return SchemeHTTP
	default:
		return SchemeOther
	}
}
