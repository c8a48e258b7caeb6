package catalog

import (
	"strings"
	"sync/atomic"

	"cloudjuke/internal/core"
)

const (
	// CookieKeyMusicU is the account credential cookie required by the catalog.
	CookieKeyMusicU = "MUSIC_U"
	// CookieKeyCSRF is the anti-forgery token cookie required by the catalog.
	CookieKeyCSRF = "__csrf"
)

var requiredCookieKeys = []string{CookieKeyMusicU, CookieKeyCSRF}

// sessionState is an immutable credential snapshot built from one cookie
// string. Readers take the whole pointer; requests never observe a
// half-replaced session.
type sessionState struct {
	cookieString string
	cookies      map[string]string
}

// session holds the active catalog credential. Replacements are guarded by
// compare-and-swap; concurrent Ensure calls race benignly because every
// candidate state derives from the live config value and the next call
// re-checks by value.
type session struct {
	state atomic.Pointer[sessionState]
}

// ParseCookies splits a browser-copied cookie string into a key-value map.
// Newlines are treated as separators, segments without '=' are ignored, and
// both key and value are trimmed. Empty input yields an empty map.
func ParseCookies(raw string) map[string]string {
	cookies := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return cookies
	}

	raw = strings.ReplaceAll(raw, "\n", "; ")
	raw = strings.ReplaceAll(raw, "\r", "")

	for _, segment := range strings.Split(raw, ";") {
		segment = strings.TrimSpace(segment)

		key, value, found := strings.Cut(segment, "=")
		if !found {
			continue
		}

		cookies[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return cookies
}

// ensure initializes the session from a cookie string. An unchanged string
// leaves the current session untouched, so config hot reloads are cheap.
// It reports whether a new session was installed.
func (s *session) ensure(cookieString string) (bool, error) {
	if strings.TrimSpace(cookieString) == "" {
		s.state.Store(nil)
		return false, &core.ConfigError{}
	}

	current := s.state.Load()
	if current != nil && current.cookieString == cookieString {
		return false, nil
	}

	cookies := ParseCookies(cookieString)

	var missing []string
	for _, key := range requiredCookieKeys {
		if _, ok := cookies[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		s.state.Store(nil)
		return false, &core.ConfigError{Missing: missing}
	}

	next := &sessionState{
		cookieString: cookieString,
		cookies:      cookies,
	}
	s.state.CompareAndSwap(current, next)

	return true, nil
}

// snapshot returns the active credential, or nil when uninitialized.
func (s *session) snapshot() *sessionState {
	return s.state.Load()
}

// reset clears the credential.
func (s *session) reset() {
	s.state.Store(nil)
}
