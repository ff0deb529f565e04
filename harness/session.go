package harness

import (
	"net/http"
	"strings"
)

// Credentials are the login pair supplied when the harness is constructed.
type Credentials struct {
	Email  string
	Secret string
}

// Session is the per-run connection state: the fixed base URL and, once authenticated, the
// bearer token.
type Session struct {
	baseURL string
	token   string
}

func newSession(baseURL string) Session {
	return Session{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s Session) BaseURL() string { return s.baseURL }

// Token returns the current bearer token, or "" if the session is not authenticated.
func (s Session) Token() string { return s.token }

func (s Session) Authenticated() bool { return s.token != "" }

// DefaultHeaders returns the headers derived from the session state. It is empty until a
// token has been obtained.
func (s Session) DefaultHeaders() http.Header {
	h := make(http.Header)
	if s.token != "" {
		h.Set("Authorization", "Bearer "+s.token)
	}
	return h
}

func (s Session) url(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.baseURL + path
}
