package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/shiva-pdv/api-contract-tests/logging"
)

// DefaultLoginPath is the path of the backend's login endpoint.
const DefaultLoginPath = "/api/auth/login"

// FormPayload can be passed to Request to send form fields instead of JSON. The product
// endpoints of the backend only accept multipart or urlencoded forms.
type FormPayload interface {
	FormValues() url.Values
}

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// TestHarness coordinates authentication and requests against one API for one test run,
// and collects the outcome of every check.
type TestHarness struct {
	session     Session
	credentials Credentials
	client      *http.Client
	loginPath   string
	tolerance   float64
	logger      logging.Logger
	report      RunReport
}

type Option func(*TestHarness)

// WithHTTPClient replaces the default http.Client, for instance to use a custom transport in
// tests.
func WithHTTPClient(client *http.Client) Option {
	return func(h *TestHarness) { h.client = client }
}

// WithTolerance sets the epsilon used by Expect when both values are floating point.
func WithTolerance(tolerance float64) Option {
	return func(h *TestHarness) { h.tolerance = tolerance }
}

func WithLogger(logger logging.Logger) Option {
	return func(h *TestHarness) { h.logger = logger }
}

func WithLoginPath(path string) Option {
	return func(h *TestHarness) { h.loginPath = path }
}

// New creates a harness for the API at baseURL. It does not make any requests.
func New(baseURL string, credentials Credentials, options ...Option) *TestHarness {
	h := &TestHarness{
		session:     newSession(baseURL),
		credentials: credentials,
		client:      http.DefaultClient,
		loginPath:   DefaultLoginPath,
		tolerance:   DefaultTolerance,
		logger:      logging.NullLogger(),
	}
	for _, o := range options {
		o(h)
	}
	if h.logger == nil {
		h.logger = logging.NullLogger()
	}
	return h
}

// SetLogger changes the debug logger and returns the previous one, so that each test can
// capture the requests it makes.
func (h *TestHarness) SetLogger(logger logging.Logger) logging.Logger {
	if logger == nil {
		logger = logging.NullLogger()
	}
	prev := h.logger
	h.logger = logger
	return prev
}

// Session returns a copy of the current session state.
func (h *TestHarness) Session() Session {
	return h.session
}

func (h *TestHarness) Credentials() Credentials {
	return h.credentials
}

// HTTPClient returns the client the harness sends requests with, so that another harness can
// be created for the same API.
func (h *TestHarness) HTTPClient() *http.Client {
	return h.client
}

func (h *TestHarness) Tolerance() float64 {
	return h.tolerance
}

// Login authenticates with the credentials the harness was constructed with.
func (h *TestHarness) Login() (string, error) {
	return h.Authenticate(h.credentials)
}

// Authenticate sends the login request. On success it stores the token in the session, and
// every later request made with useAuth=true carries it. Calling it again replaces the token.
//
// A non-success status gives an *AuthError with Kind AuthRejected; a success response with
// no "token" string gives AuthMissingToken. In both cases the session is unchanged.
func (h *TestHarness) Authenticate(credentials Credentials) (string, error) {
	body, _ := json.Marshal(loginRequest{Email: credentials.Email, Senha: credentials.Secret})
	target := h.session.url(h.loginPath)

	h.logger.Printf("Logging in as %s at %s", credentials.Email, target)
	status, _, raw, err := h.send(http.MethodPost, target, "application/json", body, nil)
	if err != nil {
		return "", err
	}
	if !isSuccess(status) {
		h.logger.Printf("Login rejected with HTTP %d", status)
		return "", &AuthError{Kind: AuthRejected, Status: status, Body: string(raw)}
	}

	var parsed ldvalue.Value
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Type() != ldvalue.ObjectType {
		return "", &AuthError{Kind: AuthMissingToken, Status: status, Body: string(raw)}
	}
	tokenValue := parsed.GetByKey("token")
	if tokenValue.Type() != ldvalue.StringType || tokenValue.StringValue() == "" {
		return "", &AuthError{Kind: AuthMissingToken, Status: status, Body: string(raw)}
	}

	token := tokenValue.StringValue()
	h.session.token = token
	h.logger.Printf("Obtained token %s", logging.MaskToken(token))
	if info, err := ParseTokenInfo(token); err == nil {
		if info.ExpiresAt.IsZero() {
			h.logger.Printf("Token belongs to user %q and has no expiry", info.UserID)
		} else {
			h.logger.Printf("Token belongs to user %q and expires at %s", info.UserID, info.ExpiresAt.Format(time.RFC3339))
		}
	}
	return token, nil
}

// TokenInfo decodes the claims of the current token.
func (h *TestHarness) TokenInfo() (TokenInfo, error) {
	if !h.session.Authenticated() {
		return TokenInfo{}, ErrUnauthenticated
	}
	return ParseTokenInfo(h.session.token)
}

// Request sends a request to the base URL plus path.
//
// The payload may be nil (no body), a FormPayload or url.Values (form-encoded), a []byte or
// json.RawMessage (sent as-is as JSON), or any other value, which is marshaled to JSON.
//
// If useAuth is true and the harness has no token yet, it fails with ErrUnauthenticated
// without sending anything. A non-success status is not an error: the returned Response
// carries the raw body, which is not parsed.
func (h *TestHarness) Request(method, path string, payload interface{}, useAuth bool) (*Response, error) {
	target := h.session.url(path)
	if useAuth && !h.session.Authenticated() {
		h.logger.Printf("Not sending %s %s: no token", method, target)
		return nil, &TransportError{Kind: TransportUnauthenticated, Method: method, URL: target}
	}

	body, contentType, err := encodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("%s %s: could not encode payload: %w", method, target, err)
	}
	var headers http.Header
	if useAuth {
		headers = h.session.DefaultHeaders()
	}

	status, respHeaders, raw, err := h.send(method, target, contentType, body, headers)
	if err != nil {
		return nil, err
	}
	resp := &Response{
		Method: method,
		URL:    target,
		Status: status,
		Header: respHeaders,
		Raw:    raw,
		value:  ldvalue.Null(),
	}
	if !resp.OK() {
		h.logger.Printf("Response body: %s", string(raw))
		return resp, nil
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &resp.value); err != nil {
			h.logger.Printf("Malformed response body: %s", string(raw))
			return nil, &TransportError{Kind: TransportMalformedBody, Method: method, URL: target, Cause: err}
		}
	}
	resp.parsed = true
	return resp, nil
}

// Expect compares expected with actual, records the outcome in the run report and returns it.
// See Equal for the comparison rules.
func (h *TestHarness) Expect(description string, expected, actual interface{}) CheckResult {
	result := CheckResult{
		Description: description,
		Passed:      Equal(expected, actual, h.tolerance),
		Expected:    expected,
		Actual:      actual,
	}
	h.report.add(result)
	h.logger.Printf("%s", result)
	return result
}

// Summary returns a copy of the checks recorded so far.
func (h *TestHarness) Summary() RunReport {
	return h.report.clone()
}

func (h *TestHarness) send(
	method, target, contentType string,
	body []byte,
	headers http.Header,
) (int, http.Header, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return 0, nil, nil, &TransportError{Kind: TransportNetwork, Method: method, URL: target, Cause: err}
	}
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if target == h.session.url(h.loginPath) {
		h.logger.Printf("%s", curlCommand(method, target, req.Header, nil))
	} else {
		h.logger.Printf("%s", curlCommand(method, target, req.Header, body))
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Printf("Request failed: %s", err)
		return 0, nil, nil, &TransportError{Kind: TransportNetwork, Method: method, URL: target, Cause: err}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, &TransportError{Kind: TransportNetwork, Method: method, URL: target, Cause: err}
	}
	h.logger.Printf("Got HTTP %d from %s %s", resp.StatusCode, method, target)
	return resp.StatusCode, resp.Header, data, nil
}

func encodePayload(payload interface{}) ([]byte, string, error) {
	switch p := payload.(type) {
	case nil:
		return nil, "", nil
	case FormPayload:
		return []byte(p.FormValues().Encode()), "application/x-www-form-urlencoded", nil
	case url.Values:
		return []byte(p.Encode()), "application/x-www-form-urlencoded", nil
	case json.RawMessage:
		return p, "application/json", nil
	case []byte:
		return p, "application/json", nil
	case string:
		return []byte(p), contentTypeForText(p), nil
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return nil, "", err
		}
		return data, "application/json", nil
	}
}

func contentTypeForText(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}
