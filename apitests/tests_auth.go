package apitests

import (
	"errors"
	"net/http"
	"time"

	"github.com/shiva-pdv/api-contract-tests/apidef"
	"github.com/shiva-pdv/api-contract-tests/harness"

	"github.com/stretchr/testify/require"
)

func DoAuthTests(t *T) {
	t.Run("login", func(t *T) {
		token, err := t.Harness().Login()
		require.NoError(t, err)
		t.Expect("login returns a token", true, token != "")
		t.Expect("session is authenticated", true, t.Harness().Session().Authenticated())

		info, err := t.Harness().TokenInfo()
		if err != nil {
			t.Debug("Token is not a JWT, not checking its claims: %s", err)
			return
		}
		t.Expect("token names a user", true, info.UserID != "")
		if !info.ExpiresAt.IsZero() {
			t.Expect("token is not expired", false, info.Expired(time.Now()))
		}
	})

	t.Run("current user", func(t *T) {
		t.RequireAuthenticated()
		resp := t.Request(http.MethodGet, apidef.PathMe, nil, true)
		t.RequireStatus(resp, 200)
		userID, err := resp.String("userId")
		require.NoError(t, err)
		t.Expect("current user is known", true, userID != "")
		if info, err := t.Harness().TokenInfo(); err == nil {
			t.Expect("current user is the token's user", info.UserID, userID)
		}
	})

	t.Run("wrong password is rejected", func(t *T) {
		creds := t.Harness().Credentials()
		creds.Secret += "-wrong"
		other := harness.New(t.Harness().Session().BaseURL(), creds,
			harness.WithHTTPClient(t.Harness().HTTPClient()),
			harness.WithLogger(t.context.DebugLogger()))

		_, err := other.Login()
		var authErr *harness.AuthError
		require.True(t, errors.As(err, &authErr), "expected an authentication error, got %v", err)
		t.Expect("wrong password gets HTTP 401", 401, authErr.Status)
		t.Expect("rejected login leaves the session unauthenticated", false, other.Session().Authenticated())
	})

	t.Run("request without token is rejected", func(t *T) {
		resp := t.Request(http.MethodGet, apidef.PathMonthlyReport, nil, false)
		t.Expect("request without token gets HTTP 401", 401, resp.Status)
	})
}
