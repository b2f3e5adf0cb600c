package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"convonest/db"
	"convonest/identity"
	"convonest/metrics"
	"convonest/models"
)

// Client wraps every backend request with a bearer credential. Resolution
// order: the persisted local credential if it has not expired, else a token
// minted from the current identity session awaited up to Timeout, else no
// credential at all — the server makes the authorization call.
type Client struct {
	Host     string
	HTTP     *http.Client
	Creds    *db.CredentialStore
	Sessions *identity.Store
	Identity *identity.Client
	Timeout  time.Duration
}

func New(host string, creds *db.CredentialStore, sessions *identity.Store, idp *identity.Client, timeout time.Duration) *Client {
	return &Client{
		Host:     host,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		Creds:    creds,
		Sessions: sessions,
		Identity: idp,
		Timeout:  timeout,
	}
}

// StatusError is a non-2xx backend response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d", e.StatusCode)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	se, ok := err.(*StatusError)
	return ok && se.StatusCode == code
}

// bearerToken resolves a credential for an outgoing request. Every failure
// here is swallowed: a request without a credential is preferable to a
// request that never leaves the process.
func (c *Client) bearerToken(ctx context.Context) string {
	if c.Creds != nil {
		tok, err := c.Creds.Load()
		if err == nil && tok != "" && !expired(tok) {
			return tok
		}
	}

	if c.Sessions == nil || c.Identity == nil {
		return ""
	}

	wait := c.Timeout
	if wait <= 0 {
		wait = 5 * time.Second
	}
	wctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	sess, err := c.Sessions.Await(wctx)
	if err != nil || sess == nil {
		return ""
	}

	tok, err := c.Identity.MintToken(ctx, sess)
	if err != nil {
		return ""
	}
	return tok
}

// expired inspects the token's exp claim without verifying the signature;
// verification is the server's job. Unparseable tokens are sent as-is.
func expired(token string) bool {
	claims := &models.Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().After(exp.Time)
}

func (c *Client) do(ctx context.Context, method, endpoint, path string, params url.Values, body, out any) error {
	u := c.Host + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.bearerToken(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		metrics.APIRequests.WithLabelValues(endpoint, "error").Inc()
		return err
	}
	defer resp.Body.Close()

	metrics.APIRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(raw, &apiErr)
		return &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
