package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Session is the identity provider's view of a signed-in user. IDToken is
// the short-lived credential minted from it; RefreshToken outlives it.
type Session struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PhotoURL     string    `json:"photoUrl"`
	IDToken      string    `json:"idToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Client talks to the external identity provider.
type Client struct {
	Host   string
	APIKey string
	HTTP   *http.Client
}

func NewClient(host, apiKey string) *Client {
	return &Client{
		Host:   host,
		APIKey: apiKey,
		HTTP:   &http.Client{Timeout: 15 * time.Second},
	}
}

type providerError struct {
	Message string `json:"message"`
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Host+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("X-Api-Key", c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var perr providerError
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &perr) == nil && perr.Message != "" {
			return fmt.Errorf("identity provider: %s", perr.Message)
		}
		return fmt.Errorf("identity provider: status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SignIn authenticates with email and password.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var sess Session
	err := c.post(ctx, "/v1/sessions:password", map[string]string{
		"email":    email,
		"password": password,
	}, &sess)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// SignInWithProvider exchanges a federated sign-in code for a session.
func (c *Client) SignInWithProvider(ctx context.Context, provider, code string) (*Session, error) {
	var sess Session
	err := c.post(ctx, "/v1/sessions:federated", map[string]string{
		"provider": provider,
		"code":     code,
	}, &sess)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Register creates an identity-provider account and signs it in.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var sess Session
	err := c.post(ctx, "/v1/accounts", map[string]string{
		"displayName": name,
		"email":       email,
		"password":    password,
	}, &sess)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// UpdateProfile updates display name and photo on the provider side.
func (c *Client) UpdateProfile(ctx context.Context, sess *Session, name, photoURL string) error {
	return c.post(ctx, "/v1/accounts:update", map[string]string{
		"idToken":     sess.IDToken,
		"displayName": name,
		"photoUrl":    photoURL,
	}, nil)
}

// SignOut revokes the session's refresh token.
func (c *Client) SignOut(ctx context.Context, sess *Session) error {
	return c.post(ctx, "/v1/sessions:revoke", map[string]string{
		"refreshToken": sess.RefreshToken,
	}, nil)
}

// MintToken returns a credential for the session, refreshing it through the
// provider when the held one has expired.
func (c *Client) MintToken(ctx context.Context, sess *Session) (string, error) {
	if sess.IDToken != "" && time.Now().Before(sess.ExpiresAt) {
		return sess.IDToken, nil
	}

	var refreshed Session
	err := c.post(ctx, "/v1/sessions:refresh", map[string]string{
		"refreshToken": sess.RefreshToken,
	}, &refreshed)
	if err != nil {
		return "", err
	}
	return refreshed.IDToken, nil
}
