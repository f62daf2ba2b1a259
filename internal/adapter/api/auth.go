package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/dto"
)

// Session holds the token of the signed-in user and serves it as a TokenSource.
type Session struct {
	mu    sync.RWMutex
	token string
}

// NewSession creates a session, optionally already signed in.
func NewSession(token string) *Session {
	return &Session{token: token}
}

func (s *Session) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *Session) set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// AuthClient signs in and out against the mock backend.
type AuthClient struct {
	client  *Client
	session *Session
}

// NewAuthClient creates an auth client that stores tokens in session.
func NewAuthClient(c *Client, session *Session) *AuthClient {
	return &AuthClient{client: c, session: session}
}

// Login exchanges credentials for a token.
func (a *AuthClient) Login(ctx context.Context, email, password string) (dto.LoginResponse, error) {
	var resp dto.LoginResponse
	body := dto.LoginRequest{Email: email, Password: password}
	if err := a.client.Request(ctx, http.MethodPost, AuthPrefix+"/login", nil, body, &resp); err != nil {
		return dto.LoginResponse{}, err
	}
	a.session.set(resp.Token)
	return resp, nil
}

// Logout ends the session. The local token is dropped even if the call fails.
func (a *AuthClient) Logout(ctx context.Context) error {
	err := a.client.Request(ctx, http.MethodPost, AuthPrefix+"/logout", nil, nil, nil)
	a.session.set("")
	return err
}
