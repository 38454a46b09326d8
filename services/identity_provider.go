package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// IdentityUser is the subset of an identity-provider account the backend
// cares about. Credentials live in the provider, never here.
type IdentityUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IdentityProvider is the external auth system holding admin credentials.
// The password-reset service and admin provisioning talk to it through this
// interface; tests substitute a fake.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (string, *IdentityUser, error)
	FindUserByEmail(ctx context.Context, email string) (*IdentityUser, error)
	CreateUser(ctx context.Context, email, password string) (*IdentityUser, error)
	UpdateUserPassword(ctx context.Context, userID, newPassword string) error
	DeleteUser(ctx context.Context, userID string) error
}

// HTTPIdentityProvider talks to a GoTrue-style auth REST API using a
// service-role key for the admin endpoints.
type HTTPIdentityProvider struct {
	BaseURL    string
	ServiceKey string
	Client     *http.Client
}

func NewHTTPIdentityProvider(baseURL, serviceKey string) *HTTPIdentityProvider {
	return &HTTPIdentityProvider{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		ServiceKey: serviceKey,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *HTTPIdentityProvider) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cannot encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.ServiceKey)
	req.Header.Set("apikey", p.ServiceKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("identity provider HTTP error %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("cannot decode identity provider response: %w", err)
		}
	}
	return nil
}

func (p *HTTPIdentityProvider) SignIn(ctx context.Context, email, password string) (string, *IdentityUser, error) {
	var result struct {
		AccessToken string       `json:"access_token"`
		User        IdentityUser `json:"user"`
	}
	err := p.do(ctx, http.MethodPost, "/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return "", nil, err
	}
	return result.AccessToken, &result.User, nil
}

// FindUserByEmail resolves an email to a live account. A nil user with a nil
// error means no such account exists.
func (p *HTTPIdentityProvider) FindUserByEmail(ctx context.Context, email string) (*IdentityUser, error) {
	var result struct {
		Users []IdentityUser `json:"users"`
	}
	path := "/admin/users?email=" + url.QueryEscape(email)
	if err := p.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	for i := range result.Users {
		if strings.EqualFold(result.Users[i].Email, email) {
			return &result.Users[i], nil
		}
	}
	return nil, nil
}

func (p *HTTPIdentityProvider) CreateUser(ctx context.Context, email, password string) (*IdentityUser, error) {
	var user IdentityUser
	err := p.do(ctx, http.MethodPost, "/admin/users", map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (p *HTTPIdentityProvider) UpdateUserPassword(ctx context.Context, userID, newPassword string) error {
	return p.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(userID), map[string]string{
		"password": newPassword,
	}, nil)
}

func (p *HTTPIdentityProvider) DeleteUser(ctx context.Context, userID string) error {
	return p.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(userID), nil, nil)
}
