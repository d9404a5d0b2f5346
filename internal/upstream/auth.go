package upstream

import (
	"context"
	"fmt"
	"net/http"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginResult struct {
	envelope
	Token string `json:"token"`
	User  User   `json:"user"`
}

type BusinessLoginResult struct {
	envelope
	Token    string   `json:"token"`
	Business Business `json:"business"`
}

// BusinessRegisterResult carries the temp token used only for the
// follow-up document upload.
type BusinessRegisterResult struct {
	envelope
	TempToken string   `json:"temp_token"`
	Business  Business `json:"business"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, data RegisterData) (*LoginResult, error) {
	if data.Email == "" || data.Password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BusinessLogin(ctx context.Context, creds Credentials) (*BusinessLoginResult, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}
	var out BusinessLoginResult
	if err := c.do(ctx, http.MethodPost, "/api/business/auth/login", "", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BusinessRegister(ctx context.Context, data RegisterData) (*BusinessRegisterResult, error) {
	if data.Email == "" || data.Password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}
	var out BusinessRegisterResult
	if err := c.do(ctx, http.MethodPost, "/api/business/auth/register", "", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email required", ErrValidation)
	}
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/api/auth/forgot-password", "", body, nil)
}

type profileResult struct {
	envelope
	User User `json:"user"`
}

func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	var out profileResult
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, token string, upd ProfileUpdate) (*User, error) {
	var out profileResult
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", token, upd, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}
