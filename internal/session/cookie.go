package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	authCookie = "auth_token"
	tempCookie = "temp_token"
	userCookie = "user_data"
)

const userCookieTTL = 7 * 24 * time.Hour

// userClaims signs the cached profile and pending notices so the role
// used by the route guard cannot be forged client-side.
type userClaims struct {
	User         *User           `json:"usr,omitempty"`
	TempTokenExp time.Time       `json:"tmp_exp,omitempty"`
	Flashes      []Flash         `json:"fls,omitempty"`
	Checkout     json.RawMessage `json:"chk,omitempty"`
	jwt.RegisteredClaims
}

// CookieProvider keeps the whole session in http-only cookies:
// auth_token carries the upstream bearer, temp_token the 1h upload
// token, user_data an HS256-signed profile.
type CookieProvider struct {
	Secret []byte
	Secure bool
}

func NewCookieProvider(secret []byte, secure bool) *CookieProvider {
	return &CookieProvider{Secret: secret, Secure: secure}
}

func (p *CookieProvider) Get(c echo.Context) (*Session, error) {
	s := &Session{}

	if ck, err := c.Cookie(authCookie); err == nil && ck.Value != "" {
		s.Token = ck.Value
	}
	if ck, err := c.Cookie(tempCookie); err == nil && ck.Value != "" {
		s.TempToken = ck.Value
	}

	ck, err := c.Cookie(userCookie)
	if err != nil || ck.Value == "" {
		if s.Token == "" && s.TempToken == "" {
			return nil, ErrNoSession
		}
		return s, nil
	}

	var claims userClaims
	tkn, err := jwt.ParseWithClaims(ck.Value, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return p.Secret, nil
	})
	if err != nil || !tkn.Valid {
		// A tampered or expired profile cookie invalidates the whole session.
		return nil, ErrNoSession
	}

	s.User = claims.User
	s.TempTokenExp = claims.TempTokenExp
	s.Flashes = claims.Flashes
	s.Checkout = claims.Checkout
	return s, nil
}

func (p *CookieProvider) Set(c echo.Context, s *Session) error {
	now := time.Now()

	if s.Token != "" {
		c.SetCookie(p.cookie(authCookie, s.Token, now.Add(userCookieTTL)))
	} else {
		c.SetCookie(p.delete(authCookie))
	}

	if tok := s.ValidTempToken(now); tok != "" {
		c.SetCookie(p.cookie(tempCookie, tok, s.TempTokenExp))
	} else {
		c.SetCookie(p.delete(tempCookie))
	}

	claims := userClaims{
		User:         s.User,
		TempTokenExp: s.TempTokenExp,
		Flashes:      s.Flashes,
		Checkout:     s.Checkout,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(userCookieTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.Secret)
	if err != nil {
		return err
	}
	c.SetCookie(p.cookie(userCookie, signed, now.Add(userCookieTTL)))
	return nil
}

func (p *CookieProvider) Clear(c echo.Context) error {
	c.SetCookie(p.delete(authCookie))
	c.SetCookie(p.delete(tempCookie))
	c.SetCookie(p.delete(userCookie))
	return nil
}

func (p *CookieProvider) cookie(name, value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (p *CookieProvider) delete(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
