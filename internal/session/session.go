package session

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/labstack/echo/v4"
)

var ErrNoSession = errors.New("no session")

// TempTokenTTL bounds the short-lived token used only for business
// document upload.
const TempTokenTTL = time.Hour

// FlashTTL is the single auto-dismiss window for transient notices.
// Responses echo it as dismissAfterMs so every surface uses the same value.
const FlashTTL = 3 * time.Second

const DismissAfterMs = 3000

type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	BusinessID string `json:"business_id,omitempty"`
}

type Flash struct {
	Kind    string    `json:"kind"` // "success" or "error"
	Message string    `json:"message"`
	SetAt   time.Time `json:"set_at"`
}

func (f Flash) Expired(now time.Time) bool {
	return now.Sub(f.SetAt) > FlashTTL
}

// Session is the storefront's view of one browser: the upstream bearer
// token, the short-lived upload token, a cached profile and pending
// notices. Everything here is transient; the backend owns the records.
type Session struct {
	Token        string
	TempToken    string
	TempTokenExp time.Time
	User         *User
	Flashes      []Flash

	// Checkout holds serialized wizard state so the three-step flow
	// survives across requests without the session package knowing its
	// shape.
	Checkout json.RawMessage
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

func (s *Session) Role() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Role
}

func (s *Session) AddFlash(kind, message string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: message, SetAt: time.Now()})
}

// ConsumeFlashes returns the live notices and removes everything,
// expired entries included, from the session.
func (s *Session) ConsumeFlashes(now time.Time) []Flash {
	var live []Flash
	for _, f := range s.Flashes {
		if !f.Expired(now) {
			live = append(live, f)
		}
	}
	s.Flashes = nil
	return live
}

// ValidTempToken returns the upload token unless it has expired.
func (s *Session) ValidTempToken(now time.Time) string {
	if s == nil || s.TempToken == "" || now.After(s.TempTokenExp) {
		return ""
	}
	return s.TempToken
}

// Provider abstracts where sessions live so handlers never touch
// cookies directly and tests can swap in a fake.
type Provider interface {
	Get(c echo.Context) (*Session, error)
	Set(c echo.Context, s *Session) error
	Clear(c echo.Context) error
}
