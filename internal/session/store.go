package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const sessionIDCookie = "session_id"

type record struct {
	ID           string `gorm:"primaryKey"`
	Token        string
	TempToken    string
	TempTokenExp time.Time
	UserJSON     string
	FlashJSON    string
	CheckoutJSON string
	UpdatedAt    time.Time
}

func (record) TableName() string { return "sessions" }

// StoreProvider keeps sessions server-side behind an opaque session_id
// cookie, so several storefront instances can share one store.
type StoreProvider struct {
	DB     *gorm.DB
	Secure bool
}

func NewStoreProvider(db *gorm.DB, secure bool) (*StoreProvider, error) {
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, err
	}
	return &StoreProvider{DB: db, Secure: secure}, nil
}

// OpenDB dials the session database. A postgres:// DSN selects the
// postgres driver, anything else is treated as a sqlite path.
func OpenDB(ctx context.Context, dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dial = postgres.Open(dsn)
	} else {
		dial = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("session db handle: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping session db: %w", err)
	}

	return db, nil
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

func (p *StoreProvider) Get(c echo.Context) (*Session, error) {
	ck, err := c.Cookie(sessionIDCookie)
	if err != nil || ck.Value == "" {
		return nil, ErrNoSession
	}

	var rec record
	err = p.DB.WithContext(c.Request().Context()).First(&rec, "id = ?", ck.Value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	s := &Session{
		Token:        rec.Token,
		TempToken:    rec.TempToken,
		TempTokenExp: rec.TempTokenExp,
	}
	if rec.UserJSON != "" {
		var u User
		if err := json.Unmarshal([]byte(rec.UserJSON), &u); err == nil {
			s.User = &u
		}
	}
	if rec.FlashJSON != "" {
		_ = json.Unmarshal([]byte(rec.FlashJSON), &s.Flashes)
	}
	if rec.CheckoutJSON != "" {
		s.Checkout = json.RawMessage(rec.CheckoutJSON)
	}
	return s, nil
}

func (p *StoreProvider) Set(c echo.Context, s *Session) error {
	id := ""
	if ck, err := c.Cookie(sessionIDCookie); err == nil && ck.Value != "" {
		id = ck.Value
	}
	if id == "" {
		id = uuid.NewString()
	}

	rec := record{ID: id, Token: s.Token, TempToken: s.TempToken, TempTokenExp: s.TempTokenExp}
	if s.User != nil {
		b, err := json.Marshal(s.User)
		if err != nil {
			return err
		}
		rec.UserJSON = string(b)
	}
	if len(s.Flashes) > 0 {
		b, err := json.Marshal(s.Flashes)
		if err != nil {
			return err
		}
		rec.FlashJSON = string(b)
	}
	if len(s.Checkout) > 0 {
		rec.CheckoutJSON = string(s.Checkout)
	}

	if err := p.DB.WithContext(c.Request().Context()).Save(&rec).Error; err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionIDCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (p *StoreProvider) Clear(c echo.Context) error {
	if ck, err := c.Cookie(sessionIDCookie); err == nil && ck.Value != "" {
		if err := p.DB.WithContext(c.Request().Context()).Delete(&record{}, "id = ?", ck.Value).Error; err != nil {
			return err
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     sessionIDCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
