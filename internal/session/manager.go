package session

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/auth"
)

// CookieName is the session cookie. Its value is a signed token carrying
// the session id, never session data.
const CookieName = "account_session"

const (
	localsKey = "session"
	keyPrefix = "session:"
)

// Manager loads and persists sessions around each request.
type Manager struct {
	storage Storage
	tokens  *auth.TokenManager
	logger  *zap.Logger
	secure  bool
}

// NewManager builds a session manager. secure toggles the cookie Secure
// attribute for TLS deployments.
func NewManager(storage Storage, tokens *auth.TokenManager, logger *zap.Logger, secure bool) *Manager {
	return &Manager{storage: storage, tokens: tokens, logger: logger, secure: secure}
}

// Middleware attaches the client's session to the request and writes it
// back after the handler runs. A missing, unsigned or expired cookie gets
// a fresh anonymous session; storage failures degrade the same way.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := m.load(c)
		c.Locals(localsKey, sess)

		err := c.Next()
		m.persist(c, sess)
		return err
	}
}

// FromCtx returns the session attached by the middleware.
func FromCtx(c *fiber.Ctx) *Session {
	if sess, ok := c.Locals(localsKey).(*Session); ok {
		return sess
	}
	return newSession()
}

func (m *Manager) load(c *fiber.Ctx) *Session {
	token := c.Cookies(CookieName)
	if token == "" {
		return newSession()
	}

	sid, err := m.tokens.Parse(token)
	if err != nil {
		return newSession()
	}

	raw, err := m.storage.Get(c.UserContext(), keyPrefix+sid)
	if err != nil {
		if !errors.Is(err, ErrNoRecord) {
			m.logger.Warn("session load failed", zap.Error(err))
		}
		return newSession()
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		m.logger.Warn("session record corrupt", zap.Error(err))
		return newSession()
	}

	return &Session{id: sid, data: rec, loaded: true}
}

func (m *Manager) persist(c *fiber.Ctx, sess *Session) {
	ctx := c.UserContext()

	for _, id := range sess.stale {
		if err := m.storage.Delete(ctx, keyPrefix+id); err != nil {
			m.logger.Warn("stale session delete failed", zap.Error(err))
		}
	}

	if !sess.dirty {
		return
	}

	if sess.empty() {
		if sess.loaded {
			if err := m.storage.Delete(ctx, keyPrefix+sess.id); err != nil {
				m.logger.Warn("session delete failed", zap.Error(err))
			}
		}
		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   m.secure,
		})
		return
	}

	raw, err := json.Marshal(sess.data)
	if err != nil {
		m.logger.Error("session marshal failed", zap.Error(err))
		return
	}
	if err := m.storage.Set(ctx, keyPrefix+sess.id, raw, m.tokens.TTL()); err != nil {
		m.logger.Warn("session save failed", zap.Error(err))
		return
	}

	token, err := m.tokens.Generate(sess.id)
	if err != nil {
		m.logger.Error("session token sign failed", zap.Error(err))
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.tokens.TTL().Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   m.secure,
	})
}
