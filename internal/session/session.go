package session

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const userIDKey = "user_id"

// Manager resolves a stable anonymous identity for each browser session.
// The identity is generated once, bound to the cookie-backed session, and
// owns exactly one storage root for the session's lifetime.
type Manager struct {
	store *session.Store
}

// NewManager creates a session manager with the given idle expiration.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		store: session.New(session.Config{
			Expiration:     ttl,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
		}),
	}
}

// UserID returns the session's user id, generating and binding a fresh one
// on first touch.
func (m *Manager) UserID(c *fiber.Ctx) (string, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return "", fmt.Errorf("failed to open session: %w", err)
	}

	if id, ok := sess.Get(userIDKey).(string); ok && id != "" {
		return id, nil
	}

	id := uuid.New().String()
	sess.Set(userIDKey, id)
	if err := sess.Save(); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return id, nil
}
