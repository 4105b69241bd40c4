package session

import "github.com/google/uuid"

// Flash is a one-shot, category-tagged message shown on the next rendered
// page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// record is the JSON document stored server-side for one browser client.
type record struct {
	UserID   *int64  `json:"user_id,omitempty"`
	Username string  `json:"username,omitempty"`
	Flashes  []Flash `json:"flashes,omitempty"`
}

// Session is the per-request view of one client's server-side session.
// Mutations are buffered and written back by the manager after the handler
// returns.
type Session struct {
	id     string
	data   record
	loaded bool
	dirty  bool
	stale  []string
}

func newSession() *Session {
	return &Session{id: uuid.NewString()}
}

// Authenticated reports whether a user identity is bound to the session.
func (s *Session) Authenticated() bool {
	return s.data.UserID != nil
}

// UserID returns the bound user id, or zero when unauthenticated.
func (s *Session) UserID() int64 {
	if s.data.UserID == nil {
		return 0
	}
	return *s.data.UserID
}

// Username returns the bound username, empty when unauthenticated.
func (s *Session) Username() string {
	return s.data.Username
}

// Login binds a user identity. The session id is rotated so a pre-login
// cookie can never be replayed into an authenticated session.
func (s *Session) Login(userID int64, username string) {
	s.rotate()
	s.data.UserID = &userID
	s.data.Username = username
	s.dirty = true
}

// Clear drops the identity and any pending flashes. Clearing an empty
// session is a no-op rather than an error.
func (s *Session) Clear() {
	s.rotate()
	s.data = record{}
	s.dirty = true
}

// Flash queues a message for the next rendered page.
func (s *Session) Flash(category, message string) {
	s.data.Flashes = append(s.data.Flashes, Flash{Category: category, Message: message})
	s.dirty = true
}

// PopFlashes returns queued messages and clears them.
func (s *Session) PopFlashes() []Flash {
	if len(s.data.Flashes) == 0 {
		return nil
	}
	flashes := s.data.Flashes
	s.data.Flashes = nil
	s.dirty = true
	return flashes
}

func (s *Session) rotate() {
	if s.loaded {
		s.stale = append(s.stale, s.id)
	}
	s.id = uuid.NewString()
	s.loaded = false
}

func (s *Session) empty() bool {
	return s.data.UserID == nil && len(s.data.Flashes) == 0
}
