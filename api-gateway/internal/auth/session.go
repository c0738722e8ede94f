package auth

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidUser = errors.New("invalid user")

type User struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type listener struct {
	id int
	fn func(*User)
}

// Session holds the signed-in user for one client. Listeners are called with the new
// user after every change (nil after sign-out), in subscription order.
type Session struct {
	mu        sync.Mutex
	user      *User
	listeners []listener
	nextID    int

	notifyMu sync.Mutex
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) SignIn(name string, role Role) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" || role == RoleGuest {
		return User{}, ErrInvalidUser
	}
	if _, err := ParseRole(string(role)); err != nil {
		return User{}, err
	}

	u := User{Name: name, Role: role}
	s.set(&u)
	return u, nil
}

func (s *Session) SignOut() {
	s.set(nil)
}

// User returns the signed-in user, or a guest when nobody is signed in.
func (s *Session) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{Role: RoleGuest}, false
	}
	return *s.user, true
}

func (s *Session) Role() Role {
	u, _ := s.User()
	return u.Role
}

func (s *Session) Subscribe(fn func(*User)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Session) set(u *User) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.user = u
	listeners := make([]listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		var snapshot *User
		if u != nil {
			c := *u
			snapshot = &c
		}
		l.fn(snapshot)
	}
}

// Registry maps bearer tokens to sessions. A session unused for longer than the
// TTL is signed out and forgotten; a TTL of zero keeps sessions until Close.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration

	// Now is the registry clock. Set it before the registry is shared.
	Now func() time.Time
}

type entry struct {
	session *Session
	expires time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{sessions: make(map[string]*entry), ttl: ttl, Now: time.Now}
}

// Open creates a signed-out session under a fresh token. Expired sessions are
// swept on the way.
func (r *Registry) Open() (string, *Session) {
	token := uuid.NewString()
	sess := NewSession()

	r.mu.Lock()
	now := r.Now()
	expired := r.sweepLocked(now)
	r.sessions[token] = &entry{session: sess, expires: r.deadline(now)}
	r.mu.Unlock()

	signOut(expired)
	return token, sess
}

// Lookup returns the live session for token and extends its lifetime.
func (r *Registry) Lookup(token string) (*Session, bool) {
	r.mu.Lock()
	e, ok := r.sessions[token]
	if !ok {
		r.mu.Unlock()
		return nil, false
	}
	now := r.Now()
	if r.expired(e, now) {
		delete(r.sessions, token)
		r.mu.Unlock()
		e.session.SignOut()
		return nil, false
	}
	e.expires = r.deadline(now)
	r.mu.Unlock()
	return e.session, true
}

// Close signs the session out and forgets the token.
func (r *Registry) Close(token string) bool {
	r.mu.Lock()
	e, ok := r.sessions[token]
	delete(r.sessions, token)
	r.mu.Unlock()

	if ok {
		e.session.SignOut()
	}
	return ok
}

// Sweep drops every expired session and reports how many were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	expired := r.sweepLocked(r.Now())
	r.mu.Unlock()

	signOut(expired)
	return len(expired)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) sweepLocked(now time.Time) []*Session {
	var expired []*Session
	for token, e := range r.sessions {
		if r.expired(e, now) {
			delete(r.sessions, token)
			expired = append(expired, e.session)
		}
	}
	return expired
}

func (r *Registry) expired(e *entry, now time.Time) bool {
	return r.ttl > 0 && !now.Before(e.expires)
}

func (r *Registry) deadline(now time.Time) time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(r.ttl)
}

// signOut runs outside the registry lock since listeners may call back into it.
func signOut(sessions []*Session) {
	for _, sess := range sessions {
		sess.SignOut()
	}
}
