package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"sync"
	"time"
)

// CSRFStore binds a double-submit token to the session it was issued for.
// Bindings are keyed by a hash of the session token, never the token
// itself, so a dump of the store does not leak usable sessions. The store
// is in-memory: bindings die with the process, which matches the CSRF
// token's short TTL.
type CSRFStore struct {
	mu       sync.Mutex
	bindings map[string]csrfBinding
	ttl      time.Duration
	now      func() time.Time
}

type csrfBinding struct {
	token     string
	expiresAt time.Time
}

func NewCSRFStore(ttl time.Duration) *CSRFStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CSRFStore{
		bindings: make(map[string]csrfBinding),
		ttl:      ttl,
		now:      time.Now,
	}
}

func sessionKey(sessionToken string) string {
	sum := sha256.Sum256([]byte(sessionToken))
	return hex.EncodeToString(sum[:])
}

// Issue mints a fresh random token and binds it to the session, replacing
// any previous binding for that session.
func (s *CSRFStore) Issue(sessionToken string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.bindings[sessionKey(sessionToken)] = csrfBinding{
		token:     token,
		expiresAt: s.now().Add(s.ttl),
	}
	return token, nil
}

// Check reports whether the presented token matches the live binding for
// the session. Missing binding, expired binding, or mismatch all deny.
func (s *CSRFStore) Check(sessionToken, presented string) bool {
	if sessionToken == "" || presented == "" {
		return false
	}

	s.mu.Lock()
	binding, ok := s.bindings[sessionKey(sessionToken)]
	s.mu.Unlock()

	if !ok || s.now().After(binding.expiresAt) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(binding.token), []byte(presented)) == 1
}

// Revoke drops the binding for a session, e.g. on logout.
func (s *CSRFStore) Revoke(sessionToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bindings, sessionKey(sessionToken))
}

// sweepLocked evicts expired bindings. Called opportunistically on Issue so
// the store does not grow without bound; callers must hold the mutex.
func (s *CSRFStore) sweepLocked() {
	now := s.now()
	for key, binding := range s.bindings {
		if now.After(binding.expiresAt) {
			delete(s.bindings, key)
		}
	}
}

// mutatingMethod reports whether the verb changes state and therefore
// requires CSRF validation. Read verbs bypass the guard.
func mutatingMethod(method string) bool {
	switch method {
	case "GET", "HEAD", "OPTIONS", "TRACE":
		return false
	}
	return true
}
