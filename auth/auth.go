// Package auth holds the credential store the server consults when the
// username/password method is negotiated. Which method gets selected,
// and what happens after a failed sub-negotiation, is server policy;
// the codec layer never sees this package.
package auth

import "crypto/subtle"

type Store struct {
	users map[string]string
}

func NewStore() *Store {
	return &Store{users: make(map[string]string)}
}

func (s *Store) Add(username, password string) {
	s.users[username] = password
}

// Empty reports whether no credentials are registered; servers treat
// that as "no authentication required".
func (s *Store) Empty() bool {
	return s == nil || len(s.users) == 0
}

func (s *Store) Validate(username, password string) bool {
	if s == nil {
		return false
	}
	want, ok := s.users[username]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(password)) == 1
}
