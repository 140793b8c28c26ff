// Package session owns the studio's authentication state: the single active
// bearer token and its persistence.
package session

// Session is the in-memory source of truth for "is this process
// authenticated". Token changes flow through here and nowhere else; the API
// clients only ever read.
type Session struct {
	store *Store
	token string
}

func New(store *Store) *Session {
	return &Session{store: store}
}

// Restore reads any previously persisted token so a prior login survives a
// restart. Call once at process start.
func (s *Session) Restore() error {
	token, err := s.store.Load()
	if err != nil {
		return err
	}
	s.token = token
	return nil
}

// SetToken adopts a freshly obtained token, or logs out when given "".
// The credential store is updated in the same step, last writer wins.
func (s *Session) SetToken(token string) error {
	s.token = token
	if token == "" {
		return s.store.Clear()
	}
	return s.store.Save(token)
}

func (s *Session) Token() string {
	return s.token
}

func (s *Session) IsAuthenticated() bool {
	return s.token != ""
}
