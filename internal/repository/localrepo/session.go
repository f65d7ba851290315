package localrepo

import (
	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
)

// sessionStore persists the authenticated identity under the namespaced
// session key so it survives restarts, mirroring the original fallback.
type sessionStore struct {
	s *Store
}

var _ repository.SessionStore = (*sessionStore)(nil)

func (st *sessionStore) Save(user *model.UserProfile) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	c := *user
	c.PasswordHash = ""
	st.s.session = &c
	return st.s.writeList(keySession, &c)
}

func (st *sessionStore) Current() *model.UserProfile {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	if st.s.session == nil {
		return nil
	}
	c := *st.s.session
	return &c
}

func (st *sessionStore) Clear() error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	st.s.session = nil
	delete(st.s.data, nsKey(keySession))
	return st.s.flush()
}
