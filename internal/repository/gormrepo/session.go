package gormrepo

import (
	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
)

// sessionStore is in-memory only: under the hosted backend identity travels
// in the JWT, so there is nothing durable to keep.
type sessionStore struct {
	b *Backend
}

var _ repository.SessionStore = (*sessionStore)(nil)

func (st *sessionStore) Save(user *model.UserProfile) error {
	st.b.sessionMu.Lock()
	defer st.b.sessionMu.Unlock()

	c := *user
	c.PasswordHash = ""
	st.b.session = &c
	return nil
}

func (st *sessionStore) Current() *model.UserProfile {
	st.b.sessionMu.Lock()
	defer st.b.sessionMu.Unlock()

	if st.b.session == nil {
		return nil
	}
	c := *st.b.session
	return &c
}

func (st *sessionStore) Clear() error {
	st.b.sessionMu.Lock()
	defer st.b.sessionMu.Unlock()

	st.b.session = nil
	return nil
}
