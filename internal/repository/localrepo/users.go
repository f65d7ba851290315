package localrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
	"kampusconnect.id/forum/pkg/apperror"
)

type userRepo struct {
	s *Store
}

var _ repository.UserRepository = (*userRepo)(nil)

// storedUser re-exposes the password hash for persistence. The model hides
// it from JSON so API responses can never leak it, but this store IS the
// credential store and must keep it.
type storedUser struct {
	model.UserProfile
	PasswordHash string `json:"passwordHash,omitempty"`
}

func toStored(u *model.UserProfile) *storedUser {
	return &storedUser{UserProfile: *u, PasswordHash: u.PasswordHash}
}

func (su *storedUser) toModel() *model.UserProfile {
	u := su.UserProfile
	u.PasswordHash = su.PasswordHash
	return &u
}

func (r *userRepo) Create(ctx context.Context, user *model.UserProfile) (*model.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var users []*storedUser
	if err := r.s.readList(keyUsers, &users); err != nil {
		return nil, err
	}

	stored := toStored(user)
	if stored.UID == "" {
		stored.UID = uuid.NewString()
	}
	// Caller clock; the hosted backend uses server-assigned time instead.
	stored.CreatedAt = time.Now().UTC()

	users = append([]*storedUser{stored}, users...)
	if err := r.s.writeList(keyUsers, users); err != nil {
		return nil, err
	}

	return stored.toModel(), nil
}

func (r *userRepo) GetByID(ctx context.Context, uid string) (*model.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(func(u *storedUser) bool { return u.UID == uid })
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(func(u *storedUser) bool { return u.Email == email })
}

// find returns a copy of the first matching user, or (nil, nil). Callers
// must hold the store mutex.
func (r *userRepo) find(match func(*storedUser) bool) (*model.UserProfile, error) {
	var users []*storedUser
	if err := r.s.readList(keyUsers, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		if match(u) {
			return u.toModel(), nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(ctx context.Context, filter *repository.Filter) ([]*model.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var users []*storedUser
	if err := r.s.readList(keyUsers, &users); err != nil {
		return nil, err
	}

	out := make([]*model.UserProfile, 0, len(users))
	for _, u := range users {
		if filter != nil && filter.Field == "university" && u.University != filter.Value {
			continue
		}
		out = append(out, u.toModel())
	}
	sortByCreatedAtDesc(out, func(u *model.UserProfile) time.Time { return u.CreatedAt })
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, uid string, patch repository.UserPatch) (*model.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var users []*storedUser
	if err := r.s.readList(keyUsers, &users); err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.UID != uid {
			continue
		}
		applyString(&u.Username, patch.Username)
		applyString(&u.Fullname, patch.Fullname)
		applyString(&u.Major, patch.Major)
		applyString(&u.University, patch.University)
		applyString(&u.Year, patch.Year)
		applyString(&u.Phone, patch.Phone)
		applyString(&u.Bio, patch.Bio)
		applyString(&u.Avatar, patch.Avatar)

		if err := r.s.writeList(keyUsers, users); err != nil {
			return nil, err
		}

		// Keep the persisted session in step with the edited profile, the
		// way the original fallback did.
		if r.s.session != nil && r.s.session.UID == uid {
			c := u.UserProfile
			c.PasswordHash = ""
			r.s.session = &c
			if err := r.s.writeList(keySession, &c); err != nil {
				return nil, err
			}
		}

		return u.toModel(), nil
	}

	return nil, apperror.ErrNotFound
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
