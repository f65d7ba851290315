package localrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
	"kampusconnect.id/forum/pkg/apperror"
)

type commentRepo struct {
	s *Store
}

var _ repository.CommentRepository = (*commentRepo)(nil)

func (r *commentRepo) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var comments []*model.Comment
	if err := r.s.readList(keyComments, &comments); err != nil {
		return nil, err
	}

	stored := *comment
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.CreatedAt = time.Now().UTC()

	comments = append([]*model.Comment{&stored}, comments...)
	if err := r.s.writeList(keyComments, comments); err != nil {
		return nil, err
	}

	out := stored
	return &out, nil
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var comments []*model.Comment
	if err := r.s.readList(keyComments, &comments); err != nil {
		return nil, err
	}
	for _, c := range comments {
		if c.ID == id {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *commentRepo) ListByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var comments []*model.Comment
	if err := r.s.readList(keyComments, &comments); err != nil {
		return nil, err
	}

	out := make([]*model.Comment, 0)
	for _, c := range comments {
		if c.PostID == postID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sortByCreatedAtDesc(out, func(c *model.Comment) time.Time { return c.CreatedAt })
	return out, nil
}

func (r *commentRepo) Update(ctx context.Context, id string, patch repository.CommentPatch) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var comments []*model.Comment
	if err := r.s.readList(keyComments, &comments); err != nil {
		return nil, err
	}
	for _, c := range comments {
		if c.ID != id {
			continue
		}
		applyString(&c.Content, patch.Content)
		if err := r.s.writeList(keyComments, comments); err != nil {
			return nil, err
		}
		out := *c
		return &out, nil
	}
	return nil, apperror.ErrNotFound
}

func (r *commentRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var comments []*model.Comment
	if err := r.s.readList(keyComments, &comments); err != nil {
		return err
	}
	kept := comments[:0]
	for _, c := range comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	return r.s.writeList(keyComments, kept)
}

func (r *commentRepo) Subscribe(postID string, fn func(comments []*model.Comment)) repository.Unsubscribe {
	comments, err := r.ListByPost(context.Background(), postID)
	if err == nil {
		fn(comments)
	}
	return noopUnsubscribe()
}
