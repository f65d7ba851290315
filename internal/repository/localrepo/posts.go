package localrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
	"kampusconnect.id/forum/pkg/apperror"
)

type postRepo struct {
	s *Store
}

var _ repository.PostRepository = (*postRepo)(nil)

func (r *postRepo) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var posts []*model.Post
	if err := r.s.readList(keyPosts, &posts); err != nil {
		return nil, err
	}

	stored := *post
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.CreatedAt = time.Now().UTC()
	stored.Likes, stored.Dislikes, stored.Replies, stored.Views = 0, 0, 0, 0
	stored.LikesUserIDs = model.UserIDSet{}
	stored.DislikesUserIDs = model.UserIDSet{}

	posts = append([]*model.Post{&stored}, posts...)
	if err := r.s.writeList(keyPosts, posts); err != nil {
		return nil, err
	}

	return clonePost(&stored), nil
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var posts []*model.Post
	if err := r.s.readList(keyPosts, &posts); err != nil {
		return nil, err
	}
	for _, p := range posts {
		if p.ID == id {
			return clonePost(p), nil
		}
	}
	return nil, nil
}

func (r *postRepo) List(ctx context.Context, filter *repository.Filter) ([]*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var posts []*model.Post
	if err := r.s.readList(keyPosts, &posts); err != nil {
		return nil, err
	}

	out := make([]*model.Post, 0, len(posts))
	for _, p := range posts {
		if !matchPost(p, filter) {
			continue
		}
		out = append(out, clonePost(p))
	}
	sortByCreatedAtDesc(out, func(p *model.Post) time.Time { return p.CreatedAt })
	return out, nil
}

func matchPost(p *model.Post, filter *repository.Filter) bool {
	if filter == nil {
		return true
	}
	switch filter.Field {
	case "type":
		return string(p.Type) == filter.Value
	case "topic":
		return p.Topic == filter.Value
	case "authorId":
		return p.AuthorID == filter.Value
	}
	return true
}

func (r *postRepo) Update(ctx context.Context, id string, patch repository.PostPatch) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var posts []*model.Post
	if err := r.s.readList(keyPosts, &posts); err != nil {
		return nil, err
	}

	for _, p := range posts {
		if p.ID != id {
			continue
		}
		applyString(&p.Title, patch.Title)
		applyString(&p.Content, patch.Content)
		applyString(&p.Topic, patch.Topic)
		if patch.Type != nil {
			p.Type = *patch.Type
		}
		if err := r.s.writeList(keyPosts, posts); err != nil {
			return nil, err
		}
		return clonePost(p), nil
	}

	return nil, apperror.ErrNotFound
}

// Delete removes the post and every comment whose postId matches, under one
// lock, so the fallback cannot leave orphans.
func (r *postRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var posts []*model.Post
	if err := r.s.readList(keyPosts, &posts); err != nil {
		return err
	}

	kept := posts[:0]
	for _, p := range posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if err := r.s.writeList(keyPosts, kept); err != nil {
		return err
	}

	var comments []*model.Comment
	if err := r.s.readList(keyComments, &comments); err != nil {
		return err
	}
	keptComments := comments[:0]
	for _, c := range comments {
		if c.PostID != id {
			keptComments = append(keptComments, c)
		}
	}
	return r.s.writeList(keyComments, keptComments)
}

func (r *postRepo) ToggleReaction(ctx context.Context, postID, userID string, reaction model.Reaction) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var posts []*model.Post
	if err := r.s.readList(keyPosts, &posts); err != nil {
		return nil, err
	}

	for _, p := range posts {
		if p.ID != postID {
			continue
		}
		p.ApplyReaction(userID, reaction)
		if err := r.s.writeList(keyPosts, posts); err != nil {
			return nil, err
		}
		return clonePost(p), nil
	}

	return nil, apperror.ErrNotFound
}

func (r *postRepo) IncrementViews(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var posts []*model.Post
	if err := r.s.readList(keyPosts, &posts); err != nil {
		return err
	}
	for _, p := range posts {
		if p.ID == id {
			p.Views++
			return r.s.writeList(keyPosts, posts)
		}
	}
	return apperror.ErrNotFound
}

func (r *postRepo) AdjustReplies(ctx context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var posts []*model.Post
	if err := r.s.readList(keyPosts, &posts); err != nil {
		return err
	}
	for _, p := range posts {
		if p.ID == id {
			p.Replies += delta
			if p.Replies < 0 {
				p.Replies = 0
			}
			return r.s.writeList(keyPosts, posts)
		}
	}
	return apperror.ErrNotFound
}

// Subscribe has no realtime channel to offer: it delivers one snapshot and
// returns an unsubscribe that does nothing.
func (r *postRepo) Subscribe(filter *repository.Filter, fn func(posts []*model.Post)) repository.Unsubscribe {
	posts, err := r.List(context.Background(), filter)
	if err == nil {
		fn(posts)
	}
	return noopUnsubscribe()
}

func clonePost(p *model.Post) *model.Post {
	out := *p
	out.LikesUserIDs = append(model.UserIDSet{}, p.LikesUserIDs...)
	out.DislikesUserIDs = append(model.UserIDSet{}, p.DislikesUserIDs...)
	return &out
}
