package service

import (
	"context"
	"sync"

	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
	"kampusconnect.id/forum/pkg/apperror"
)

type VoteService interface {
	// Toggle applies a like or dislike for userID and returns the updated
	// post. Repeating the same reaction removes it; switching reactions moves
	// the user between sets.
	Toggle(ctx context.Context, userID, postID string, reaction model.Reaction) (*model.Post, error)
}

type voteService struct {
	posts repository.PostRepository

	// Rapid repeat taps from the same user are serialized so each toggle
	// observes the previous one. Distinct users proceed in parallel; the
	// repositories guard cross-user races themselves.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewVoteService(posts repository.PostRepository) VoteService {
	return &voteService{
		posts: posts,
		locks: map[string]*sync.Mutex{},
	}
}

func (s *voteService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func (s *voteService) Toggle(ctx context.Context, userID, postID string, reaction model.Reaction) (*model.Post, error) {
	if reaction != model.ReactionLike && reaction != model.ReactionDislike {
		return nil, apperror.ErrInvalidInput
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	post, err := s.posts.ToggleReaction(ctx, postID, userID, reaction)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperror.ErrNotFound
	}
	return post, nil
}
