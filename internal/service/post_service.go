package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
	"kampusconnect.id/forum/pkg/apperror"
)

type CreatePostInput struct {
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
	Topic   string `json:"topic" binding:"required,max=100"`
	Type    string `json:"type" binding:"required,oneof=ask discussion project"`
}

type UpdatePostInput struct {
	Title   *string `json:"title" binding:"omitempty,max=255"`
	Content *string `json:"content"`
	Topic   *string `json:"topic" binding:"omitempty,max=100"`
	Type    *string `json:"type" binding:"omitempty,oneof=ask discussion project"`
}

type PostFilters struct {
	Type     string
	Topic    string
	AuthorID string
}

type PostService interface {
	Create(ctx context.Context, author *model.UserProfile, input CreatePostInput) (*model.Post, error)
	// GetByID bumps the view counter before returning the post.
	GetByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context, filters PostFilters) ([]*model.Post, error)
	Update(ctx context.Context, actorID, id string, input UpdatePostInput) (*model.Post, error)
	Delete(ctx context.Context, actorID, id string) error
	Subscribe(filters PostFilters, fn func(posts []*model.Post)) repository.Unsubscribe
}

type postService struct {
	posts       repository.PostRepository
	search      SearchService
	redisClient *redis.Client
	rateLimit   time.Duration
	sanitizer   *bluemonday.Policy
}

func NewPostService(posts repository.PostRepository, search SearchService, redisClient *redis.Client, rateLimit time.Duration) PostService {
	return &postService{
		posts:       posts,
		search:      search,
		redisClient: redisClient,
		rateLimit:   rateLimit,
		sanitizer:   bluemonday.UGCPolicy(),
	}
}

func (s *postService) Create(ctx context.Context, author *model.UserProfile, input CreatePostInput) (*model.Post, error) {
	postType := model.PostType(input.Type)
	if !postType.Valid() {
		return nil, apperror.ErrInvalidInput
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, author.UID, "create_post", s.rateLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, rateLimitedError(ctx, s.redisClient, author.UID, "create_post", s.rateLimit)
	}

	authorName := author.Fullname
	if authorName == "" {
		authorName = author.Username
	}

	post := &model.Post{
		Title:      strings.TrimSpace(input.Title),
		Content:    s.sanitizer.Sanitize(input.Content),
		Topic:      strings.TrimSpace(input.Topic),
		Type:       postType,
		AuthorID:   author.UID,
		AuthorName: authorName,
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	if err := s.search.IndexPost(created); err != nil {
		log.Printf("Failed to index post %s: %v", created.ID, err)
	}

	return created, nil
}

func (s *postService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperror.ErrNotFound
	}

	// The view counter is bumped on every read, author included. The bump
	// is reflected in the returned post without a second read.
	if err := s.posts.IncrementViews(ctx, id); err != nil {
		log.Printf("Failed to increment views for post %s: %v", id, err)
	} else {
		post.Views++
	}

	return post, nil
}

func (s *postService) List(ctx context.Context, filters PostFilters) ([]*model.Post, error) {
	return s.posts.List(ctx, filtersToRepo(filters))
}

func (s *postService) Update(ctx context.Context, actorID, id string, input UpdatePostInput) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperror.ErrNotFound
	}
	if post.AuthorID != actorID {
		return nil, apperror.ErrForbidden
	}

	patch := repository.PostPatch{
		Title: input.Title,
		Topic: input.Topic,
	}
	if input.Content != nil {
		sanitized := s.sanitizer.Sanitize(*input.Content)
		patch.Content = &sanitized
	}
	if input.Type != nil {
		postType := model.PostType(*input.Type)
		if !postType.Valid() {
			return nil, apperror.ErrInvalidInput
		}
		patch.Type = &postType
	}

	updated, err := s.posts.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if err := s.search.IndexPost(updated); err != nil {
		log.Printf("Failed to reindex post %s: %v", updated.ID, err)
	}

	return updated, nil
}

func (s *postService) Delete(ctx context.Context, actorID, id string) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return apperror.ErrNotFound
	}
	if post.AuthorID != actorID {
		return apperror.ErrForbidden
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.search.DeletePost(id); err != nil {
		log.Printf("Failed to remove post %s from search index: %v", id, err)
	}

	return nil
}

func (s *postService) Subscribe(filters PostFilters, fn func(posts []*model.Post)) repository.Unsubscribe {
	return s.posts.Subscribe(filtersToRepo(filters), fn)
}

func filtersToRepo(filters PostFilters) *repository.Filter {
	switch {
	case filters.Type != "":
		return &repository.Filter{Field: "type", Value: filters.Type}
	case filters.Topic != "":
		return &repository.Filter{Field: "topic", Value: filters.Topic}
	case filters.AuthorID != "":
		return &repository.Filter{Field: "authorId", Value: filters.AuthorID}
	}
	return nil
}
