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

type CreateCommentInput struct {
	Content string `json:"content" binding:"required"`
}

type UpdateCommentInput struct {
	Content string `json:"content" binding:"required"`
}

type CommentService interface {
	// Create stores the comment, bumps the post's reply counter and fans out
	// notifications. The three writes are sequential, not atomic: the comment
	// is authoritative, the counter and notifications are best effort.
	Create(ctx context.Context, author *model.UserProfile, postID string, input CreateCommentInput) (*model.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*model.Comment, error)
	Update(ctx context.Context, actorID, id string, input UpdateCommentInput) (*model.Comment, error)
	Delete(ctx context.Context, actorID, id string) error
	Subscribe(postID string, fn func(comments []*model.Comment)) repository.Unsubscribe
}

type commentService struct {
	comments      repository.CommentRepository
	posts         repository.PostRepository
	notifications NotificationService
	redisClient   *redis.Client
	rateLimit     time.Duration
	sanitizer     *bluemonday.Policy
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, notifications NotificationService, redisClient *redis.Client, rateLimit time.Duration) CommentService {
	return &commentService{
		comments:      comments,
		posts:         posts,
		notifications: notifications,
		redisClient:   redisClient,
		rateLimit:     rateLimit,
		sanitizer:     bluemonday.UGCPolicy(),
	}
}

func (s *commentService) Create(ctx context.Context, author *model.UserProfile, postID string, input CreateCommentInput) (*model.Comment, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, author.UID, "create_comment", s.rateLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, rateLimitedError(ctx, s.redisClient, author.UID, "create_comment", s.rateLimit)
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperror.ErrNotFound
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(input.Content))
	if content == "" {
		return nil, apperror.ErrInvalidInput
	}

	authorName := author.Fullname
	if authorName == "" {
		authorName = author.Username
	}

	comment := &model.Comment{
		PostID:       postID,
		Content:      content,
		AuthorID:     author.UID,
		AuthorName:   authorName,
		AuthorAvatar: author.Avatar,
	}

	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	if err := s.posts.AdjustReplies(ctx, postID, 1); err != nil {
		log.Printf("Failed to bump reply counter for post %s: %v", postID, err)
	}

	s.fanOut(ctx, post, created)

	return created, nil
}

// fanOut notifies the post author and every earlier commenter, once each.
// Nobody is notified about their own comment. Failures are logged and never
// surfaced to the commenter.
func (s *commentService) fanOut(ctx context.Context, post *model.Post, comment *model.Comment) {
	recipients := map[string]string{}
	if post.AuthorID != "" && post.AuthorID != comment.AuthorID {
		recipients[post.AuthorID] = model.NotificationComment
	}

	existing, err := s.comments.ListByPost(ctx, post.ID)
	if err != nil {
		log.Printf("Failed to list commenters for post %s: %v", post.ID, err)
	} else {
		for _, c := range existing {
			if c.ID == comment.ID || c.AuthorID == "" || c.AuthorID == comment.AuthorID {
				continue
			}
			if _, ok := recipients[c.AuthorID]; ok {
				continue
			}
			recipients[c.AuthorID] = model.NotificationReply
		}
	}

	for userID, notifType := range recipients {
		n := &model.Notification{
			UserID:      userID,
			Type:        notifType,
			PostID:      post.ID,
			PostTitle:   post.Title,
			ActorID:     comment.AuthorID,
			ActorName:   comment.AuthorName,
			ActorAvatar: comment.AuthorAvatar,
			Content:     comment.Content,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			log.Printf("Failed to notify user %s about post %s: %v", userID, post.ID, err)
		}
	}
}

func (s *commentService) ListByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

func (s *commentService) Update(ctx context.Context, actorID, id string, input UpdateCommentInput) (*model.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperror.ErrNotFound
	}
	if comment.AuthorID != actorID {
		return nil, apperror.ErrForbidden
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(input.Content))
	if content == "" {
		return nil, apperror.ErrInvalidInput
	}

	return s.comments.Update(ctx, id, repository.CommentPatch{Content: &content})
}

func (s *commentService) Delete(ctx context.Context, actorID, id string) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperror.ErrNotFound
	}
	if comment.AuthorID != actorID {
		return apperror.ErrForbidden
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.posts.AdjustReplies(ctx, comment.PostID, -1); err != nil {
		log.Printf("Failed to lower reply counter for post %s: %v", comment.PostID, err)
	}

	return nil
}

func (s *commentService) Subscribe(postID string, fn func(comments []*model.Comment)) repository.Unsubscribe {
	return s.comments.Subscribe(postID, fn)
}
