package service

import (
	"context"
	"io"
	"log"

	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
	"kampusconnect.id/forum/pkg/apperror"
	"kampusconnect.id/forum/pkg/storage"
)

// AvatarFile is an uploaded avatar image.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
}

type UpdateProfileInput struct {
	Username   *string `json:"username" binding:"omitempty,min=3,max=50"`
	Fullname   *string `json:"fullname" binding:"omitempty,max=100"`
	Major      *string `json:"major" binding:"omitempty,max=100"`
	University *string `json:"university" binding:"omitempty,max=100"`
	Year       *string `json:"year" binding:"omitempty,max=20"`
	Phone      *string `json:"phone" binding:"omitempty,max=30"`
	Bio        *string `json:"bio"`
}

type ProfileService interface {
	Get(ctx context.Context, uid string) (*model.UserProfile, error)
	Update(ctx context.Context, uid string, input UpdateProfileInput) (*model.UserProfile, error)
	// UpdateAvatar uploads the image and stores its URL on the profile.
	UpdateAvatar(ctx context.Context, uid string, avatar AvatarFile) (*model.UserProfile, error)
	// PostsByAuthor backs the "my posts" tab on the profile page.
	PostsByAuthor(ctx context.Context, uid string) ([]*model.Post, error)
}

type profileService struct {
	users        repository.UserRepository
	posts        repository.PostRepository
	imageStorage storage.ImageStorage
}

func NewProfileService(users repository.UserRepository, posts repository.PostRepository, imageStorage storage.ImageStorage) ProfileService {
	return &profileService{
		users:        users,
		posts:        posts,
		imageStorage: imageStorage,
	}
}

func (s *profileService) Get(ctx context.Context, uid string) (*model.UserProfile, error) {
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) Update(ctx context.Context, uid string, input UpdateProfileInput) (*model.UserProfile, error) {
	patch := repository.UserPatch{
		Username:   input.Username,
		Fullname:   input.Fullname,
		Major:      input.Major,
		University: input.University,
		Year:       input.Year,
		Phone:      input.Phone,
		Bio:        input.Bio,
	}

	updated, err := s.users.Update(ctx, uid, patch)
	if err != nil {
		return nil, err
	}
	updated.PasswordHash = ""
	return updated, nil
}

func (s *profileService) UpdateAvatar(ctx context.Context, uid string, avatar AvatarFile) (*model.UserProfile, error) {
	if s.imageStorage == nil {
		return nil, apperror.New(503, "avatar uploads are not configured", nil)
	}
	if avatar.Reader == nil {
		return nil, apperror.ErrInvalidInput
	}

	current, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperror.ErrNotFound
	}

	url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.Update(ctx, uid, repository.UserPatch{Avatar: &url})
	if err != nil {
		return nil, err
	}

	// Generated dicebear avatars are external and are left alone.
	if old := current.Avatar; old != "" && old != url && old != model.DefaultAvatarURL(current.Username) {
		if err := s.imageStorage.DeleteImage(ctx, old); err != nil {
			log.Printf("Failed to delete previous avatar for user %s: %v", uid, err)
		}
	}

	updated.PasswordHash = ""
	return updated, nil
}

func (s *profileService) PostsByAuthor(ctx context.Context, uid string) ([]*model.Post, error) {
	return s.posts.List(ctx, &repository.Filter{Field: "authorId", Value: uid})
}
