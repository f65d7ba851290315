package gormrepo

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
	"kampusconnect.id/forum/pkg/apperror"
)

type commentRepo struct {
	b *Backend
}

var _ repository.CommentRepository = (*commentRepo)(nil)

func (r *commentRepo) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	stored := *comment
	if err := r.b.db.WithContext(ctx).Create(&stored).Error; err != nil {
		return nil, err
	}

	created, err := r.GetByID(ctx, stored.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = &stored
	}

	r.b.publishChange(ctx, collectionComments)
	return created, nil
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.b.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepo) ListByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.b.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at desc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepo) Update(ctx context.Context, id string, patch repository.CommentPatch) (*model.Comment, error) {
	if patch.Content != nil {
		res := r.b.db.WithContext(ctx).
			Model(&model.Comment{}).
			Where("id = ?", id).
			Update("content", *patch.Content)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, apperror.ErrNotFound
		}
		r.b.publishChange(ctx, collectionComments)
	}

	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.ErrNotFound
	}
	return updated, nil
}

func (r *commentRepo) Delete(ctx context.Context, id string) error {
	if err := r.b.db.WithContext(ctx).Delete(&model.Comment{}, "id = ?", id).Error; err != nil {
		return err
	}
	r.b.publishChange(ctx, collectionComments)
	return nil
}

func (r *commentRepo) Subscribe(postID string, fn func(comments []*model.Comment)) repository.Unsubscribe {
	return r.b.subscribeChanges(collectionComments, func() {
		comments, err := r.ListByPost(context.Background(), postID)
		if err != nil {
			log.Printf("comment subscription refresh failed: %v", err)
			return
		}
		fn(comments)
	})
}
