package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
	"kampusconnect.id/forum/pkg/apperror"
)

type userRepo struct {
	b *Backend
}

var _ repository.UserRepository = (*userRepo)(nil)

func (r *userRepo) Create(ctx context.Context, user *model.UserProfile) (*model.UserProfile, error) {
	stored := *user
	if err := r.b.db.WithContext(ctx).Create(&stored).Error; err != nil {
		return nil, err
	}
	r.b.publishChange(ctx, collectionUsers)
	return &stored, nil
}

func (r *userRepo) GetByID(ctx context.Context, uid string) (*model.UserProfile, error) {
	var user model.UserProfile
	err := r.b.db.WithContext(ctx).Where("uid = ?", uid).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	var user model.UserProfile
	err := r.b.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, filter *repository.Filter) ([]*model.UserProfile, error) {
	q := r.b.db.WithContext(ctx).Model(&model.UserProfile{}).Order("created_at desc")
	if filter != nil && filter.Field == "university" {
		q = q.Where("university = ?", filter.Value)
	}

	var users []*model.UserProfile
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Update(ctx context.Context, uid string, patch repository.UserPatch) (*model.UserProfile, error) {
	updates := map[string]any{}
	setString(updates, "username", patch.Username)
	setString(updates, "fullname", patch.Fullname)
	setString(updates, "major", patch.Major)
	setString(updates, "university", patch.University)
	setString(updates, "year", patch.Year)
	setString(updates, "phone", patch.Phone)
	setString(updates, "bio", patch.Bio)
	setString(updates, "avatar", patch.Avatar)

	if len(updates) > 0 {
		res := r.b.db.WithContext(ctx).
			Model(&model.UserProfile{}).
			Where("uid = ?", uid).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, apperror.ErrNotFound
		}
		r.b.publishChange(ctx, collectionUsers)
	}

	updated, err := r.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.ErrNotFound
	}
	return updated, nil
}

func setString(updates map[string]any, column string, v *string) {
	if v != nil {
		updates[column] = *v
	}
}
