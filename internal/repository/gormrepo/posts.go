package gormrepo

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
	"kampusconnect.id/forum/pkg/apperror"
)

type postRepo struct {
	b *Backend
}

var _ repository.PostRepository = (*postRepo)(nil)

func (r *postRepo) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	stored := *post
	stored.Likes, stored.Dislikes, stored.Replies, stored.Views = 0, 0, 0, 0
	stored.LikesUserIDs = model.UserIDSet{}
	stored.DislikesUserIDs = model.UserIDSet{}

	if err := r.b.db.WithContext(ctx).Create(&stored).Error; err != nil {
		return nil, err
	}

	// Re-read so CreatedAt reflects the server-assigned time.
	created, err := r.GetByID(ctx, stored.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = &stored
	}

	r.b.publishChange(ctx, collectionPosts)
	return created, nil
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := r.b.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) List(ctx context.Context, filter *repository.Filter) ([]*model.Post, error) {
	q := r.b.db.WithContext(ctx).Model(&model.Post{}).Order("created_at desc")
	if filter != nil {
		switch filter.Field {
		case "type":
			q = q.Where("type = ?", filter.Value)
		case "topic":
			q = q.Where("topic = ?", filter.Value)
		case "authorId":
			q = q.Where("author_id = ?", filter.Value)
		}
	}

	var posts []*model.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepo) Update(ctx context.Context, id string, patch repository.PostPatch) (*model.Post, error) {
	updates := map[string]any{}
	setString(updates, "title", patch.Title)
	setString(updates, "content", patch.Content)
	setString(updates, "topic", patch.Topic)
	if patch.Type != nil {
		updates["type"] = string(*patch.Type)
	}

	if len(updates) > 0 {
		res := r.b.db.WithContext(ctx).
			Model(&model.Post{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, apperror.ErrNotFound
		}
		r.b.publishChange(ctx, collectionPosts)
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

// Delete removes the post, then its comments one by one. The cascade is not
// transactional with the post delete: a crash mid-way can leave orphaned
// comments. That matches the hosted-store behavior this backend replaces and
// is documented rather than remediated.
func (r *postRepo) Delete(ctx context.Context, id string) error {
	if err := r.b.db.WithContext(ctx).Delete(&model.Post{}, "id = ?", id).Error; err != nil {
		return err
	}
	r.b.publishChange(ctx, collectionPosts)

	var comments []*model.Comment
	if err := r.b.db.WithContext(ctx).Where("post_id = ?", id).Find(&comments).Error; err != nil {
		return err
	}
	for _, c := range comments {
		if err := r.b.db.WithContext(ctx).Delete(&model.Comment{}, "id = ?", c.ID).Error; err != nil {
			log.Printf("cascade delete left comment %s orphaned: %v", c.ID, err)
			return err
		}
	}
	if len(comments) > 0 {
		r.b.publishChange(ctx, collectionComments)
	}
	return nil
}

// ToggleReaction runs the read-modify-write inside one transaction with a
// row lock, so concurrent toggles on the same post cannot corrupt the sets.
func (r *postRepo) ToggleReaction(ctx context.Context, postID, userID string, reaction model.Reaction) (*model.Post, error) {
	var out model.Post

	err := r.b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", postID).
			First(&post).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		if err != nil {
			return err
		}

		post.ApplyReaction(userID, reaction)

		// One update carries both sets and both derived counts.
		if err := tx.Model(&model.Post{}).Where("id = ?", postID).Updates(map[string]any{
			"likes":             post.Likes,
			"dislikes":          post.Dislikes,
			"likes_user_ids":    post.LikesUserIDs,
			"dislikes_user_ids": post.DislikesUserIDs,
		}).Error; err != nil {
			return err
		}

		out = post
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.b.publishChange(ctx, collectionPosts)
	return &out, nil
}

func (r *postRepo) IncrementViews(ctx context.Context, id string) error {
	res := r.b.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	r.b.publishChange(ctx, collectionPosts)
	return nil
}

func (r *postRepo) AdjustReplies(ctx context.Context, id string, delta int) error {
	res := r.b.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("replies", gorm.Expr("GREATEST(replies + ?, 0)", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	r.b.publishChange(ctx, collectionPosts)
	return nil
}

func (r *postRepo) Subscribe(filter *repository.Filter, fn func(posts []*model.Post)) repository.Unsubscribe {
	return r.b.subscribeChanges(collectionPosts, func() {
		posts, err := r.List(context.Background(), filter)
		if err != nil {
			log.Printf("post subscription refresh failed: %v", err)
			return
		}
		fn(posts)
	})
}
