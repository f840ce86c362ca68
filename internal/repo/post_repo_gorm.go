package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"datagov-console/internal/domain"
)

type PostRepo struct{ db *gorm.DB }

func NewPostRepo(db *gorm.DB) *PostRepo { return &PostRepo{db: db} }

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PostRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	var p domain.Post
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *PostRepo) ListByUserID(ctx context.Context, userID string) ([]domain.Post, error) {
	var posts []domain.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (r *PostRepo) MarkDeleted(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", id).
		Updates(map[string]any{"is_deleted": true, "deleted_at": at, "updated_at": at}).Error
}

// MarkDeletedByUserID 条件里带 is_deleted=false，已软删帖子的 deleted_at 不被覆盖
func (r *PostRepo) MarkDeletedByUserID(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Post{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Updates(map[string]any{"is_deleted": true, "deleted_at": at, "updated_at": at}).Error
}

func (r *PostRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Post{}).Error
}
