package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"datagov-console/internal/domain"
)

type PreferenceRepo struct{ db *gorm.DB }

func NewPreferenceRepo(db *gorm.DB) *PreferenceRepo { return &PreferenceRepo{db: db} }

func (r *PreferenceRepo) FindByUserID(ctx context.Context, userID string) (*domain.Preference, error) {
	var p domain.Preference
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *PreferenceRepo) Save(ctx context.Context, p *domain.Preference) error {
	err := r.db.WithContext(ctx).Save(p).Error
	if isDupKey(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *PreferenceRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Preference{}).Error
}
