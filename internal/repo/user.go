package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/favorites_api/internal/models"
)

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) UserEmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return count > 0, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *GormRepo) CreateAccessToken(ctx context.Context, t *models.AccessToken) error {
	if err := r.DB.WithContext(ctx).Create(t).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *GormRepo) FindAccessToken(ctx context.Context, jti string) (*models.AccessToken, error) {
	var token models.AccessToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

func (r *GormRepo) TouchAccessToken(ctx context.Context, id uint, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.AccessToken{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
}
