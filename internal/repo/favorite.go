package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/favorites_api/internal/models"
)

func (r *GormRepo) FavoritesOf(ctx context.Context, customerID uint) ([]models.Favorite, error) {
	items := make([]models.Favorite, 0)
	if err := r.DB.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("favorites of customer %d: %w", customerID, err)
	}
	return items, nil
}

func (r *GormRepo) CustomerOf(ctx context.Context, f *models.Favorite) (*models.Customer, error) {
	return r.GetCustomer(ctx, f.CustomerID)
}

func (r *GormRepo) FindFavorite(ctx context.Context, customerID, productID uint) (*models.Favorite, error) {
	var fav models.Favorite
	if err := r.DB.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&fav).Error; err != nil {
		return nil, translate(err)
	}
	return &fav, nil
}

func (r *GormRepo) CreateFavorite(ctx context.Context, f *models.Favorite) error {
	if err := r.DB.WithContext(ctx).Create(f).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *GormRepo) DeleteFavorite(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Favorite{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
