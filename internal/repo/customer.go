package repo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/favorites_api/internal/models"
)

func (r *GormRepo) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	items := make([]models.Customer, 0)
	if err := r.DB.WithContext(ctx).Order("id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return items, nil
}

func (r *GormRepo) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

// CustomerEmailTaken reports whether email belongs to a customer other than exceptID.
// Pass 0 to check against every customer.
func (r *GormRepo) CustomerEmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	q := r.DB.WithContext(ctx).Model(&models.Customer{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("count customers by email: %w", err)
	}
	return count > 0, nil
}

func (r *GormRepo) CreateCustomer(ctx context.Context, c *models.Customer) error {
	if err := r.DB.WithContext(ctx).Create(c).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *GormRepo) SaveCustomer(ctx context.Context, c *models.Customer) error {
	if err := r.DB.WithContext(ctx).Save(c).Error; err != nil {
		return translate(err)
	}
	return nil
}

// DeleteCustomer removes the customer and its favorites in one transaction.
func (r *GormRepo) DeleteCustomer(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return fmt.Errorf("delete favorites: %w", err)
		}
		res := tx.Delete(&models.Customer{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete customer: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchCustomers matches q literally as a case-insensitive substring of name or email.
func (r *GormRepo) SearchCustomers(ctx context.Context, q string) ([]models.Customer, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	items := make([]models.Customer, 0)
	if err := r.DB.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("id DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return items, nil
}

// CustomersByIDs loads customers keeping the order of ids; unknown ids are skipped.
func (r *GormRepo) CustomersByIDs(ctx context.Context, ids []uint) ([]models.Customer, error) {
	out := make([]models.Customer, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var found []models.Customer
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("customers by ids: %w", err)
	}
	byID := make(map[uint]models.Customer, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}
