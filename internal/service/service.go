package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/favorites_api/internal/catalog"
	"github.com/Skotchmaster/favorites_api/internal/models"
	"github.com/Skotchmaster/favorites_api/internal/validation"
	"github.com/Skotchmaster/favorites_api/pkg/logging"
)

var (
	ErrValidation         = validation.ErrInvalid
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidProduct     = errors.New("invalid product")

	ErrCustomerNotFound = fmt.Errorf("customer %w", ErrNotFound)
	ErrFavoriteNotFound = fmt.Errorf("favorite %w", ErrNotFound)
	ErrEmailInUse       = fmt.Errorf("email already in use: %w", ErrConflict)
	ErrAlreadyFavorited = fmt.Errorf("already favorited: %w", ErrConflict)
)

// CredentialStore is the user side of the password/token provider.
type CredentialStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UserEmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u *models.User) error
}

type TokenStore interface {
	CreateAccessToken(ctx context.Context, t *models.AccessToken) error
	FindAccessToken(ctx context.Context, jti string) (*models.AccessToken, error)
	TouchAccessToken(ctx context.Context, id uint, at time.Time) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type CustomerStore interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
	CustomerEmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	CreateCustomer(ctx context.Context, c *models.Customer) error
	SaveCustomer(ctx context.Context, c *models.Customer) error
	DeleteCustomer(ctx context.Context, id uint) error
	SearchCustomers(ctx context.Context, q string) ([]models.Customer, error)
	CustomersByIDs(ctx context.Context, ids []uint) ([]models.Customer, error)
}

type FavoriteStore interface {
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
	FavoritesOf(ctx context.Context, customerID uint) ([]models.Favorite, error)
	FindFavorite(ctx context.Context, customerID, productID uint) (*models.Favorite, error)
	CreateFavorite(ctx context.Context, f *models.Favorite) error
	DeleteFavorite(ctx context.Context, id uint) error
}

type ProductCatalog interface {
	GetByID(ctx context.Context, id uint) *catalog.Product
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type CustomerIndex interface {
	IndexCustomer(ctx context.Context, c models.Customer) error
	RemoveCustomer(ctx context.Context, id uint) error
	SearchCustomers(ctx context.Context, q string) ([]uint, error)
}

const publishTimeout = 5 * time.Second

// publish is best effort: the write it reports on has already been committed.
func publish(ctx context.Context, p EventPublisher, topic string, key uint, event any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, fmt.Sprint(key), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", topic, "key", key, "error", err)
	}
}
