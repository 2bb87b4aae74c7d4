package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/favorites_api/internal/models"
	"github.com/Skotchmaster/favorites_api/internal/mykafka"
	"github.com/Skotchmaster/favorites_api/internal/repo"
	"github.com/Skotchmaster/favorites_api/internal/transport"
	"github.com/Skotchmaster/favorites_api/internal/validation"
)

const DefaultLookupConcurrency = 8

type FavoriteService struct {
	Repo        FavoriteStore
	Catalog     ProductCatalog
	Events      EventPublisher
	Concurrency int
}

// Customer returns the owner of a favorites list or ErrCustomerNotFound.
func (s *FavoriteService) Customer(ctx context.Context, customerID uint) (*models.Customer, error) {
	return lookupCustomer(ctx, s.Repo, customerID)
}

// FindAll lists the customer's favorites in insertion order, each enriched
// with a live catalog lookup. Products the catalog cannot supply are kept as
// bare ids.
func (s *FavoriteService) FindAll(ctx context.Context, customerID uint) ([]transport.FavoriteItem, error) {
	if _, err := lookupCustomer(ctx, s.Repo, customerID); err != nil {
		return nil, err
	}
	favs, err := s.Repo.FavoritesOf(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultLookupConcurrency
	}

	items := make([]transport.FavoriteItem, len(favs))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, f := range favs {
		g.Go(func() error {
			items[i] = transport.FavoriteItem{
				ProductID: f.ProductID,
				Product:   transport.NewProductView(s.Catalog.GetByID(ctx, f.ProductID)),
			}
			return nil
		})
	}
	// Lookups never fail: a product the catalog cannot supply stays a bare id.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *FavoriteService) Add(ctx context.Context, customerID uint, rawProductID any) (*transport.ProductView, error) {
	c, err := lookupCustomer(ctx, s.Repo, customerID)
	if err != nil {
		return nil, err
	}

	productID, err := validation.ProductID(rawProductID)
	if err != nil {
		return nil, err
	}

	product := s.Catalog.GetByID(ctx, productID)
	if product == nil {
		return nil, ErrInvalidProduct
	}

	_, err = s.Repo.FindFavorite(ctx, c.ID, productID)
	switch {
	case err == nil:
		return nil, ErrAlreadyFavorited
	case !errors.Is(err, repo.ErrNotFound):
		return nil, fmt.Errorf("find favorite: %w", err)
	}

	f := &models.Favorite{CustomerID: c.ID, ProductID: productID}
	if err := s.Repo.CreateFavorite(ctx, f); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrAlreadyFavorited
		}
		return nil, fmt.Errorf("create favorite: %w", err)
	}

	s.emit(ctx, "favorite_added", c.ID, productID)
	return transport.NewProductView(product), nil
}

func (s *FavoriteService) Remove(ctx context.Context, customerID, productID uint) error {
	c, err := lookupCustomer(ctx, s.Repo, customerID)
	if err != nil {
		return err
	}
	if productID == 0 {
		return ErrFavoriteNotFound
	}

	f, err := s.Repo.FindFavorite(ctx, c.ID, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrFavoriteNotFound
	}
	if err != nil {
		return fmt.Errorf("find favorite: %w", err)
	}
	if err := s.Repo.DeleteFavorite(ctx, f.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrFavoriteNotFound
		}
		return fmt.Errorf("delete favorite: %w", err)
	}

	s.emit(ctx, "favorite_removed", c.ID, productID)
	return nil
}

func (s *FavoriteService) emit(ctx context.Context, typ string, customerID, productID uint) {
	ev := mykafka.NewEvent(typ)
	ev.CustomerID, ev.ProductID = customerID, productID
	publish(ctx, s.Events, mykafka.TopicFavorites, customerID, ev)
}
