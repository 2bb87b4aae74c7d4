package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/favorites_api/internal/models"
	"github.com/Skotchmaster/favorites_api/internal/mykafka"
	"github.com/Skotchmaster/favorites_api/internal/repo"
	"github.com/Skotchmaster/favorites_api/internal/validation"
	"github.com/Skotchmaster/favorites_api/pkg/logging"
)

type CustomerService struct {
	Repo   CustomerStore
	Index  CustomerIndex
	Events EventPublisher
}

func (s *CustomerService) FindAll(ctx context.Context) ([]models.Customer, error) {
	out, err := s.Repo.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

func (s *CustomerService) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	return lookupCustomer(ctx, s.Repo, id)
}

func (s *CustomerService) Store(ctx context.Context, name, email string) (*models.Customer, error) {
	in, err := validation.CreateCustomer(name, email)
	if err != nil {
		return nil, err
	}

	taken, err := s.Repo.CustomerEmailTaken(ctx, in.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailInUse
	}

	c := &models.Customer{Name: in.Name, Email: in.Email}
	if err := s.Repo.CreateCustomer(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}

	s.index(ctx, *c)
	s.emit(ctx, "customer_created", c)
	return c, nil
}

// Update applies only the supplied fields. An email already held by the same
// customer is not a conflict.
func (s *CustomerService) Update(ctx context.Context, id uint, name, email *string) (*models.Customer, error) {
	c, err := lookupCustomer(ctx, s.Repo, id)
	if err != nil {
		return nil, err
	}

	patch, err := validation.UpdateCustomer(name, email)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		taken, err := s.Repo.CustomerEmailTaken(ctx, *patch.Email, c.ID)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, ErrEmailInUse
		}
		c.Email = *patch.Email
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}

	if err := s.Repo.SaveCustomer(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("save customer: %w", err)
	}

	s.index(ctx, *c)
	s.emit(ctx, "customer_updated", c)
	return c, nil
}

// Delete removes the customer together with its favorites.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	c, err := lookupCustomer(ctx, s.Repo, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteCustomer(ctx, c.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("delete customer: %w", err)
	}

	if s.Index != nil {
		if err := s.Index.RemoveCustomer(ctx, c.ID); err != nil {
			logging.FromContext(ctx).Error("es_remove_error", "customer_id", c.ID, "error", err)
		}
	}
	s.emit(ctx, "customer_deleted", c)
	return nil
}

// Search matches q against name and email. The index answers when present;
// the database answers otherwise or when the index fails.
func (s *CustomerService) Search(ctx context.Context, q string) ([]models.Customer, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, &validation.Error{Fields: []validation.FieldError{{
			Field: "q", Rule: "required", Message: "The q field must be defined",
		}}}
	}

	if s.Index != nil {
		ids, err := s.Index.SearchCustomers(ctx, q)
		if err == nil {
			out, err := s.Repo.CustomersByIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("load customers: %w", err)
			}
			return out, nil
		}
		logging.FromContext(ctx).Warn("es_search_failed", "reason", "falling back to database", "error", err)
	}

	out, err := s.Repo.SearchCustomers(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return out, nil
}

func (s *CustomerService) index(ctx context.Context, c models.Customer) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexCustomer(ctx, c); err != nil {
		logging.FromContext(ctx).Error("es_index_error", "customer_id", c.ID, "error", err)
	}
}

func (s *CustomerService) emit(ctx context.Context, typ string, c *models.Customer) {
	ev := mykafka.NewEvent(typ)
	ev.CustomerID, ev.Email = c.ID, c.Email
	publish(ctx, s.Events, mykafka.TopicCustomers, c.ID, ev)
}

type customerGetter interface {
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
}

func lookupCustomer(ctx context.Context, r customerGetter, id uint) (*models.Customer, error) {
	if id == 0 {
		return nil, ErrCustomerNotFound
	}
	c, err := r.GetCustomer(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}
