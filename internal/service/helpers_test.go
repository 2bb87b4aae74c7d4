package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/favorites_api/internal/catalog"
	"github.com/Skotchmaster/favorites_api/internal/models"
	"github.com/Skotchmaster/favorites_api/internal/mykafka"
	"github.com/Skotchmaster/favorites_api/internal/repo"
	"github.com/Skotchmaster/favorites_api/internal/service"
	"github.com/Skotchmaster/favorites_api/internal/testdb"
	"github.com/Skotchmaster/favorites_api/pkg/hash"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeCatalog struct {
	mu       sync.Mutex
	products map[uint]*catalog.Product
	calls    int
}

func newFakeCatalog(ps ...catalog.Product) *fakeCatalog {
	fc := &fakeCatalog{products: map[uint]*catalog.Product{}}
	for i := range ps {
		fc.products[ps[i].ID] = &ps[i]
	}
	return fc
}

func (f *fakeCatalog) GetByID(_ context.Context, id uint) *catalog.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.products[id]
}

func (f *fakeCatalog) down() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = map[uint]*catalog.Product{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []mykafka.Event
	fail   bool
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unavailable")
	}
	if ev, ok := event.(mykafka.Event); ok {
		p.events = append(p.events, ev)
	}
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	repo      *repo.GormRepo
	catalog   *fakeCatalog
	events    *recordingPublisher
	auth      *service.AuthService
	customers *service.CustomerService
	favorites *service.FavoriteService
}

func newFixture(t *testing.T, products ...catalog.Product) *fixture {
	t.Helper()
	r := &repo.GormRepo{DB: testdb.New(t)}
	fc := newFakeCatalog(products...)
	ev := &recordingPublisher{}
	return &fixture{
		repo:    r,
		catalog: fc,
		events:  ev,
		auth: &service.AuthService{
			Users: r, Tokens: r, Hasher: hash.Bcrypt{Cost: bcrypt.MinCost},
			Secret: testSecret, Events: ev,
		},
		customers: &service.CustomerService{Repo: r, Events: ev},
		favorites: &service.FavoriteService{Repo: r, Catalog: fc, Events: ev},
	}
}

func (f *fixture) customer(t *testing.T, name, email string) *models.Customer {
	t.Helper()
	c, err := f.customers.Store(context.Background(), name, email)
	if err != nil {
		t.Fatalf("store customer: %v", err)
	}
	return c
}
