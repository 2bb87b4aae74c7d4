package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/favorites_api/internal/models"
	"github.com/Skotchmaster/favorites_api/internal/repo"
	"github.com/Skotchmaster/favorites_api/internal/testdb"
)

func newRepo(t *testing.T) *repo.GormRepo {
	return &repo.GormRepo{DB: testdb.New(t)}
}

func TestCustomers_UniqueEmailIsEnforcedByStorage(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateCustomer(ctx, &models.Customer{Name: "Jane", Email: "jane@x.com"}))
	err := r.CreateCustomer(ctx, &models.Customer{Name: "Other", Email: "jane@x.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

func TestCustomers_ListOrderAndEmailTaken(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	a := &models.Customer{Name: "Ann", Email: "ann@x.com"}
	b := &models.Customer{Name: "Bob", Email: "bob@x.com"}
	require.NoError(t, r.CreateCustomer(ctx, a))
	require.NoError(t, r.CreateCustomer(ctx, b))

	list, err := r.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)

	taken, err := r.CustomerEmailTaken(ctx, "ann@x.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = r.CustomerEmailTaken(ctx, "ann@x.com", a.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = r.CustomerEmailTaken(ctx, "ann@x.com", b.ID)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestCustomers_GetMissing(t *testing.T) {
	r := newRepo(t)

	_, err := r.GetCustomer(context.Background(), 99)
	assert.True(t, errors.Is(err, repo.ErrNotFound))
	assert.ErrorIs(t, r.DeleteCustomer(context.Background(), 99), repo.ErrNotFound)
}

func TestDeleteCustomer_CascadesFavorites(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	c := &models.Customer{Name: "Jane", Email: "jane@x.com"}
	other := &models.Customer{Name: "Joe", Email: "joe@x.com"}
	require.NoError(t, r.CreateCustomer(ctx, c))
	require.NoError(t, r.CreateCustomer(ctx, other))
	for _, pid := range []uint{1, 2, 3} {
		require.NoError(t, r.CreateFavorite(ctx, &models.Favorite{CustomerID: c.ID, ProductID: pid}))
	}
	require.NoError(t, r.CreateFavorite(ctx, &models.Favorite{CustomerID: other.ID, ProductID: 1}))

	require.NoError(t, r.DeleteCustomer(ctx, c.ID))

	var count int64
	require.NoError(t, r.DB.Model(&models.Favorite{}).Where("customer_id = ?", c.ID).Count(&count).Error)
	assert.Zero(t, count)

	left, err := r.FavoritesOf(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestFavorites_PairUniqueAndOrder(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	c := &models.Customer{Name: "Jane", Email: "jane@x.com"}
	require.NoError(t, r.CreateCustomer(ctx, c))

	require.NoError(t, r.CreateFavorite(ctx, &models.Favorite{CustomerID: c.ID, ProductID: 7}))
	require.NoError(t, r.CreateFavorite(ctx, &models.Favorite{CustomerID: c.ID, ProductID: 3}))
	err := r.CreateFavorite(ctx, &models.Favorite{CustomerID: c.ID, ProductID: 7})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	favs, err := r.FavoritesOf(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.EqualValues(t, 7, favs[0].ProductID)
	assert.EqualValues(t, 3, favs[1].ProductID)

	owner, err := r.CustomerOf(ctx, &favs[0])
	require.NoError(t, err)
	assert.Equal(t, c.ID, owner.ID)

	fav, err := r.FindFavorite(ctx, c.ID, 3)
	require.NoError(t, err)
	require.NoError(t, r.DeleteFavorite(ctx, fav.ID))
	assert.ErrorIs(t, r.DeleteFavorite(ctx, fav.ID), repo.ErrNotFound)

	_, err = r.FindFavorite(ctx, c.ID, 3)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestSearchAndByIDs(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	a := &models.Customer{Name: "Jane Doe", Email: "jane@x.com"}
	b := &models.Customer{Name: "John Smith", Email: "john@y.com"}
	require.NoError(t, r.CreateCustomer(ctx, a))
	require.NoError(t, r.CreateCustomer(ctx, b))

	found, err := r.SearchCustomers(ctx, "DOE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	found, err = r.SearchCustomers(ctx, "j")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	for _, q := range []string{"%", "_", `\`} {
		found, err = r.SearchCustomers(ctx, q)
		require.NoError(t, err)
		assert.Empty(t, found, "wildcard %q must match literally", q)
	}

	c := &models.Customer{Name: "Rate 100%", Email: "first_last@z.com"}
	require.NoError(t, r.CreateCustomer(ctx, c))
	for _, q := range []string{"100%", "first_last"} {
		found, err = r.SearchCustomers(ctx, q)
		require.NoError(t, err)
		require.Len(t, found, 1, q)
		assert.Equal(t, c.ID, found[0].ID)
	}

	byIDs, err := r.CustomersByIDs(ctx, []uint{b.ID, 999, a.ID})
	require.NoError(t, err)
	require.Len(t, byIDs, 2)
	assert.Equal(t, b.ID, byIDs[0].ID)
	assert.Equal(t, a.ID, byIDs[1].ID)
}

func TestAccessTokens(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	u := &models.User{Name: "John", Email: "john@x.com", PasswordHash: "h"}
	require.NoError(t, r.CreateUser(ctx, u))
	assert.ErrorIs(t, r.CreateUser(ctx, &models.User{Name: "J", Email: "john@x.com", PasswordHash: "h"}), repo.ErrDuplicate)

	taken, err := r.UserEmailTaken(ctx, "john@x.com")
	require.NoError(t, err)
	assert.True(t, taken)

	tok := &models.AccessToken{
		UserID:    u.ID,
		JTI:       "jti-1",
		Hash:      "hash-1",
		Abilities: `["*"]`,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, r.CreateAccessToken(ctx, tok))

	now := time.Now().UTC()
	require.NoError(t, r.TouchAccessToken(ctx, tok.ID, now))

	got, err := r.FindAccessToken(ctx, "jti-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)
	require.NotNil(t, got.LastUsedAt)
	assert.WithinDuration(t, now, *got.LastUsedAt, time.Second)

	_, err = r.FindAccessToken(ctx, "missing")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
