package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/favorites_api/internal/catalog"
)

func TestFavoriteItem_MarshalJSON(t *testing.T) {
	items := []FavoriteItem{
		{ProductID: 1, Product: NewProductView(&catalog.Product{
			ID: 1, Title: "Backpack", Image: "img", Price: 10.5, Description: "dropped",
			Rating: &catalog.Rating{Rate: 3.9, Count: 120},
		})},
		{ProductID: 2, Product: NewProductView(&catalog.Product{ID: 2, Title: "Shirt", Image: "img2", Price: 1})},
		{ProductID: 3},
	}

	raw, err := json.Marshal(items)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":1,"title":"Backpack","image":"img","price":10.5,"review":{"rate":3.9,"count":120}},
		{"id":2,"title":"Shirt","image":"img2","price":1,"review":null},
		{"id":3}
	]`, string(raw))
}

func TestNewProductView_Nil(t *testing.T) {
	assert.Nil(t, NewProductView(nil))
}
