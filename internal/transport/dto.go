package transport

import (
	"encoding/json"
	"time"

	"github.com/Skotchmaster/favorites_api/internal/catalog"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PatchCustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// AddFavoriteRequest keeps productId untyped so that type errors surface as
// validation errors instead of bind errors.
type AddFavoriteRequest struct {
	ProductID any `json:"productId"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TokenResponse struct {
	Type      string    `json:"type"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ProductView struct {
	ID     uint            `json:"id"`
	Title  string          `json:"title"`
	Image  string          `json:"image"`
	Price  float64         `json:"price"`
	Review *catalog.Rating `json:"review"`
}

func NewProductView(p *catalog.Product) *ProductView {
	if p == nil {
		return nil
	}
	return &ProductView{ID: p.ID, Title: p.Title, Image: p.Image, Price: p.Price, Review: p.Rating}
}

// FavoriteItem renders the full product view, or only {"id"} when the
// catalog could not supply the product.
type FavoriteItem struct {
	ProductID uint
	Product   *ProductView
}

func (f FavoriteItem) MarshalJSON() ([]byte, error) {
	if f.Product == nil {
		return json.Marshal(struct {
			ID uint `json:"id"`
		}{ID: f.ProductID})
	}
	return json.Marshal(f.Product)
}
