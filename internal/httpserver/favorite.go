package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/favorites_api/internal/service"
	"github.com/Skotchmaster/favorites_api/internal/transport"
	"github.com/Skotchmaster/favorites_api/pkg/logging"
)

type FavoriteHTTP struct {
	Svc *service.FavoriteService
}

// List godoc
// @Summary List favorite products
// @Description Products the catalog cannot supply are returned as {"id": productId}.
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Param customerId path int true "Customer ID"
// @Success 200 {array} transport.ProductView
// @Failure 401 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /customers/{customerId}/favorites [get]
func (h *FavoriteHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorite.list", "actor_id", actorID(c))

	items, err := h.Svc.FindAll(ctx, pathID(c, "customerId"))
	if err != nil {
		return fail(l, "list_favorites", err)
	}
	return c.JSON(http.StatusOK, items)
}

// Add godoc
// @Summary Add a favorite product
// @Tags Favorites
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param request body transport.AddFavoriteRequest true "Product to add"
// @Success 201 {object} transport.ProductView
// @Failure 400 {object} object{message=string}
// @Failure 401 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Failure 409 {object} object{message=string}
// @Failure 422 {object} object{errors=[]validation.FieldError}
// @Router /customers/{customerId}/favorites [post]
func (h *FavoriteHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorite.add", "actor_id", actorID(c))

	customerID := pathID(c, "customerId")
	var req transport.AddFavoriteRequest
	if err := c.Bind(&req); err != nil {
		if _, lookupErr := h.Svc.Customer(ctx, customerID); lookupErr != nil {
			return fail(l, "add_favorite", lookupErr)
		}
		return badBody(l, "add_favorite", err)
	}

	view, err := h.Svc.Add(ctx, customerID, req.ProductID)
	if err != nil {
		return fail(l, "add_favorite", err)
	}

	l.Info("add_favorite_success", "customer_id", customerID, "product_id", view.ID)
	return c.JSON(http.StatusCreated, view)
}

// Remove godoc
// @Summary Remove a favorite product
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param productId path int true "Product ID"
// @Success 204
// @Failure 401 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /customers/{customerId}/favorites/{productId} [delete]
func (h *FavoriteHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorite.remove", "actor_id", actorID(c))

	customerID, productID := pathID(c, "customerId"), pathID(c, "productId")
	if err := h.Svc.Remove(ctx, customerID, productID); err != nil {
		return fail(l, "remove_favorite", err)
	}

	l.Info("remove_favorite_success", "customer_id", customerID, "product_id", productID)
	return c.NoContent(http.StatusNoContent)
}
