package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/favorites_api/internal/service"
	"github.com/Skotchmaster/favorites_api/internal/transport"
	"github.com/Skotchmaster/favorites_api/pkg/logging"
)

type CustomerHTTP struct {
	Svc *service.CustomerService
}

// List godoc
// @Summary List customers
// @Tags Customers
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Customer
// @Failure 401 {object} object{message=string}
// @Router /customers [get]
func (h *CustomerHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.list", "actor_id", actorID(c))

	customers, err := h.Svc.FindAll(ctx)
	if err != nil {
		return fail(l, "list_customers", err)
	}
	return c.JSON(http.StatusOK, customers)
}

// Search godoc
// @Summary Search customers by name or email
// @Tags Customers
// @Security BearerAuth
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {array} models.Customer
// @Failure 401 {object} object{message=string}
// @Failure 422 {object} object{errors=[]validation.FieldError}
// @Router /customers/search [get]
func (h *CustomerHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.search", "actor_id", actorID(c))

	customers, err := h.Svc.Search(ctx, c.QueryParam("q"))
	if err != nil {
		return fail(l, "search_customers", err)
	}
	return c.JSON(http.StatusOK, customers)
}

// Get godoc
// @Summary Get a customer
// @Tags Customers
// @Security BearerAuth
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 401 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /customers/{id} [get]
func (h *CustomerHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get", "actor_id", actorID(c))

	customer, err := h.Svc.FindByID(ctx, pathID(c, "id"))
	if err != nil {
		return fail(l, "get_customer", err)
	}
	return c.JSON(http.StatusOK, customer)
}

// Create godoc
// @Summary Create a customer
// @Tags Customers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body transport.CreateCustomerRequest true "Customer data"
// @Success 201 {object} models.Customer
// @Failure 400 {object} object{message=string}
// @Failure 401 {object} object{message=string}
// @Failure 409 {object} object{message=string}
// @Failure 422 {object} object{errors=[]validation.FieldError}
// @Router /customers [post]
func (h *CustomerHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.create", "actor_id", actorID(c))

	var req transport.CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_customer", err)
	}

	customer, err := h.Svc.Store(ctx, req.Name, req.Email)
	if err != nil {
		return fail(l, "create_customer", err)
	}

	l.Info("create_customer_success", "customer_id", customer.ID)
	return c.JSON(http.StatusCreated, customer)
}

// Update godoc
// @Summary Update a customer
// @Description Only the supplied fields are changed.
// @Tags Customers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param request body transport.PatchCustomerRequest true "Fields to change"
// @Success 200 {object} models.Customer
// @Failure 400 {object} object{message=string}
// @Failure 401 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Failure 409 {object} object{message=string}
// @Failure 422 {object} object{errors=[]validation.FieldError}
// @Router /customers/{id} [put]
func (h *CustomerHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.update", "actor_id", actorID(c))

	id := pathID(c, "id")
	var req transport.PatchCustomerRequest
	if err := c.Bind(&req); err != nil {
		// A missing customer outranks a malformed body.
		if _, lookupErr := h.Svc.FindByID(ctx, id); lookupErr != nil {
			return fail(l, "update_customer", lookupErr)
		}
		return badBody(l, "update_customer", err)
	}

	customer, err := h.Svc.Update(ctx, id, req.Name, req.Email)
	if err != nil {
		return fail(l, "update_customer", err)
	}

	l.Info("update_customer_success", "customer_id", customer.ID)
	return c.JSON(http.StatusOK, customer)
}

// Delete godoc
// @Summary Delete a customer and its favorites
// @Tags Customers
// @Security BearerAuth
// @Produce json
// @Param id path int true "Customer ID"
// @Success 204
// @Failure 401 {object} object{message=string}
// @Failure 404 {object} object{message=string}
// @Router /customers/{id} [delete]
func (h *CustomerHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.delete", "actor_id", actorID(c))

	id := pathID(c, "id")
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_customer", err)
	}

	l.Info("delete_customer_success", "customer_id", id)
	return c.NoContent(http.StatusNoContent)
}
