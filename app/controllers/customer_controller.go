package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/appaccess/app/models"
	"github.com/shashiranjanraj/appaccess/app/repositories"
	"github.com/shashiranjanraj/appaccess/app/services"
	"github.com/shashiranjanraj/appaccess/config"
	"github.com/shashiranjanraj/appaccess/pkg/logger"
	"github.com/shashiranjanraj/appaccess/pkg/response"
)

const maxBulk = 1000

// URLBuilder resolves a named route to a path.
type URLBuilder interface {
	URL(name string, params map[string]string) (string, error)
}

type CustomerController struct {
	repo *repositories.CustomerRepository
	app  *services.CustomerApp
	urls URLBuilder
}

func NewCustomerController(app *services.CustomerApp, urls URLBuilder) *CustomerController {
	return &CustomerController{repo: app.Repository(), app: app, urls: urls}
}

type createdBody struct {
	ID uint `json:"id"`
}

type orderRequest struct {
	Details     models.OrderDetails `json:"details"`
	TotalAmount float64             `json:"total_amount"`
	PaymentInfo string              `json:"payment_info"`
}

// Store handles POST /api/customers.
func (c *CustomerController) Store(w http.ResponseWriter, r *http.Request) {
	var in models.NewCustomer
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid JSON body", nil)
		return
	}

	id, err := c.repo.AddCustomer(r.Context(), in)
	if err != nil {
		c.serverError(w, r, "add customer", err)
		return
	}
	c.location(w, r, "customers.show", id)
	response.Created(w, createdBody{ID: id})
}

// Index handles GET /api/customers?email=.
func (c *CustomerController) Index(w http.ResponseWriter, r *http.Request) {
	matches, err := c.repo.SearchByEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		c.serverError(w, r, "search customers", err)
		return
	}
	response.Success(w, matches)
}

// Show handles GET /api/customers/{id}.
func (c *CustomerController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	s, err := c.repo.FindWithTotals(r.Context(), id)
	if errors.Is(err, repositories.ErrCustomerNotFound) {
		response.NotFound(w, "customer not found")
		return
	}
	if err != nil {
		c.serverError(w, r, "load customer", err)
		return
	}
	response.Success(w, s)
}

// StoreOrder handles POST /api/customers/{id}/orders.
func (c *CustomerController) StoreOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	var in orderRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid JSON body", nil)
		return
	}
	if !c.exists(w, r, id) {
		return
	}

	orderID, err := c.repo.CreateOrder(r.Context(), models.NewOrder{
		CustomerID:  id,
		Details:     in.Details,
		TotalAmount: in.TotalAmount,
		PaymentInfo: in.PaymentInfo,
	})
	if err != nil {
		c.serverError(w, r, "create order", err)
		return
	}
	c.location(w, r, "orders.index", id)
	response.Created(w, createdBody{ID: orderID})
}

// Orders handles GET /api/customers/{id}/orders.
func (c *CustomerController) Orders(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok || !c.exists(w, r, id) {
		return
	}

	orders, err := c.repo.OrderHistory(r.Context(), id)
	if err != nil {
		c.serverError(w, r, "load orders", err)
		return
	}
	response.Success(w, orders)
}

// Bulk handles POST /api/bulk?n=.
func (c *CustomerController) Bulk(w http.ResponseWriter, r *http.Request) {
	n := config.BulkCount()
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > maxBulk {
			response.BadRequest(w, "n must be an integer between 0 and 1000", nil)
			return
		}
		n = v
	}

	created := c.app.ProcessBulkTransactions(r.Context(), n)
	response.Success(w, map[string]int{"requested": n, "created": created})
}

// Health handles GET /health.
func (c *CustomerController) Health(w http.ResponseWriter, r *http.Request) {
	if err := c.repo.Ping(r.Context()); err != nil {
		logger.WithCtx(r.Context()).Warn("health check failed", "error", err)
		response.Error(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}

func (c *CustomerController) exists(w http.ResponseWriter, r *http.Request, id uint) bool {
	_, err := c.repo.FindWithTotals(r.Context(), id)
	switch {
	case errors.Is(err, repositories.ErrCustomerNotFound):
		response.NotFound(w, "customer not found")
		return false
	case err != nil:
		c.serverError(w, r, "load customer", err)
		return false
	}
	return true
}

// location points the Location header at a named route for customer id.
func (c *CustomerController) location(w http.ResponseWriter, r *http.Request, route string, id uint) {
	u, err := c.urls.URL(route, map[string]string{"id": strconv.FormatUint(uint64(id), 10)})
	if err != nil {
		logger.WithCtx(r.Context()).Warn("location header skipped", "route", route, "error", err)
		return
	}
	w.Header().Set("Location", u)
}

func (c *CustomerController) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger.WithCtx(r.Context()).Error(op+" failed", "error", err)
	response.Error(w, http.StatusInternalServerError, "Internal Server Error")
}

func customerID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(w, "invalid customer id", map[string]string{"id": "must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}
