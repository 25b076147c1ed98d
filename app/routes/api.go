package routes

import (
	"github.com/shashiranjanraj/appaccess/app/controllers"
	"github.com/shashiranjanraj/appaccess/app/services"
	"github.com/shashiranjanraj/appaccess/pkg/metrics"
	"github.com/shashiranjanraj/appaccess/pkg/middleware"
	"github.com/shashiranjanraj/appaccess/pkg/reqid"
	"github.com/shashiranjanraj/appaccess/pkg/router"
)

// New builds the router with the global middleware stack and every route.
func New(app *services.CustomerApp) *router.Router {
	r := router.New()

	// Outermost first: metrics sees total latency, recovery wraps the rest.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)

	RegisterAPI(r, app)
	return r
}

func RegisterAPI(r *router.Router, app *services.CustomerApp) {
	customers := controllers.NewCustomerController(app, r)

	r.Get("/health", "health", customers.Health)
	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api")
	api.Post("/customers", "customers.store", customers.Store)
	api.Get("/customers", "customers.index", customers.Index)
	api.Get("/customers/{id}", "customers.show", customers.Show)
	api.Post("/customers/{id}/orders", "orders.store", customers.StoreOrder)
	api.Get("/customers/{id}/orders", "orders.index", customers.Orders)
	api.Post("/bulk", "bulk", customers.Bulk)
}
