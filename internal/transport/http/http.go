package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sellerdesk/crm-svc/internal/service/models/customer"
	"github.com/sellerdesk/crm-svc/internal/service/models/order"
	"github.com/sellerdesk/crm-svc/internal/service/models/product"
	"github.com/sellerdesk/crm-svc/internal/service/services/crmsvc"
	bulkcreatecustomers "github.com/sellerdesk/crm-svc/internal/transport/http/bulk_create_customers"
	createcustomer "github.com/sellerdesk/crm-svc/internal/transport/http/create_customer"
	createorder "github.com/sellerdesk/crm-svc/internal/transport/http/create_order"
	createproduct "github.com/sellerdesk/crm-svc/internal/transport/http/create_product"
	listcustomers "github.com/sellerdesk/crm-svc/internal/transport/http/list_customers"
	listorders "github.com/sellerdesk/crm-svc/internal/transport/http/list_orders"
	listproducts "github.com/sellerdesk/crm-svc/internal/transport/http/list_products"
	restockproducts "github.com/sellerdesk/crm-svc/internal/transport/http/restock_products"
	tracemw "github.com/sellerdesk/crm-svc/pkg/http/middleware/trace"
	"github.com/sellerdesk/crm-svc/pkg/logger"
	"github.com/spf13/viper"
)

type service interface {
	CreateCustomer(ctx context.Context, input crmsvc.CreateCustomerInput) (*crmsvc.CreateCustomerResult, error)
	BulkCreateCustomers(ctx context.Context, inputs []crmsvc.CreateCustomerInput) (*crmsvc.BulkCreateCustomersResult, error)
	CreateProduct(ctx context.Context, input crmsvc.CreateProductInput) (*product.Product, error)
	CreateOrder(ctx context.Context, input crmsvc.CreateOrderInput) (*order.Order, error)
	UpdateLowStockProducts(ctx context.Context) (*crmsvc.RestockResult, error)
	ListCustomers(ctx context.Context, filter *customer.QueryCustomersModel) ([]customer.Customer, error)
	ListProducts(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error)
	ListOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Post("/customers", h.createCustomer)
		r.Post("/customers/bulk", h.bulkCreateCustomers)
		r.Get("/customers", h.listCustomers)

		r.Post("/products", h.createProduct)
		r.Post("/products/restock", h.restockProducts)
		r.Get("/products", h.listProducts)

		r.Post("/orders", h.createOrder)
		r.Get("/orders", h.listOrders)
	})
}

// health reports service liveness for monitors and the heartbeat job.
func (h *HTTPTransport) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"message": "CRM is alive"}); err != nil {
		slog.Error("Error writing health response", "error", err)
	}
}

func (h *HTTPTransport) createCustomer(w http.ResponseWriter, r *http.Request) {
	createcustomer.CreateCustomer(w, r, h.service)
}

func (h *HTTPTransport) bulkCreateCustomers(w http.ResponseWriter, r *http.Request) {
	bulkcreatecustomers.BulkCreateCustomers(w, r, h.service)
}

func (h *HTTPTransport) listCustomers(w http.ResponseWriter, r *http.Request) {
	listcustomers.ListCustomers(w, r, h.service)
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	createproduct.CreateProduct(w, r, h.service)
}

func (h *HTTPTransport) restockProducts(w http.ResponseWriter, r *http.Request) {
	restockproducts.RestockProducts(w, r, h.service)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	listproducts.ListProducts(w, r, h.service)
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.service)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(tracemw.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
