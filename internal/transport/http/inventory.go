package httptransport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/minicart/fulfillment/internal/application/inventory"
	"github.com/minicart/fulfillment/internal/auth"
	"github.com/minicart/fulfillment/internal/domain/product"
)

type availabilityResponse struct {
	Available bool `json:"available"`
	Current   int  `json:"current"`
}

type productPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type productRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

func toProductPayload(p *product.Product) productPayload {
	return productPayload{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		UpdatedAt:   p.UpdatedAt,
	}
}

// InventoryHandler serves the stock store API.
type InventoryHandler struct {
	service *inventory.Service
	auth    *auth.Authenticator
	log     *zap.Logger
}

func NewInventoryHandler(service *inventory.Service, authenticator *auth.Authenticator, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{service: service, auth: authenticator, log: logger}
}

// Router builds the service's route table. The availability query is open to
// the sales service; the administrative product surface requires a bearer
// token.
func (h *InventoryHandler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(h.log))

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/api/products/{id}/availability", h.availability).Methods(http.MethodGet)

	admin := r.PathPrefix("/api/products").Subrouter()
	admin.Use(RequireAuth(h.auth))
	admin.HandleFunc("", h.createProduct).Methods(http.MethodPost)
	admin.HandleFunc("", h.listProducts).Methods(http.MethodGet)
	admin.HandleFunc("/{id}", h.getProduct).Methods(http.MethodGet)
	admin.HandleFunc("/{id}", h.updateProduct).Methods(http.MethodPut)

	return r
}

func (h *InventoryHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: "inventory"})
}

func (h *InventoryHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (h *InventoryHandler) availability(w http.ResponseWriter, r *http.Request) {
	qty, err := strconv.Atoi(r.URL.Query().Get("qty"))
	if err != nil || qty <= 0 {
		writeError(w, http.StatusBadRequest, errors.New("qty must be a positive integer"))
		return
	}

	result, err := h.service.Availability(r.Context(), mux.Vars(r)["id"], qty)
	if err != nil {
		writeInventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{Available: result.Available, Current: result.Current})
}

func (h *InventoryHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	created, err := h.service.CreateProduct(r.Context(), inventory.ProductInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeInventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductPayload(created))
}

func (h *InventoryHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	updated, err := h.service.UpdateProduct(r.Context(), inventory.ProductInput{
		ID:          mux.Vars(r)["id"],
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeInventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductPayload(updated))
}

func (h *InventoryHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeInventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductPayload(p))
}

func (h *InventoryHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		writeInventoryError(w, err)
		return
	}
	out := make([]productPayload, len(products))
	for i, p := range products {
		out[i] = toProductPayload(p)
	}
	writeJSON(w, http.StatusOK, out)
}
