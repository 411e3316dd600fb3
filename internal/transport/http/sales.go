// Package httptransport exposes the sales and inventory application services
// over HTTP.
package httptransport

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/minicart/fulfillment/internal/application/sales"
	"github.com/minicart/fulfillment/internal/auth"
	"github.com/minicart/fulfillment/internal/domain/order"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type orderItemPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	Items []orderItemPayload `json:"items"`
}

type orderResponse struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"createdAt"`
	Status    string             `json:"status"`
	Items     []orderItemPayload `json:"items"`
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]orderItemPayload, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemPayload{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return orderResponse{
		ID:        o.ID,
		CreatedAt: o.CreatedAt,
		Status:    string(o.Status),
		Items:     items,
	}
}

// SalesHandler serves the order ledger API.
type SalesHandler struct {
	workflow *sales.Workflow
	auth     *auth.Authenticator
	log      *zap.Logger
}

func NewSalesHandler(workflow *sales.Workflow, authenticator *auth.Authenticator, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{workflow: workflow, auth: authenticator, log: logger}
}

// Router builds the service's route table. The order surface requires a
// bearer token; health and login do not.
func (h *SalesHandler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(h.log))

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)

	api := r.PathPrefix("/api/orders").Subrouter()
	api.Use(RequireAuth(h.auth))
	api.HandleFunc("", h.createOrder).Methods(http.MethodPost)
	api.HandleFunc("", h.listOrders).Methods(http.MethodGet)
	api.HandleFunc("/{id}", h.getOrder).Methods(http.MethodGet)

	return r
}

func (h *SalesHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: "sales"})
}

func (h *SalesHandler) login(w http.ResponseWriter, r *http.Request) {
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

func (h *SalesHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	in := sales.CreateOrderInput{Items: make([]sales.ItemInput, len(req.Items))}
	for i, it := range req.Items {
		in.Items[i] = sales.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	created, err := h.workflow.CreateOrder(r.Context(), in)
	if err != nil {
		writeSalesError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(created))
}

func (h *SalesHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.workflow.ListOrders(r.Context())
	if err != nil {
		writeSalesError(w, err)
		return
	}
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SalesHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.workflow.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeSalesError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}
