package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/minicart/fulfillment/internal/application/sales"
	"github.com/minicart/fulfillment/internal/auth"
	"github.com/minicart/fulfillment/internal/infrastructure/memory"
)

var testSettings = auth.Settings{
	Secret:   "test-secret",
	Issuer:   "EcomDemo",
	Audience: "EcomClients",
}

type fixedChecker struct {
	result sales.Availability
	err    error
}

func (c fixedChecker) Check(context.Context, string, int) (sales.Availability, error) {
	return c.result, c.err
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, []byte) error { return nil }

func newSalesServer(t *testing.T, checker sales.AvailabilityChecker) *httptest.Server {
	t.Helper()
	workflow := sales.NewWorkflow(memory.NewOrderStore(), checker, nopPublisher{}, nil, nil)
	h := NewSalesHandler(workflow, auth.New(testSettings), nil)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func loginToken(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/auth/login", "application/json",
		strings.NewReader(`{"username":"demo","password":"demo"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var body loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return body.Token
}

func doJSON(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestSalesHealth(t *testing.T) {
	srv := newSalesServer(t, fixedChecker{result: sales.Availability{Available: true, Current: 10}})

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Service != "sales" {
		t.Errorf("body = %+v", body)
	}
}

func TestSalesLoginRejectsBadCredentials(t *testing.T) {
	srv := newSalesServer(t, fixedChecker{})

	resp, err := http.Post(srv.URL+"/auth/login", "application/json",
		strings.NewReader(`{"username":"demo","password":"wrong"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestCreateOrderReturnsCreated(t *testing.T) {
	srv := newSalesServer(t, fixedChecker{result: sales.Availability{Available: true, Current: 10}})
	token := loginToken(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/orders", token,
		`{"items":[{"productId":"p1","quantity":2}]}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var body orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID == "" || body.Status != "Confirmed" {
		t.Errorf("body = %+v", body)
	}
	if len(body.Items) != 1 || body.Items[0].ProductID != "p1" || body.Items[0].Quantity != 2 {
		t.Errorf("items = %+v", body.Items)
	}

	// The committed order is readable afterwards.
	get := doJSON(t, http.MethodGet, srv.URL+"/api/orders/"+body.ID, token, "")
	defer get.Body.Close()
	if get.StatusCode != http.StatusOK {
		t.Errorf("get status = %d", get.StatusCode)
	}
}

func TestCreateOrderInsufficientStockReports400WithCurrent(t *testing.T) {
	srv := newSalesServer(t, fixedChecker{result: sales.Availability{Available: false, Current: 3}})
	token := loginToken(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/orders", token,
		`{"items":[{"productId":"p1","quantity":5}]}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var body struct {
		Error   string `json:"error"`
		Current *int   `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error == "" || body.Current == nil || *body.Current != 3 {
		t.Errorf("body = %+v", body)
	}
}

func TestCreateOrderUpstreamFailureReports502(t *testing.T) {
	srv := newSalesServer(t, fixedChecker{err: sales.ErrUpstreamUnavailable})
	token := loginToken(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/orders", token,
		`{"items":[{"productId":"p1","quantity":1}]}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestCreateOrderEmptyItemsReports400(t *testing.T) {
	srv := newSalesServer(t, fixedChecker{result: sales.Availability{Available: true, Current: 10}})
	token := loginToken(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/orders", token, `{"items":[]}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestOrdersRequireAuth(t *testing.T) {
	srv := newSalesServer(t, fixedChecker{result: sales.Availability{Available: true, Current: 10}})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/orders", "", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status without token = %d, want 401", resp.StatusCode)
	}

	resp2 := doJSON(t, http.MethodGet, srv.URL+"/api/orders", "not-a-token", "")
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusUnauthorized {
		t.Errorf("status with garbage token = %d, want 401", resp2.StatusCode)
	}
}

func TestGetUnknownOrderReports404(t *testing.T) {
	srv := newSalesServer(t, fixedChecker{result: sales.Availability{Available: true, Current: 10}})
	token := loginToken(t, srv)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/orders/nope", token, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
