// Package stockclient implements the sales service's synchronous stock
// query against the inventory service's HTTP API.
package stockclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/minicart/fulfillment/internal/application/sales"
)

const tracerName = "stock-client"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client for the inventory service at baseURL. The underlying
// http.Client carries no timeout of its own; each call is bounded only by
// the caller's context, so a hung oracle blocks the whole order-creation
// request for as long as that context allows.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
	}
}

type availabilityResponse struct {
	Available bool `json:"available"`
	Current   int  `json:"current"`
}

// Check queries current availability for one line item. A 404 maps to
// ErrProductNotFound; any transport failure or unexpected status maps to
// ErrUpstreamUnavailable.
func (c *Client) Check(ctx context.Context, productID string, qty int) (sales.Availability, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "CheckAvailability",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("product.id", productID),
			attribute.Int("product.requested_qty", qty),
		),
	)
	defer span.End()

	u := fmt.Sprintf("%s/api/products/%s/availability?qty=%d", c.baseURL, url.PathEscape(productID), qty)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		span.RecordError(err)
		return sales.Availability{}, fmt.Errorf("%w: %v", sales.ErrUpstreamUnavailable, err)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return sales.Availability{}, fmt.Errorf("%w: %v", sales.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload availabilityResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			span.RecordError(err)
			return sales.Availability{}, fmt.Errorf("%w: decode response: %v", sales.ErrUpstreamUnavailable, err)
		}
		return sales.Availability{Available: payload.Available, Current: payload.Current}, nil
	case http.StatusNotFound:
		return sales.Availability{}, sales.ErrProductNotFound
	default:
		err := fmt.Errorf("%w: unexpected status %s", sales.ErrUpstreamUnavailable, resp.Status)
		span.SetStatus(codes.Error, resp.Status)
		return sales.Availability{}, err
	}
}

var _ sales.AvailabilityChecker = (*Client)(nil)
