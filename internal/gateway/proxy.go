// Package gateway implements the routing front door: path-prefix based
// forwarding to the backend services.
package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Route maps a path prefix to one backend cluster.
type Route struct {
	Prefix string
	Target *url.URL
}

// Proxy forwards requests by longest-prefix match against a static routing
// table built at startup. The table is read-only afterwards, so serving
// needs no synchronization.
type Proxy struct {
	routes []Route
	client *http.Client

	log            *zap.Logger
	upstreamErrors prometheus.Counter
}

func New(routes []Route, logger *zap.Logger, upstreamErrors prometheus.Counter) (*Proxy, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	table := make([]Route, 0, len(routes))
	for _, rt := range routes {
		prefix := "/" + strings.Trim(rt.Prefix, "/")
		if prefix == "/" {
			return nil, fmt.Errorf("gateway: empty route prefix")
		}
		if rt.Target == nil {
			return nil, fmt.Errorf("gateway: route %s has no target", prefix)
		}
		table = append(table, Route{Prefix: prefix, Target: rt.Target})
	}
	// Longest prefix wins.
	sort.Slice(table, func(i, j int) bool { return len(table[i].Prefix) > len(table[j].Prefix) })

	return &Proxy{
		routes: table,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
		log:            logger.With(zap.String("component", "proxy")),
		upstreamErrors: upstreamErrors,
	}, nil
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route, rest, ok := p.match(r.URL.Path)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "no route for path")
		return
	}

	outURL := *route.Target
	outURL.Path = singleJoin(route.Target.Path, rest)
	outURL.RawQuery = r.URL.RawQuery

	req, err := http.NewRequestWithContext(r.Context(), r.Method, outURL.String(), r.Body)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, "cannot build upstream request")
		return
	}
	copyHeaders(req.Header, r.Header)

	resp, err := p.client.Do(req)
	if err != nil {
		if p.upstreamErrors != nil {
			p.upstreamErrors.Inc()
		}
		p.log.Warn("upstream_unreachable",
			zap.String("prefix", route.Prefix),
			zap.String("url", outURL.String()),
			zap.Error(err),
		)
		writeJSONError(w, http.StatusBadGateway, "upstream unreachable")
		return
	}
	defer resp.Body.Close()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

// match selects the longest configured prefix that covers path and returns
// the remainder with the prefix stripped.
func (p *Proxy) match(path string) (Route, string, bool) {
	for _, rt := range p.routes {
		if path == rt.Prefix {
			return rt, "/", true
		}
		if strings.HasPrefix(path, rt.Prefix+"/") {
			return rt, strings.TrimPrefix(path, rt.Prefix), true
		}
	}
	return Route{}, "", false
}

// Hop-by-hop and host-identifying headers stay out of the forwarded request.
var skipHeaders = map[string]struct{}{
	"Connection":        {},
	"Keep-Alive":        {},
	"Proxy-Connection":  {},
	"Te":                {},
	"Trailer":           {},
	"Transfer-Encoding": {},
	"Upgrade":           {},
	"X-Forwarded-Host":  {},
}

func copyHeaders(dst, src http.Header) {
	for name, values := range src {
		if _, skip := skipHeaders[name]; skip {
			continue
		}
		for _, v := range values {
			dst.Add(name, v)
		}
	}
}

func singleJoin(base, rest string) string {
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return base + rest
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
