package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ProxyHandler forwards retailer product lookups to the upstream API and
// relays status code and JSON body verbatim. It exists so the browser
// frontend can reach an API that does not send CORS headers itself.
type ProxyHandler struct {
	upstreamBaseURL    string
	defaultStoreNumber int
	httpClient         *http.Client
	limiter            *rate.Limiter
	logger             *zap.Logger
}

// NewProxyHandler creates a proxy handler. The limiter bounds how fast we
// hit the upstream retailer API across all clients.
func NewProxyHandler(upstreamBaseURL string, defaultStoreNumber int, rps float64, burst int, logger *zap.Logger) *ProxyHandler {
	if defaultStoreNumber <= 0 {
		defaultStoreNumber = 24
	}
	return &ProxyHandler{
		upstreamBaseURL:    upstreamBaseURL,
		defaultStoreNumber: defaultStoreNumber,
		httpClient:         &http.Client{Timeout: 15 * time.Second},
		limiter:            rate.NewLimiter(rate.Limit(rps), burst),
		logger:             logger,
	}
}

// ServeHTTP handles GET /api/v1/proxy/retailer-product?storeNumber=&productId=
// with permissive CORS on every response. Only GET and pre-flight OPTIONS
// are allowed.
func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprint(w, `{"error":"method not allowed"}`)
		return
	}

	productID := r.URL.Query().Get("productId")
	if !isDigits(productID) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"productId must be a digit string"}`)
		return
	}

	storeNumber := h.defaultStoreNumber
	if raw := r.URL.Query().Get("storeNumber"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			storeNumber = n
		}
	}

	if err := h.limiter.Wait(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"upstream request failed"}`)
		return
	}

	url := fmt.Sprintf("%s/stores/%d/products/%s", h.upstreamBaseURL, storeNumber, productID)
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"upstream request failed"}`)
		return
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Warn("retailer upstream unreachable", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"upstream request failed"}`)
		return
	}
	defer resp.Body.Close()

	// Relay status and body verbatim.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Warn("relaying upstream body failed", zap.Error(err))
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
