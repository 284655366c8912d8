package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProxyFor(upstreamURL string) *ProxyHandler {
	return NewProxyHandler(upstreamURL, 24, 100, 100, zap.NewNop())
}

func TestProxyRelaysUpstreamVerbatim(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"productId":"12345","price":2.99}`))
	}))
	defer upstream.Close()

	proxy := newProxyFor(upstream.URL)
	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/proxy/retailer-product?productId=12345&storeNumber=7", nil))

	assert.Equal(t, "/stores/7/products/12345", gotPath)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"productId":"12345","price":2.99}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestProxyDefaultsStoreNumber(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	proxy := newProxyFor(upstream.URL)
	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/proxy/retailer-product?productId=555", nil))

	assert.Equal(t, "/stores/24/products/555", gotPath)

	// A malformed store number falls back to the default too.
	rec = httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/proxy/retailer-product?productId=555&storeNumber=abc", nil))
	assert.Equal(t, "/stores/24/products/555", gotPath)
}

func TestProxyRelaysUpstreamErrorsVerbatim(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"no such product"}`))
	}))
	defer upstream.Close()

	proxy := newProxyFor(upstream.URL)
	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/proxy/retailer-product?productId=999", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"no such product"}`, rec.Body.String())
}

func TestProxyRejectsNonNumericProductID(t *testing.T) {
	called := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer upstream.Close()

	proxy := newProxyFor(upstream.URL)
	for _, productID := range []string{"", "abc", "12a45", "12%2045"} {
		rec := httptest.NewRecorder()
		proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/proxy/retailer-product?productId="+productID, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "productId %q", productID)
	}
	assert.False(t, called)
}

func TestProxyMethodNotAllowed(t *testing.T) {
	proxy := newProxyFor("http://127.0.0.1:1")

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec := httptest.NewRecorder()
		proxy.ServeHTTP(rec, httptest.NewRequest(method, "/proxy/retailer-product?productId=1", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "method %s", method)
	}
}

func TestProxyPreflight(t *testing.T) {
	proxy := newProxyFor("http://127.0.0.1:1")

	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/proxy/retailer-product", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestProxyUnreachableUpstream(t *testing.T) {
	proxy := newProxyFor("http://127.0.0.1:1")

	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/proxy/retailer-product?productId=1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"upstream request failed"}`, rec.Body.String())
}
