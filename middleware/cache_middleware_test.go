package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/x-xyz/auctionapi/service/cache/provider/primitive"
)

func TestCacheHttp(t *testing.T) {
	httpCacheProvider = primitive.NewPrimitive("test", 1)

	e := echo.New()

	hits := 0
	handler := CacheHttp(time.Minute)(func(c echo.Context) error {
		hits++
		return c.String(http.StatusOK, "payload")
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/auctions?chainId=1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "payload", rec.Body.String())
	}
	assert.Equal(t, 1, hits)
}

func TestCacheHttpSkipsNonGet(t *testing.T) {
	httpCacheProvider = primitive.NewPrimitive("test-post", 1)

	e := echo.New()

	hits := 0
	handler := CacheHttp(time.Minute)(func(c echo.Context) error {
		hits++
		return c.String(http.StatusOK, "payload")
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auctions", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		assert.NoError(t, handler(c))
	}
	assert.Equal(t, 2, hits)
}

func TestSortURLParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/auctions?b=2&a=1&b=1", nil)
	sortURLParams(req.URL)
	assert.Equal(t, "a=1&b=1&b=2", req.URL.RawQuery)
}

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress("0x7f268357a8c2552623316e2562d90e642bb538e5"))
	assert.False(t, IsValidAddress("7f268357a8c2552623316e2562d90e642bb538e5"))
	assert.False(t, IsValidAddress("0x7f26"))
	assert.False(t, IsValidAddress("0xzz268357a8c2552623316e2562d90e642bb538e5"))
}
