package middleware

import (
	"bytes"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	redigo "github.com/gomodule/redigo/redis"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/base/log"
	"github.com/x-xyz/auctionapi/base/metrics"
	"github.com/x-xyz/auctionapi/domain/keys"
	"github.com/x-xyz/auctionapi/service/cache"
	"github.com/x-xyz/auctionapi/service/cache/provider"
	redisProvider "github.com/x-xyz/auctionapi/service/cache/provider/redis"
	redisService "github.com/x-xyz/auctionapi/service/redis"
)

var (
	setupCacheOnce    sync.Once
	httpCacheProvider provider.Provider
)

// SetupCache wires the shared redis pool into the http response cache.
// Must run before any route registers CacheHttp.
func SetupCache(pool *redigo.Pool) {
	setupCacheOnce.Do(func() {
		svc := redisService.New("httpCache", metrics.New("httpCache"), pool)
		httpCacheProvider = redisProvider.NewRedis(svc)
	})
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

type bodyDumpResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w *bodyDumpResponseWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func sortURLParams(u *url.URL) {
	params := u.Query()
	for _, v := range params {
		sort.Strings(v)
	}
	u.RawQuery = params.Encode()
}

func generateKey(u string) string {
	h := fnv.New64a()
	h.Write([]byte(u))
	return strconv.FormatUint(h.Sum64(), 36)
}

// CacheHttp serves GET responses from cache for ttl. Only successful
// responses are stored.
func CacheHttp(ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet || httpCacheProvider == nil {
				return next(c)
			}

			context, ok := c.Get("ctx").(ctx.Ctx)
			if !ok {
				context = ctx.Background()
			}

			svc := cache.New(cache.ServiceConfig{
				Ttl:   ttl,
				Pfx:   keys.PfxHttpCache,
				Cache: httpCacheProvider,
			})

			sortURLParams(c.Request().URL)
			key := generateKey(c.Request().URL.String())

			cached := cachedResponse{}
			if err := svc.Get(context, key, &cached); err == nil {
				return c.Blob(cached.Status, cached.ContentType, cached.Body)
			}

			buf := new(bytes.Buffer)
			writer := &bodyDumpResponseWriter{
				Writer:         io.MultiWriter(c.Response().Writer, buf),
				ResponseWriter: c.Response().Writer,
			}
			c.Response().Writer = writer

			if err := next(c); err != nil {
				return err
			}

			if status := c.Response().Status; status < http.StatusBadRequest {
				cached = cachedResponse{
					Status:      status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        buf.Bytes(),
				}
				if err := svc.Set(context, key, cached); err != nil {
					context.WithFields(log.Fields{"key": key, "err": err}).Warn("failed to cache response")
				}
			}
			return nil
		}
	}
}
