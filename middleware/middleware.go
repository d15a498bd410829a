package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/base/log"
	"github.com/x-xyz/auctionapi/base/metrics"
)

// GoMiddleware holds handler middlewares shared by the http server.
type GoMiddleware struct {
	met metrics.Service
}

// InitMiddleware initialize the middleware
func InitMiddleware() *GoMiddleware {
	return &GoMiddleware{
		met: metrics.New("http"),
	}
}

// CORS will handle the CORS middleware
func (m *GoMiddleware) CORS(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		return next(c)
	}
}

// AddContext attaches a request scoped ctx.Ctx carrying a request id.
func (m *GoMiddleware) AddContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestId := c.Request().Header.Get(echo.HeaderXRequestID)
		if requestId == "" {
			requestId = uuid.New().String()
		}
		context := ctx.WithValues(ctx.Background(), map[string]interface{}{
			"requestId": requestId,
		})
		c.Set("ctx", context)
		return next(c)
	}
}

// ResponseLogger logs request latency and emits timing metrics per route.
func (m *GoMiddleware) ResponseLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		latency := time.Since(start)

		context, ok := c.Get("ctx").(ctx.Ctx)
		if !ok {
			context = ctx.Background()
		}

		route := c.Path()
		method := c.Request().Method
		status := c.Response().Status

		m.met.BumpSum("request.count", 1, "route", route, "method", method, "status", strconv.Itoa(status))
		m.met.BumpHistogram("request.latency_ms", float64(latency.Milliseconds()), "route", route, "method", method)

		fields := log.Fields{
			"route":   route,
			"method":  method,
			"status":  status,
			"latency": latency.String(),
		}
		if err != nil {
			fields["err"] = err
			context.WithFields(fields).Warn("request failed")
		} else if latency > time.Second {
			context.WithFields(fields).Warn("slow request")
		} else {
			context.WithFields(fields).Info("request served")
		}
		return err
	}
}

// IsValidAddress checks hex address format without checksum validation.
func IsValidAddress(address string) bool {
	if !strings.HasPrefix(address, "0x") {
		return false
	}
	if len(address) != 42 {
		return false
	}
	for _, r := range strings.ToLower(address[2:]) {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
