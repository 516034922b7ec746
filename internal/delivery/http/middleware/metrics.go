package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
)

type HTTPRecorder interface {
	ObserveHTTP(method, path, status string, d time.Duration)
}

type MetricsMiddleware struct {
	rec HTTPRecorder
}

func NewMetricsMiddleware(rec HTTPRecorder) *MetricsMiddleware {
	return &MetricsMiddleware{rec: rec}
}

// Middleware labels requests by route pattern rather than raw path to keep
// label cardinality bounded. Unmatched requests share one label.
func (m *MetricsMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if m == nil || m.rec == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		path := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			path = r.Path
		} else if c.Path() == "/" {
			path = "/"
		}
		m.rec.ObserveHTTP(c.Method(), path, strconv.Itoa(c.Response().StatusCode()), time.Since(start))
		return err
	}
}
