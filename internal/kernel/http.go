// Package kernel assembles the HTTP handler: the global middleware stack,
// the metrics endpoint, and the application routes.
package kernel

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/influex/app/routes"
	"github.com/shashiranjanraj/influex/pkg/metrics"
	"github.com/shashiranjanraj/influex/pkg/middleware"
	"github.com/shashiranjanraj/influex/pkg/reqid"
	"github.com/shashiranjanraj/influex/pkg/router"
)

type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the handler. Middleware order matters: metrics
// wraps everything so even panics are counted, recovery sits above the
// request-scoped middlewares, and rate limiting runs last so rejected
// requests still carry a request id in their logs.
func NewHTTPKernel() *HTTPKernel {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(200, time.Minute),
	)

	r.HandleFunc("/metrics", metrics.Handler())
	routes.RegisterAPI(r)

	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

func (k *HTTPKernel) Router() *router.Router { return k.router }
