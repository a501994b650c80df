package funapp

import (
	"context"
	"net"
	"net/http"

	"github.com/advdv/bfun"
	"github.com/advdv/bfun/conf"
	"github.com/advdv/bfun/internal/arcpng"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ServerConfig holds optional configuration for the HTTP servers.
type ServerConfig struct {
	// Middlewares wrap every fun handler, inside the logging and access log middleware.
	Middlewares []bfun.Middleware
}

// ServerParams holds the dependencies for creating the HTTP servers.
type ServerParams struct {
	fx.In

	Env        Environment
	Servers    []conf.Server
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewServers creates one HTTP server per configured server block.
func NewServers(params ServerParams, cfg ServerConfig) []*http.Server {
	servers := make([]*http.Server, 0, len(params.Servers))
	for _, srv := range params.Servers {
		servers = append(servers, newServer(params, cfg, srv))
	}

	return servers
}

func newServer(params ServerParams, cfg ServerConfig, srv conf.Server) *http.Server {
	logger := params.Logger.With(zap.String("listen", srv.Listen))

	mux := bfun.NewServeMuxWith(params.Env.BufferLimit, newZapFunLogger(logger), http.NewServeMux())
	mux.Use(withLogger(logger), withAccessLog())
	mux.Use(cfg.Middlewares...)

	for _, loc := range srv.Locations {
		content, ok := locationContent(loc)
		if !ok {
			logger.Debug("location has no fun handler", zap.String("path", loc.Path))
			continue
		}

		mux.Handle(loc.Path, bfun.Wrap(bfun.NewHandler(content), withSpanAttributes(loc.Variant.String())))
		logger.Debug("serving location",
			zap.String("path", loc.Path),
			zap.Stringer("variant", loc.Variant),
			zap.Int("radius", loc.Radius))
	}

	// Tracing is outermost, with explicit provider injection (no globals).
	var handler http.Handler = withTracing(params.TracerProv, params.Propagator, params.Env.ServiceName)(mux)
	if params.Env.H2C {
		handler = h2c.NewHandler(handler, &http2.Server{IdleTimeout: params.Env.IdleTimeout})
	}

	return &http.Server{
		Addr:              srv.Listen,
		Handler:           handler,
		ReadHeaderTimeout: params.Env.ReadHeaderTimeout,
		WriteTimeout:      params.Env.WriteTimeout,
		IdleTimeout:       params.Env.IdleTimeout,
	}
}

func locationContent(loc conf.Location) (bfun.Content, bool) {
	switch loc.Variant {
	case conf.VariantStatic:
		return bfun.NewStatic(), true
	case conf.VariantGenerated:
		return bfun.Generated{Radius: loc.Radius, Encoder: arcpng.Encoder{}}, true
	default:
		return nil, false
	}
}

// startServersHook registers lifecycle hooks for the HTTP servers. Listening happens on start so that an
// address that is taken fails the start.
func startServersHook(lc fx.Lifecycle, servers []*http.Server, logger *zap.Logger) {
	for _, server := range servers {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", server.Addr)
				if err != nil {
					return errors.Wrapf(err, "listen on %q", server.Addr)
				}

				logger.Info("starting server", zap.String("addr", ln.Addr().String()))
				go func() {
					if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("server error", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				logger.Info("stopping server", zap.String("addr", server.Addr))
				return server.Shutdown(ctx)
			},
		})
	}
}
