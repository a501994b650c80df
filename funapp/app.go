package funapp

import (
	"context"

	"github.com/advdv/bfun"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	ServerConfig
	FxOptions []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// WithFx adds fx options for dependency injection.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// WithMiddleware wraps every fun handler of every server.
func WithMiddleware(mw ...bfun.Middleware) Option {
	return func(c *AppConfig) {
		c.Middlewares = append(c.Middlewares, mw...)
	}
}

// FxOptions returns the fx options that make up the app. [NewApp] and the funapptest package build on it.
func FxOptions(opts ...Option) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseOpts := make([]fx.Option, 0, 9+len(cfg.FxOptions))
	baseOpts = append(baseOpts, []fx.Option{
		fx.NopLogger,
		fx.Provide(ParseEnv),
		fx.Provide(LoadServers),
		fx.Provide(func(e Environment) (*zap.Logger, error) { return NewLogger(e) }),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Supply(cfg.ServerConfig),
		fx.Provide(NewServers),
		fx.Invoke(startServersHook),
	}...)

	return append(baseOpts, cfg.FxOptions...)
}

// NewApp creates the app serving the configured locations.
//
// Example:
//
//	funapp.NewApp(
//	    funapp.WithMiddleware(myMiddleware),
//	).Run()
func NewApp(opts ...Option) *App {
	return &App{
		app: fx.New(FxOptions(opts...)...),
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Start starts the application and stops it once ctx is done.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}

// Err reports an error that occurred while building the app.
func (a *App) Err() error {
	return a.app.Err()
}
