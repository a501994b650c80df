// Package funapptest provides test helpers for funapp applications.
//
// It constructs the identical DI graph as [funapp.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	funapptest.SetBaseEnv(t, 18181)
//	app := funapptest.New(t)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package funapptest

import (
	"testing"

	"github.com/advdv/bfun/funapp"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing funapp applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [funapp.NewApp].
func New(t testing.TB, opts ...funapp.Option) *App {
	return &App{App: fxtest.New(t, funapp.FxOptions(opts...)...)}
}
