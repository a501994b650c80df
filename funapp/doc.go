// Package funapp runs the fun handlers as a service.
//
// The environment is parsed into [Environment], the location file named by FUN_CONFIG_FILE is resolved with the
// environment as its outermost layer and one HTTP server is started per server block. Without a file a single
// server on FUN_LISTEN serves the fixed string at "/" and the generated image at "/fun.png".
//
// Every request is traced with otelhttp and logged with zap:
//
//	funapp.NewApp().Run()
//
// Handlers can use [Log] to get a trace-correlated logger from their context.
package funapp
