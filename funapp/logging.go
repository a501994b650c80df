package funapp

import (
	"context"
	"net/http"
	"time"

	"github.com/advdv/bfun"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// Uses JSON encoding, FUN_LOG_LEVEL controls the level.
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.LogLevel)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledServeError(err error) {
	l.Logger.Error("unhandled server error", zap.Error(err))
}

func (l zapLogger) LogSendError(err error) {
	l.Logger.Error("error after headers were sent", zap.Error(err))
}

func newZapFunLogger(l *zap.Logger) bfun.Logger {
	return zapLogger{l.Named("bfun").Named("funapp")}
}

type ctxKey int

const ctxKeyLogger ctxKey = iota

// withLogger makes the logger available to the handler through [Log].
func withLogger(l *zap.Logger) bfun.Middleware {
	return func(next bfun.Handler) bfun.Handler {
		return bfun.HandlerFunc(func(ctx context.Context, rq *bfun.Request) error {
			return next.ServeFun(context.WithValue(ctx, ctxKeyLogger, l), rq)
		})
	}
}

// Log returns a trace-correlated zap logger from the context. Outside a request it returns a no-op logger.
func Log(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(ctxKeyLogger).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}

	return l.With(traceFields(ctx)...)
}

// traceFields extracts trace_id and span_id from the context for log correlation.
func traceFields(ctx context.Context) []zap.Field {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return nil
	}

	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

// withAccessLog logs one line per served request.
func withAccessLog() bfun.Middleware {
	return func(next bfun.Handler) bfun.Handler {
		return bfun.HandlerFunc(func(ctx context.Context, rq *bfun.Request) error {
			start := time.Now()
			err := next.ServeFun(ctx, rq)

			fields := []zap.Field{
				zap.String("method", rq.Method),
				zap.Int("status", responseStatus(rq, err)),
				zap.Int64("content_length", rq.Out.ContentLength.Int64()),
				zap.Duration("duration", time.Since(start)),
			}

			if std := rq.Std(); std != nil {
				fields = append(fields, zap.String("path", std.URL.Path))
			}

			Log(ctx).Info("served request", fields...)
			return err
		})
	}
}

// responseStatus is the status the client receives for the outcome of a request.
func responseStatus(rq *bfun.Request, err error) int {
	switch {
	case rq.HeadersSent():
		return rq.Out.Status
	case err == nil:
		return http.StatusOK
	}

	code := bfun.CodeOf(err)
	if code == bfun.CodeUnknown {
		code = bfun.CodeInternalServerError
	}

	return int(code)
}
