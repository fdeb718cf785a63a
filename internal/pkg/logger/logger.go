// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Init 配置全局 zerolog，并绑定服务名
func Init(serviceName string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zlog.Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// Logger 返回全局 logger
func Logger() *zerolog.Logger {
	return &zlog.Logger
}

// Ctx 从 context 中取出请求级 logger；如果没有则退回全局 logger。
// 配合 WithTrace 使用，保证每条日志都带 trace_id。
func Ctx(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &zlog.Logger
	}
	return l
}

// WithTrace 把带 trace_id 的 logger 注入 context
func WithTrace(ctx context.Context) context.Context {
	spanCtx := trace.SpanContextFromContext(ctx)
	l := zlog.Logger
	if spanCtx.HasTraceID() {
		l = l.With().Str("trace_id", spanCtx.TraceID().String()).Logger()
	}
	return l.WithContext(ctx)
}
