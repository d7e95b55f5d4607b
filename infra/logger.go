package infra

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tnqbao/gau-video-service/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// LoggerClient is the service-wide structured logger. Outside the "local"
// group it bridges slog records into the OTLP log pipeline set up by
// InitTelemetry.
type LoggerClient struct {
	logger *slog.Logger
}

func InitLoggerClient(cfg *config.EnvConfig) *LoggerClient {
	if cfg.Environment.Group == "local" {
		return &LoggerClient{
			logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
		}
	}
	return &LoggerClient{
		logger: otelslog.NewLogger(cfg.Grafana.ServiceName),
	}
}

// NewLoggerClient wraps an existing slog.Logger, mainly for tests.
func NewLoggerClient(logger *slog.Logger) *LoggerClient {
	return &LoggerClient{logger: logger}
}

func (l *LoggerClient) InfoWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.InfoContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) WarningWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.WarnContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{}) {
	if err != nil {
		l.logger.ErrorContext(ctx, fmt.Sprintf(format, args...), slog.Any("error", err))
		return
	}
	l.logger.ErrorContext(ctx, fmt.Sprintf(format, args...))
}
