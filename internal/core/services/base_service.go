package services

import (
	"context"
	"log/slog"

	"github.com/oxalis-saas/habilitations_backend/internal/middleware"
)

// BaseService provides logging helpers shared by all services. The logger is
// request-scoped and pulled from the context.
type BaseService struct {
	name string
}

func newBaseService(name string) BaseService {
	return BaseService{name: name}
}

func (b *BaseService) logger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx).With(slog.String("service", b.name))
}

// LogInfo logs an informational message with the request-scoped logger.
func (b *BaseService) LogInfo(ctx context.Context, msg string, args ...any) {
	b.logger(ctx).Info(msg, args...)
}

// LogError logs an error with the request-scoped logger.
func (b *BaseService) LogError(ctx context.Context, msg string, err error, args ...any) {
	b.logger(ctx).Error(msg, append([]any{slog.String("error", err.Error())}, args...)...)
}

// LogWarn logs a warning with the request-scoped logger.
func (b *BaseService) LogWarn(ctx context.Context, msg string, args ...any) {
	b.logger(ctx).Warn(msg, args...)
}

// LogDebug logs a debug message with the request-scoped logger.
func (b *BaseService) LogDebug(ctx context.Context, msg string, args ...any) {
	b.logger(ctx).Debug(msg, args...)
}
