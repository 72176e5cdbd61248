package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/SscSPs/clinic_billing/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// Clock overrides the wall clock; tests set it to pin dates.
	Clock func() time.Time
	// Location is the timezone in which calendar days and months are cut; nil means UTC.
	Location *time.Location
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// CalendarDay is the business day of t in the service location.
func (s *BaseService) CalendarDay(t time.Time) time.Time {
	return domain.CalendarDay(t, s.Location)
}

// Today is the current business day.
func (s *BaseService) Today() time.Time {
	return s.CalendarDay(s.Now())
}

// InLocation converts t to the service location.
func (s *BaseService) InLocation(t time.Time) time.Time {
	if s.Location == nil {
		return t.UTC()
	}
	return t.In(s.Location)
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}
