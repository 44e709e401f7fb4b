// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"log/slog"
	"time"
)

// OperationCall describes one operation invocation for logging purposes.
type OperationCall struct {
	// Reference is the "provider.operation" name.
	Reference string

	// StatusCode is the upstream HTTP status, if a request was made.
	StatusCode int

	// RequestID is the upstream request ID, if one was returned.
	RequestID string

	// CacheHit is true when the response was served from the local cache.
	CacheHit bool

	// Duration is how long the invocation took.
	Duration time.Duration

	// Err is the error returned by the operation.
	Err error
}

// LogOperationCall logs a finished operation. Failures are logged at warn,
// successes at debug.
func LogOperationCall(ctx context.Context, logger *slog.Logger, call *OperationCall) {
	attrs := []slog.Attr{
		slog.String(OperationKey, call.Reference),
		slog.Int64(DurationKey, call.Duration.Milliseconds()),
	}
	if call.StatusCode != 0 {
		attrs = append(attrs, slog.Int("status", call.StatusCode))
	}
	if call.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", call.RequestID))
	}
	if call.CacheHit {
		attrs = append(attrs, slog.Bool("cache_hit", true))
	}

	if call.Err != nil {
		attrs = append(attrs, Error(call.Err))
		logger.LogAttrs(ctx, slog.LevelWarn, "operation failed", attrs...)
		return
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "operation completed", attrs...)
}

// OperationMiddleware wraps operation handlers with call logging.
type OperationMiddleware struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewOperationMiddleware creates a new operation logging middleware.
func NewOperationMiddleware(logger *slog.Logger) *OperationMiddleware {
	return &OperationMiddleware{
		logger: logger,
		now:    time.Now,
	}
}

// Handler runs handler and logs the outcome. The handler fills in the
// response details of call; Duration and Err are set by the middleware.
func (m *OperationMiddleware) Handler(ctx context.Context, call *OperationCall, handler func() error) error {
	start := m.now()
	m.logger.LogAttrs(ctx, slog.LevelDebug, "executing operation", slog.String(OperationKey, call.Reference))

	err := handler()

	call.Duration = m.now().Sub(start)
	call.Err = err
	LogOperationCall(ctx, m.logger, call)

	return err
}
