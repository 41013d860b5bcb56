package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/logger"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

type requestInfoKey struct{}

// requestInfo is filled by inner middleware so the access log can report
// who called and for which tenant
type requestInfo struct {
	requestID      string
	userID         string
	userName       string
	organizationID string
}

func requestInfoFrom(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(*requestInfo)
	return info
}

// RequestIDFromContext returns the id assigned by Logging
func RequestIDFromContext(ctx context.Context) string {
	if info := requestInfoFrom(ctx); info != nil {
		return info.requestID
	}
	return ""
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logging middleware logs HTTP requests. A valid incoming X-Request-ID is reused.
func Logging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, requestID)
			info := &requestInfo{requestID: requestID}
			r = r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info))

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			reqLogger := logger.WithRequest(log, r.Method, r.URL.Path, requestID)

			fields := []zap.Field{
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status_code", rw.statusCode),
				zap.Int64("response_size", rw.written),
				zap.Duration("duration", duration),
			}

			if info.userID != "" {
				fields = append(fields,
					zap.String("user_id", info.userID),
					zap.String("user_name", info.userName),
				)
			}
			if info.organizationID != "" {
				fields = append(fields, zap.String("organization_id", info.organizationID))
			}

			reqLogger.Info(
				fmt.Sprintf("%s %-30s -> %3d (%s)",
					r.Method,
					r.URL.Path,
					rw.statusCode,
					duration.Truncate(time.Microsecond),
				),
				fields...,
			)
		})
	}
}
