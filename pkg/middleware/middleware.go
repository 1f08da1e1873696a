package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/composables"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/httpapi"

	"github.com/jackc/pgx/v5/pgxpool"
)

const TenantHeader = "X-Organization-ID"

// WithLogger attaches a per-request logger entry carrying a request id and
// logs request completion with duration.
func WithLogger(log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			entry := log.WithFields(logrus.Fields{
				"request_id": uuid.NewString(),
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			next.ServeHTTP(w, r.WithContext(composables.WithLogger(r.Context(), entry)))
			entry.WithField("duration", time.Since(start).String()).Info("request completed")
		})
	}
}

// WithPool places the database pool in the request context so services can
// open transactions.
func WithPool(pool *pgxpool.Pool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(composables.WithPool(r.Context(), pool)))
		})
	}
}

// RequireTenantHeader resolves the tenant from the organization header. The
// platform gateway authenticates upstream and injects the header; requests
// without it are rejected.
func RequireTenantHeader() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(TenantHeader))
			if raw == "" {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "MISSING_TENANT", "missing "+TenantHeader+" header", nil)
				return
			}
			tenantID, err := uuid.Parse(raw)
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "INVALID_TENANT", "invalid "+TenantHeader+" header", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(composables.WithTenantID(r.Context(), tenantID)))
		})
	}
}
