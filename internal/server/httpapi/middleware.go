package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/entrust/internal/common"
	"github.com/dmitrijs2005/entrust/internal/logging"
	domain "github.com/dmitrijs2005/entrust/internal/members"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const callerKey ctxKey = "caller"

func withCaller(ctx context.Context, m *domain.Member) context.Context {
	return context.WithValue(ctx, callerKey, m)
}

// callerFrom returns the authenticated member stored by requireAuth.
func callerFrom(ctx context.Context) *domain.Member {
	m, _ := ctx.Value(callerKey).(*domain.Member)
	return m
}

// requireAuth resolves the bearer token to a member record.
func requireAuth(auth AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AuthorizationHeaderName)
			token, ok := strings.CutPrefix(header, common.BearerPrefix)
			if !ok || token == "" {
				writeError(w, common.ErrorUnauthorized)
				return
			}

			m, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), m)))
		})
	}
}

// requestLogger logs one line per request through the structured logger.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
