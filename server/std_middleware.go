package server

import (
	"fmt"
	"math"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vintegcorp/vintegcorp/internal/config"
	apperrors "github.com/vintegcorp/vintegcorp/internal/errors"
	"github.com/vintegcorp/vintegcorp/ratelimit"
)

// MsgTooManyRequests is returned with every 429
const MsgTooManyRequests = "Too many requests. Please try again later."

// ChainMiddleware wraps routeFunction so that mw[0] runs first
func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

// RecoverMiddleware turns a panic into the generic 500 response
func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.writeError(w, r, fmt.Errorf("panic: %v\n%s", rec, debug.Stack()))
			}
		}()
		next(w, r)
	}
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next(ww, r)

		level := zerolog.InfoLevel
		if s.env == config.DevEnvironment {
			level = zerolog.DebugLevel
		}
		s.logger.WithLevel(level).
			Str("requestId", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// SecurityHeadersMiddleware sets the hardening headers sent with every response
func (s *Server) SecurityHeadersMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		h.Set("Cache-Control", "no-store, max-age=0, must-revalidate")
		if id := middleware.GetReqID(r.Context()); id != "" {
			h.Set(middleware.RequestIDHeader, id)
		}
		next(w, r)
	}
}

// CorsMiddleware reflects allowed origins and answers every preflight with 200
// before any route lookup or rate limiting.
func (s *Server) CorsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := s.config.GetAllowedOrigins()

		h := w.Header()
		switch {
		case origin != "" && allowedOrigins.IsAllowedOrigin(origin):
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		case origin == "" && allowedOrigins.IsAllowedOrigin("*"):
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		// If not allowed, don't set CORS headers - browser will block
		h.Set("Access-Control-Allow-Methods", s.config.GetAllowedMethods())
		h.Set("Access-Control-Allow-Headers", s.config.GetAllowedHeaders())

		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Max-Age", "86400")
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

// RateLimitMiddleware rejects callers that used up their window with 429
func (s *Server) RateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next(w, r)
			return
		}
		key := ratelimit.ClientKey(r)
		if !s.limiter.Allow(key) {
			s.logger.Warn().Str("ip", key).Msg("Rate limit exceeded")
			retry := int(math.Ceil(s.limiter.RetryAfter(key).Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
			s.writeError(w, r, apperrors.TooManyRequests(MsgTooManyRequests))
			return
		}
		next(w, r)
	}
}
