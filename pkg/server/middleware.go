package server

import (
	"context"
	"math"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// HeaderRequestID carries the request correlation ID. A caller-supplied
// value is echoed back; otherwise one is generated.
const HeaderRequestID = "X-Request-ID"

type requestIDKey struct{}

// withRequestID tags every request and its response with a correlation ID.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		requestID := hr.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		rw.Header().Set(HeaderRequestID, requestID)

		next.ServeHTTP(rw, hr.WithContext(context.WithValue(hr.Context(), requestIDKey{}, requestID)))
	})
}

// RequestID returns the correlation ID of the request carried by ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)

	return id
}

// newLimiter returns nil when perSecond is not positive. A burst below 1
// defaults to the per-second rate rounded up.
func newLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}

	if burst < 1 {
		burst = int(math.Ceil(perSecond))
	}

	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// limited rejects requests over the limiter's rate with 429. A nil limiter
// passes everything through.
func (a *api) limited(limiter *rate.Limiter, next http.HandlerFunc) http.HandlerFunc {
	if limiter == nil {
		return next
	}

	return func(rw http.ResponseWriter, hr *http.Request) {
		if !limiter.Allow() {
			rw.Header().Set("Retry-After", "1")
			a.writeError(hr.Context(), rw, http.StatusTooManyRequests, errRateLimited)

			return
		}

		next(rw, hr)
	}
}
