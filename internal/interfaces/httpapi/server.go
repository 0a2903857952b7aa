package httpapi

import (
	"net/http"

	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
)

// RouterOptions carries the optional parts of the router.
type RouterOptions struct {
	CORSAllowedOrigins []string
	// Metrics is served on GET /metrics when set.
	Metrics http.Handler
	// Observer receives request counts and latencies.
	Observer HTTPObserver
}

func NewRouter(handler *Handler, verifier TokenVerifier, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts.Metrics)
	registerAccountRoutes(mux, handler, verifier)
	registerPlayerRoutes(mux, handler, verifier)
	registerMatchRoutes(mux, handler, verifier)
	registerBettingRoutes(mux, handler, verifier)
	registerLeagueRoutes(mux, handler, verifier)
	registerTournamentRoutes(mux, handler, verifier)
	registerPartnerRoutes(mux, handler, verifier)
	registerDivisionRoutes(mux, handler, verifier)

	return RequestTracing(RequestID(RequestLogging(logger, opts.Observer, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "request_id", requestIDFromContext(r.Context()))
				writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
