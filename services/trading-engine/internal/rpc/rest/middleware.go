package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/thetanav/trading-system/pkg/logger"
	"github.com/thetanav/trading-system/pkg/util"
)

const accountHeader = "X-Account-ID"

// requestContext copies the request id, client ip and account header into the context.
func requestContext(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := util.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ctx = util.WithClientIP(ctx, r.RemoteAddr)
		if id := strings.TrimSpace(r.Header.Get(accountHeader)); id != "" {
			ctx = util.WithActorID(ctx, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}

// accessLog logs every request once it has been served.
func accessLog(log logger.Interface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.DebugContext(r.Context(), "HTTP request",
				logger.NewField("method", r.Method),
				logger.NewField("path", r.URL.Path),
				logger.NewField("status", ww.Status()),
				logger.NewField("bytes", ww.BytesWritten()),
				logger.NewField("duration", time.Since(start).String()),
			)
		}
		return http.HandlerFunc(fn)
	}
}

// requireAccount rejects requests without an account header.
func requireAccount(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if util.GetActorID(r.Context()) == "" {
			writeJSON(w, http.StatusUnauthorized, Response{Msg: errMissingAccount.Message, Code: errMissingAccount.Code})
			return
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}
