// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/section-engine/internal/httputil"
	"github.com/pdiddy/section-engine/internal/logging"
	"github.com/pdiddy/section-engine/pkg/types"
)

type contextKey string

const actorKey contextKey = "actor"

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-Id"

// ActorFromContext returns the authenticated actor, or the anonymous actor.
func ActorFromContext(ctx context.Context) types.Actor {
	a, _ := ctx.Value(actorKey).(types.Actor)
	return a
}

// withActor resolves the bearer token to an actor. Unknown tokens are
// rejected with 401.
func (s *Server) withActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.tokens[httputil.BearerToken(r)]
		if !ok || user == "" {
			writeError(w, r, ErrUnauthenticated)
			return
		}
		actor := types.Actor{ID: user, Role: s.roles[user]}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		log := logging.FromContext(ctx).With().Str("user", user).Logger()
		next.ServeHTTP(w, r.WithContext(logging.WithContext(ctx, log)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLog assigns a request id, attaches a request logger to the
// context and logs one line per request.
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)

		log := logging.Logger().With().
			Str("component", "server").
			Str("request_id", id).
			Logger()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(logging.WithContext(r.Context(), log)))

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
