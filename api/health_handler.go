package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rpupo63/learning-projects-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        pinger
}

func newHealthHandler(db pinger) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

// health reports whether the database answers within two seconds
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("Database ping failed")
			h.responder.WriteError(w, errs.NewDatabaseUnavailableError(err))
			return
		}

		h.responder.WriteJSON(w, StatusMessage{Status: "ok", Message: "database reachable"})
	}
}
