package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskhive/internal/server/middleware"
	redisstore "github.com/gosuda/taskhive/internal/store/redis"
)

// EventSource is the subscription side of the notice pubsub. The returned
// channel closes when the subscription ends; cleanup releases it.
type EventSource interface {
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// notificationStream pushes the authenticated user's notice events as
// server-sent events. Each event payload is the JSON the notifier
// published for that user; the stream stays open until the client
// disconnects.
func notificationStream(events EventSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":false,"message":"Not authorized. Try login again."}`))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		msgs, cleanup, err := events.Subscribe(r.Context(), redisstore.NoticeChannel(userID))
		if err != nil {
			log.Error().Err(err).Stringer("user_id", userID).Msg("notice stream subscribe failed")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(fmt.Sprintf(`{"status":false,"message":%q}`, err.Error())))
			return
		}
		defer cleanup()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case msg, open := <-msgs:
				if !open {
					return
				}
				fmt.Fprintf(w, "data: %s\n\n", msg)
				flusher.Flush()
			}
		}
	}
}
