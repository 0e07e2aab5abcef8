package sse

import (
	"net/http"
	"strings"
	"time"

	"github.com/osse101/Underworld_Go/internal/logger"
)

// Handler streams hub events. ?types= takes a comma separated list of event
// types and ?character_id= limits the stream to events involving one character.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, errMsgStreamingUnsupported, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		var eventTypes []string
		if filter := r.URL.Query().Get(QueryParamTypes); filter != "" {
			eventTypes = strings.Split(filter, ",")
		}
		characterID := r.URL.Query().Get(QueryParamCharacter)

		ctx := r.Context()
		log := logger.FromContext(ctx)

		client := hub.Register(eventTypes, characterID)
		log.Info(LogMsgClientConnected,
			"client_id", client.ID,
			"filters", eventTypes,
			"character_filter", characterID,
			"total_clients", hub.ClientCount())
		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		write := func(e Event) bool {
			msg, err := FormatSSEMessage(e)
			if err != nil {
				log.Error(LogMsgWriteError, "error", err)
				return true
			}
			if _, err := w.Write(msg); err != nil {
				log.Warn(LogMsgWriteError, "error", err)
				return false
			}
			flusher.Flush()
			return true
		}

		if !write(Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload: map[string]interface{}{
				"client_id":    client.ID,
				"filters":      eventTypes,
				"character_id": characterID,
			},
		}) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-client.EventChannel:
				if !ok {
					return
				}
				if !write(event) {
					return
				}
			case <-ticker.C:
				if !write(Event{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}) {
					return
				}
			}
		}
	}
}
