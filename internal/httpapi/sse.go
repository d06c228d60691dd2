package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"docuchat/internal/service/chat"
)

// writeEventStream encodes chat events as Server-Sent Events: one JSON object
// per event under a `data:` prefix, blank-line delimited. Clients parse this
// framing directly, so it is part of the wire contract.
func writeEventStream(w http.ResponseWriter, events <-chan chat.Event) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)

	for ev := range events {
		payload, err := marshalEvent(ev)
		if err != nil {
			continue
		}

		fmt.Fprintf(w, "data: %s\n\n", payload)

		if canFlush {
			flusher.Flush()
		}
	}
}

func marshalEvent(ev chat.Event) ([]byte, error) {
	switch ev.Type {
	case chat.EventSources:
		return json.Marshal(struct {
			Sources []string `json:"sources"`
		}{ev.Sources})
	case chat.EventReasoning:
		return json.Marshal(struct {
			Thought string `json:"thought"`
		}{ev.Text})
	case chat.EventError:
		return json.Marshal(struct {
			Error string `json:"error"`
		}{ev.Text})
	default:
		return json.Marshal(struct {
			Answer string `json:"answer"`
		}{ev.Text})
	}
}
