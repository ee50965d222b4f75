package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/stream"
)

// StreamEvents はストアの変更を Server-Sent Events で配信する。
// 接続直後に全コレクションの現在のスナップショットを送り、
// 以後は変更のたびに該当コレクションの完全なスナップショットを送る
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.errorResponse(w, r, "この接続はストリーミングに対応していません")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sub := h.broker.Subscribe()
	defer sub.Cancel()

	for _, collection := range stream.Collections() {
		event, err := h.broker.Snapshot(collection)
		if err != nil {
			h.logInternalServerError(r, err)
			return
		}
		if err := writeEvent(w, event); err != nil {
			return
		}
	}
	flusher.Flush()

	heartbeat := time.NewTicker(time.Duration(h.config.Events.HeartbeatInterval) * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			// 切断時は購読を解除するだけで良い
			return
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			if err := writeEvent(w, event); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event stream.Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Collection, data)
	return err
}
