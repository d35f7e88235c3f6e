package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const telemetryInterval = 2 * time.Second

// telemetryFrame is pushed periodically over /ws, combining a metrics
// snapshot with the current log buffer so a dashboard client needs a
// single subscription rather than polling both REST endpoints.
type telemetryFrame struct {
	Metrics any             `json:"metrics"`
	Logs    json.RawMessage `json:"logs"`
}

// handleTelemetryWebSocket upgrades the connection and pushes a
// telemetryFrame every telemetryInterval until the client disconnects,
// mirroring the teacher's mount.go broadcaster loop (one goroutine per
// connection, write-then-wait, exit on read/write error).
func (s *Server) handleTelemetryWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("server", "websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// A dedicated reader goroutine detects client-initiated close
	// frames (clients don't send data on this stream); its exit
	// signals the write loop below to stop.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(telemetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			logs, err := s.logger.JSON()
			if err != nil {
				logs = []byte("[]")
			}
			frame := telemetryFrame{Metrics: s.metrics.Snapshot(), Logs: logs}
			data, err := json.Marshal(frame)
			if err != nil {
				s.logger.Errorf("server", "telemetry frame marshal failed: %v", err)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
