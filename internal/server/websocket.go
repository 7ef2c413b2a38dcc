package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/crystaldolphin/agentgen/internal/bus"
)

const (
	eventBufferSize = 256
	writeWait       = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// executeAgentWS reads one ExecuteRequest, runs it and streams every
// progress event as JSON until the run ends. The run is cancelled if the
// client goes away.
func (s *Server) executeAgentWS(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return nil
	}
	defer conn.Close()

	var req ExecuteRequest
	if err := conn.ReadJSON(&req); err != nil {
		writeFailure(conn, msgInvalidBody)
		return nil
	}
	if req.missingParams() {
		writeFailure(conn, msgMissingParams)
		return nil
	}

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// The read loop only ends when the client disconnects.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	events := bus.NewEventBus(eventBufferSize)
	errCh := make(chan error, 1)
	go func() {
		_, err := s.runner.Stream(ctx, req.toPipeline(), events)
		errCh <- err
	}()

	for ev := range events.Subscribe() {
		if ev.Type == bus.EventFailed {
			// Clients see the same messages as the plain HTTP endpoint.
			err := <-errCh
			slog.Warn("websocket run failed", "err", err)
			_, ev.Text = errorStatus(err)
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(ev); err != nil {
			cancel()
			for range events.Subscribe() {
			}
			return nil
		}
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	return nil
}

func writeFailure(conn *websocket.Conn, msg string) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteJSON(bus.NewEvent(bus.EventFailed, "").WithText(msg))
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}
