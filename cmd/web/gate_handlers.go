package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"comforttech.in/ac-web/internal/gate"
	"comforttech.in/ac-web/internal/observability"
)

// gateMessage is one frame on the loading socket.
type gateMessage struct {
	Type string `json:"type"`
	gate.Snapshot
}

// GateSocketHandler streams loading progress for one page view and closes
// after the reveal frame.
func (s *server) GateSocketHandler(w http.ResponseWriter, r *http.Request) {
	ws := websocket.Server{
		Handshake: s.checkOrigin,
		Handler: func(conn *websocket.Conn) {
			s.serveGate(conn, r)
		},
	}
	ws.ServeHTTP(w, r)
}

func (s *server) checkOrigin(cfg *websocket.Config, r *http.Request) error {
	origin, err := websocket.Origin(cfg, r)
	if err != nil {
		return err
	}
	if origin == nil {
		return fmt.Errorf("missing origin")
	}
	if strings.EqualFold(origin.Host, r.Host) {
		return nil
	}
	if base, err := url.Parse(s.cfg.BaseURL); err == nil && strings.EqualFold(origin.Host, base.Host) {
		return nil
	}
	return fmt.Errorf("origin %q not allowed", origin.Host)
}

func (s *server) serveGate(conn *websocket.Conn, r *http.Request) {
	defer conn.Close()
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	logger := observability.FromContext(ctx)

	// The client never sends anything; a read error means it went away.
	go func() {
		var discard string
		for {
			if err := websocket.Message.Receive(conn, &discard); err != nil {
				cancel()
				return
			}
		}
	}()

	opts := []gate.Option{
		gate.WithLogger(logger),
		gate.WithExitDelay(s.cfg.Gate.ExitDelay),
	}
	g := gate.New(s.assets, s.cfg.Gate.Assets, s.cfg.Gate.MinDuration, append(opts, s.gateOpts...)...)
	defer s.metrics.GateStarted()()

	started := time.Now()
	updates := g.Subscribe()
	g.Start(ctx)
	defer g.Close()

	for snap := range updates {
		msg := gateMessage{Type: "progress", Snapshot: snap}
		if snap.Revealed() {
			msg.Type = "reveal"
		}
		if err := websocket.JSON.Send(conn, msg); err != nil {
			logger.Debug("gate socket send", zap.Error(err))
			return
		}
		if snap.Revealed() {
			s.metrics.ObserveGateReveal(time.Since(started).Seconds())
			return
		}
	}
}
