package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/creasebook/scoring/internal/infra"
	"github.com/creasebook/scoring/internal/service"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

const (
	streamBuffer       = 16
	streamWriteTimeout = 5 * time.Second
)

// Subscriber hands out per-viewer queues for a match.
type Subscriber interface {
	Subscribe(matchID uuid.UUID, buffer int) (*infra.WSConn, func())
}

// StreamHandler pushes live snapshots to viewers over a websocket.
type StreamHandler struct {
	svc    *service.MatchService
	hub    Subscriber
	logger *slog.Logger
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(svc *service.MatchService, hub Subscriber, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{svc: svc, hub: hub, logger: logger}
}

// Stream handles GET /matches/{matchID}/ws. The current snapshot is sent
// first, then every newer update until either side closes.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	// Subscribe before reading the snapshot so no update falls in between.
	sub, leave := h.hub.Subscribe(id, streamBuffer)
	defer leave()

	snap, err := h.svc.Snapshot(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	first, err := json.Marshal(infra.WSMessage{Event: service.BroadcastSnapshot, Data: snap})
	if err != nil {
		RespondError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		h.logger.Error("websocket accept failed", "match_id", id, "error", err)
		return
	}
	defer conn.CloseNow()

	// Viewers never send; CloseRead handles control frames and cancels ctx on close.
	ctx := conn.CloseRead(r.Context())

	if err := write(ctx, conn, first); err != nil {
		h.logger.Debug("websocket write failed", "match_id", id, "error", err)
		return
	}
	sent := snap.Version
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Send:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if v, ok := frameVersion(msg); ok {
				if v <= sent {
					continue
				}
				sent = v
			}
			if err := write(ctx, conn, msg); err != nil {
				h.logger.Debug("websocket write failed", "match_id", id, "error", err)
				return
			}
		}
	}
}

// frameVersion reads the match version carried by a hub message.
func frameVersion(msg []byte) (int64, bool) {
	var frame struct {
		Data struct {
			Version *int64 `json:"version"`
		} `json:"data"`
	}
	if err := json.Unmarshal(msg, &frame); err != nil || frame.Data.Version == nil {
		return 0, false
	}
	return *frame.Data.Version, true
}

func write(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg)
}
