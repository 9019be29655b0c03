package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/hub"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/ranking"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/roster"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/scheduler"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/pkg/types"
)

// Engine computes the snapshot a new subscriber receives on join.
type Engine interface {
	Ranking(ctx context.Context, competition, division string) []ranking.Entry
}

// Pairs validates subscribe requests against the known scoreboards.
type Pairs interface {
	Known(competition, division string) bool
}

// Handler upgrades the connection, waits for a subscribe message, joins the
// hub and then relays hub updates to the socket until the client goes away.
func Handler(h *hub.Hub, engine Engine, pairs Pairs, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		// First message must be the subscription.
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		_, data, err := conn.Read(ctx)
		cancel()
		if err != nil {
			return
		}

		var cm types.ClientMessage
		if err := json.Unmarshal(data, &cm); err != nil || cm.Type != "subscribe" {
			writeError(r.Context(), conn, "expected a subscribe message")
			return
		}
		if !pairs.Known(cm.CompetitionID, cm.Division) {
			writeError(r.Context(), conn, "unknown competition/division")
			return
		}

		pair := roster.Pair{Competition: cm.CompetitionID, Division: cm.Division}
		channel := scheduler.ChannelName(pair)
		clientID := uuid.NewString()
		out := make(chan hub.Update, 8)

		snapshot := engine.Ranking(r.Context(), cm.CompetitionID, cm.Division)
		h.Inbox() <- hub.Join{ClientID: clientID, Channel: channel, Outbox: out, Snapshot: snapshot}
		defer func() { h.Inbox() <- hub.Leave{ClientID: clientID} }()

		logger.Info("viewer subscribed",
			zap.String("client_id", clientID), zap.String("channel", channel))

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for u := range out {
				payload, _ := json.Marshal(toServerMessage(u))
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop; viewers only send the one subscribe message, so this
		// mostly watches for the close frame.
		for {
			_, _, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}
		}
	}
}

func toServerMessage(u hub.Update) types.ServerMessage {
	return types.ServerMessage{
		Type:      u.Event,
		Channel:   u.Channel,
		Entries:   u.Entries,
		Dashboard: u.Dashboard,
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "error", Error: msg})
	writeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = conn.Write(writeCtx, websocket.MessageText, payload)
}
