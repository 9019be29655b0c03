package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/hub"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/ranking"
	"github.com/okabemadscientistrintaro/nsbliverankingsystem/pkg/types"
)

type fakeEngine struct{}

func (fakeEngine) Ranking(context.Context, string, string) []ranking.Entry {
	return []ranking.Entry{{TeamID: 1, TeamName: "Alpha", Total: 12.5, Rank: 1}}
}

type fakePairs map[string]bool

func (f fakePairs) Known(competition, division string) bool {
	return f[competition+"_"+division]
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) types.ServerMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg types.ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHandler_SubscribeReceivesInitialRanking(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := hub.NewHub(ctx)
	pairs := fakePairs{"APhB_senior": true}
	srv := httptest.NewServer(Handler(h, fakeEngine{}, pairs, zap.NewNop()))
	defer srv.Close()

	conn := dial(t, "ws"+srv.URL[len("http"):])
	defer conn.Close(websocket.StatusNormalClosure, "")

	sub, _ := json.Marshal(types.ClientMessage{Type: "subscribe", CompetitionID: "APhB", Division: "senior"})
	require.NoError(t, conn.Write(context.Background(), websocket.MessageText, sub))

	msg := readMessage(t, conn)
	require.Equal(t, "ranking_update", msg.Type)
	require.Equal(t, "ranking_aphb_senior", msg.Channel)
	require.Len(t, msg.Entries, 1)
	require.Equal(t, "Alpha", msg.Entries[0].TeamName)
}

func TestHandler_UnknownPairRejected(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := hub.NewHub(ctx)
	srv := httptest.NewServer(Handler(h, fakeEngine{}, fakePairs{}, zap.NewNop()))
	defer srv.Close()

	conn := dial(t, "ws"+srv.URL[len("http"):])
	defer conn.Close(websocket.StatusNormalClosure, "")

	sub, _ := json.Marshal(types.ClientMessage{Type: "subscribe", CompetitionID: "nope", Division: "none"})
	require.NoError(t, conn.Write(context.Background(), websocket.MessageText, sub))

	msg := readMessage(t, conn)
	require.Equal(t, "error", msg.Type)
	require.Contains(t, msg.Error, "unknown competition/division")
}

func TestHandler_SubscriberGetsBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := hub.NewHub(ctx)
	pairs := fakePairs{"APhB_senior": true}
	srv := httptest.NewServer(Handler(h, fakeEngine{}, pairs, zap.NewNop()))
	defer srv.Close()

	conn := dial(t, "ws"+srv.URL[len("http"):])
	defer conn.Close(websocket.StatusNormalClosure, "")

	sub, _ := json.Marshal(types.ClientMessage{Type: "subscribe", CompetitionID: "APhB", Division: "senior"})
	require.NoError(t, conn.Write(context.Background(), websocket.MessageText, sub))
	_ = readMessage(t, conn) // initial snapshot

	h.Inbox() <- hub.Ranking{
		Channel: "ranking_aphb_senior",
		Entries: []ranking.Entry{{TeamID: 2, TeamName: "Beta", Total: 20, Rank: 1}},
	}

	msg := readMessage(t, conn)
	require.Equal(t, "ranking_update", msg.Type)
	require.Equal(t, "Beta", msg.Entries[0].TeamName)
}
