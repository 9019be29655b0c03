// Package hub is the subscription registry for live viewers. A single
// goroutine owns the client table; everything talks to it through typed
// messages on the inbox, so no locks guard the maps.
package hub

import (
	"context"

	"github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/ranking"
)

// Update is one server-push event delivered to a client outbox.
type Update struct {
	Event     string            // "ranking_update" | "dashboard_update"
	Channel   string            // set for ranking_update
	Entries   []ranking.Entry   // ranking_update payload
	Dashboard ranking.Dashboard // dashboard_update payload
}

type HubMsg interface{ isHubMsg() }

// Join registers a client on a ranking channel. Snapshot is delivered to the
// new client immediately so it never waits for the next periodic tick.
type Join struct {
	ClientID string
	Channel  string
	Outbox   chan Update
	Snapshot []ranking.Entry
}

type Leave struct{ ClientID string }

// Ranking pushes standings to every subscriber of one channel.
type Ranking struct {
	Channel string
	Entries []ranking.Entry
}

// Dashboard pushes the full snapshot to every connected client.
type Dashboard struct {
	Snapshot ranking.Dashboard
}

// GetView reflects internal state without data races; used by tests.
type GetView struct {
	Reply chan View
}

type Shutdown struct{}

func (Join) isHubMsg()      {}
func (Leave) isHubMsg()     {}
func (Ranking) isHubMsg()   {}
func (Dashboard) isHubMsg() {}
func (GetView) isHubMsg()   {}
func (Shutdown) isHubMsg()  {}

type View struct {
	NumClients int
	Channels   map[string]int // channel -> subscriber count
}

type client struct {
	channel string
	outbox  chan Update
}

type Hub struct {
	inbox   chan HubMsg
	clients map[string]client
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		clients: make(map[string]client),
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Join:
				h.clients[msg.ClientID] = client{channel: msg.Channel, outbox: msg.Outbox}
				msg.Outbox <- Update{Event: "ranking_update", Channel: msg.Channel, Entries: msg.Snapshot}

			case Leave:
				// Closing the outbox lets the connection's writer
				// goroutine drain out and exit.
				if c, ok := h.clients[msg.ClientID]; ok {
					close(c.outbox)
					delete(h.clients, msg.ClientID)
				}

			case Ranking:
				u := Update{Event: "ranking_update", Channel: msg.Channel, Entries: msg.Entries}
				for id, c := range h.clients {
					if c.channel != msg.Channel {
						continue
					}
					h.deliver(id, c, u)
				}

			case Dashboard:
				u := Update{Event: "dashboard_update", Dashboard: msg.Snapshot}
				for id, c := range h.clients {
					h.deliver(id, c, u)
				}

			case GetView:
				v := View{NumClients: len(h.clients), Channels: make(map[string]int)}
				for _, c := range h.clients {
					v.Channels[c.channel]++
				}
				msg.Reply <- v

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) deliver(id string, c client, u Update) {
	select {
	case c.outbox <- u:
	default:
		// Client is slow/full - drop them.
		close(c.outbox)
		delete(h.clients, id)
	}
}

func (h *Hub) shutdown() {
	for id, c := range h.clients {
		close(c.outbox)
		delete(h.clients, id)
	}
	h.cancel()
}
