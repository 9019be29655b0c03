// Package types holds the wire shapes shared with scoreboard clients.
package types

import "github.com/okabemadscientistrintaro/nsbliverankingsystem/internal/ranking"

// ClientMessage is what a viewer sends over the socket.
//
// subscribe:
//
//	{"type":"subscribe","competition_id":"APhB","division":"senior"}
type ClientMessage struct {
	Type          string `json:"type"`
	CompetitionID string `json:"competition_id,omitempty"`
	Division      string `json:"division,omitempty"`
}

// ServerMessage is every server push: one of "ranking_update",
// "dashboard_update" or "error".
type ServerMessage struct {
	Type      string            `json:"type"`
	Channel   string            `json:"channel,omitempty"`
	Entries   []ranking.Entry   `json:"entries,omitempty"`
	Dashboard ranking.Dashboard `json:"dashboard,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// SubmitRequest is the jury submission body for POST /scores.
type SubmitRequest struct {
	TeamID *int     `json:"team_id"`
	Round  *int     `json:"round"`
	Value  *float64 `json:"value"`
}

// SubmitResponse mirrors the success/message contract scoreboard juries see.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
