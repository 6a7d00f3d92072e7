package models

import (
	"encoding/json"
	"time"
)

// CommandType names a command accepted by an area.
type CommandType string

const (
	CommandJoinGame       CommandType = "JoinGame"
	CommandLeaveGame      CommandType = "LeaveGame"
	CommandGameMove       CommandType = "GameMove"
	CommandNewGame        CommandType = "NewGame"
	CommandGetHistory     CommandType = "GetHistory"
	CommandGetLeaderboard CommandType = "GetLeaderboard"
)

// Command is the transport-agnostic request sent to an area. Move is kept
// raw so its shape decides whether it is a setup layout or an attack.
type Command struct {
	Type       CommandType     `json:"type"`
	GameID     string          `json:"gameID,omitempty"`
	PrevGameID string          `json:"prevGameID,omitempty"`
	Move       json.RawMessage `json:"move,omitempty"`
}

// CommandResult is returned for a successful command. Only the fields
// relevant to Type are set, and only those are encoded.
type CommandResult struct {
	Type        CommandType        `json:"-"`
	GameID      string             `json:"gameID"`
	History     []HistoryRecord    `json:"historyRecords"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// JoinResult answers JoinGame.
type JoinResult struct {
	GameID string `json:"gameID"`
}

// HistoryResult answers GetHistory.
type HistoryResult struct {
	History []HistoryRecord `json:"historyRecords"`
}

// LeaderboardResult answers GetLeaderboard.
type LeaderboardResult struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// NewHistoryResult wraps records, encoding none as an empty list.
func NewHistoryResult(records []HistoryRecord) HistoryResult {
	if records == nil {
		records = []HistoryRecord{}
	}
	return HistoryResult{History: records}
}

// NewLeaderboardResult wraps entries, encoding none as an empty list.
func NewLeaderboardResult(entries []LeaderboardEntry) LeaderboardResult {
	if entries == nil {
		entries = []LeaderboardEntry{}
	}
	return LeaderboardResult{Leaderboard: entries}
}

// MarshalJSON encodes the response body of the command that produced r.
// Commands without a payload encode as an empty object.
func (r CommandResult) MarshalJSON() ([]byte, error) {
	switch r.Type {
	case CommandJoinGame:
		return json.Marshal(JoinResult{GameID: r.GameID})
	case CommandGetHistory:
		return json.Marshal(NewHistoryResult(r.History))
	case CommandGetLeaderboard:
		return json.Marshal(NewLeaderboardResult(r.Leaderboard))
	default:
		return []byte("{}"), nil
	}
}

// GameResult summarises a finished match. Scores counts, for each player,
// the opponent ships they sank.
type GameResult struct {
	GameID string           `json:"gameID"`
	Winner PlayerID         `json:"winner,omitempty"`
	Scores map[PlayerID]int `json:"scores"`
}

// HistoryRecord is an immutable capture of a finished match.
type HistoryRecord struct {
	ID      string     `json:"id"`
	State   *GameState `json:"state"`
	Players []PlayerID `json:"players"`
	Result  GameResult `json:"result"`
	EndedAt time.Time  `json:"endedAt"`
}

// LeaderboardEntry aggregates one player's finished matches in an area.
type LeaderboardEntry struct {
	Player    PlayerID `json:"player"`
	Username  string   `json:"username"`
	Wins      int      `json:"wins"`
	Losses    int      `json:"losses"`
	ShipsSunk int      `json:"shipsSunk"`
}

// GameInstance is the active match as seen by observers.
type GameInstance struct {
	ID      string     `json:"id"`
	State   *GameState `json:"state"`
	Players []PlayerID `json:"players"`
}

// AreaSnapshot is pushed to observers after every successful mutation.
type AreaSnapshot struct {
	ID           string        `json:"id"`
	Game         *GameInstance `json:"game,omitempty"`
	Occupants    []Player      `json:"occupants"`
	HistoryCount int           `json:"historyCount"`
}
