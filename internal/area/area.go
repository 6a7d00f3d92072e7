package area

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"battleship/internal/game"
	"battleship/internal/models"
)

// Notifier receives a snapshot after every successful mutation of an area.
type Notifier interface {
	Broadcast(areaID string, snap *models.AreaSnapshot)
}

// GameFactory creates the match an area hosts.
type GameFactory func(usernames game.UsernameFunc) game.Game

func newEngine(usernames game.UsernameFunc) game.Game {
	return game.NewEngine(usernames)
}

// Area owns at most one active match plus the history of finished ones.
// All commands for an area are applied one at a time in arrival order.
type Area struct {
	id       string
	notifier Notifier
	newGame  GameFactory
	now      func() time.Time

	mu        sync.Mutex
	game      game.Game
	history   []models.HistoryRecord
	occupants []models.Player
	conns     map[models.PlayerID]int
	names     map[models.PlayerID]string
}

// New creates an empty area. notifier may be nil.
func New(id string, notifier Notifier) *Area {
	return &Area{
		id:       id,
		notifier: notifier,
		newGame:  newEngine,
		now:      time.Now,
		conns:    make(map[models.PlayerID]int),
		names:    make(map[models.PlayerID]string),
	}
}

// ID returns the area identifier.
func (a *Area) ID() string {
	return a.id
}

// HandleCommand dispatches cmd on behalf of player.
func (a *Area) HandleCommand(player models.Player, cmd models.Command) (models.CommandResult, error) {
	res := models.CommandResult{Type: cmd.Type}
	var err error
	switch cmd.Type {
	case models.CommandJoinGame:
		res.GameID, err = a.Join(player)
	case models.CommandLeaveGame:
		err = a.Leave(player, cmd.GameID)
	case models.CommandGameMove:
		var move models.Move
		if move, err = ParseMove(player.ID, cmd.Move); err == nil {
			err = a.Move(player, cmd.GameID, move)
		}
	case models.CommandNewGame:
		err = a.NewGame(cmd.PrevGameID)
	case models.CommandGetHistory:
		res.History = a.History()
	case models.CommandGetLeaderboard:
		res.Leaderboard = a.Leaderboard()
	default:
		err = game.ErrInvalidCommand
	}
	if err != nil {
		return models.CommandResult{}, err
	}
	return res, nil
}

// ParseMove decides from the payload's shape whether it is a setup layout
// (an array of arrays) or an attack (an object with x and y).
func ParseMove(player models.PlayerID, raw json.RawMessage) (models.Move, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return models.Move{}, game.ErrInvalidCommand
	}

	switch raw[0] {
	case '[':
		var layout models.Layout
		if err := json.Unmarshal(raw, &layout); err != nil {
			return models.Move{}, game.ErrInvalidCommand
		}
		if layout == nil {
			layout = models.Layout{}
		}
		return models.Move{Player: player, Setup: layout}, nil
	case '{':
		var target struct {
			X *int `json:"x"`
			Y *int `json:"y"`
		}
		if err := json.Unmarshal(raw, &target); err != nil || target.X == nil || target.Y == nil {
			return models.Move{}, game.ErrInvalidCommand
		}
		return models.Move{Player: player, Attack: &models.Attack{X: *target.X, Y: *target.Y}}, nil
	default:
		return models.Move{}, game.ErrInvalidCommand
	}
}

// Join seats player in the active match, creating one if needed, and
// returns the match ID.
func (a *Area) Join(player models.Player) (string, error) {
	if player.ID == "" {
		return "", game.ErrInvalidCommand
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	created := false
	if a.game == nil {
		a.game = a.newGame(a.username)
		created = true
	}
	if err := a.withName(player, func() error { return a.game.Join(player.ID) }); err != nil {
		if created {
			a.game = nil
		}
		return "", err
	}
	a.notify()
	return a.game.ID(), nil
}

// Leave removes player from the match identified by gameID.
func (a *Area) Leave(player models.Player, gameID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkGame(gameID); err != nil {
		return err
	}
	if err := a.game.Leave(player.ID); err != nil {
		return err
	}
	a.notify()
	return nil
}

// Move applies a setup or attack move to the match identified by gameID.
func (a *Area) Move(player models.Player, gameID string, move models.Move) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkGame(gameID); err != nil {
		return err
	}
	move.Player = player.ID
	if err := a.withName(player, func() error { return a.game.ApplyMove(move) }); err != nil {
		return err
	}
	a.notify()
	return nil
}

// NewGame retires a finished match into history so the next join starts a
// fresh one.
func (a *Area) NewGame(prevGameID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkGame(prevGameID); err != nil {
		return err
	}
	state := a.game.State()
	if state.InternalState != models.PhaseEnded {
		return game.ErrGameNotOver
	}

	snapshot := state.Clone()
	a.history = append(a.history, models.HistoryRecord{
		ID:      a.game.ID(),
		State:   snapshot,
		Players: snapshot.Players(),
		Result: models.GameResult{
			GameID: a.game.ID(),
			Winner: snapshot.Winner,
			Scores: map[models.PlayerID]int{
				snapshot.P1: len(snapshot.P2SunkenShips),
				snapshot.P2: len(snapshot.P1SunkenShips),
			},
		},
		EndedAt: a.now(),
	})
	a.game = nil
	a.notify()
	return nil
}

// History returns every finished match, oldest first.
func (a *Area) History() []models.HistoryRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	records := make([]models.HistoryRecord, len(a.history))
	copy(records, a.history)
	return records
}

// Leaderboard ranks the players of finished matches by wins, then ships sunk.
func (a *Area) Leaderboard() []models.LeaderboardEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	byPlayer := make(map[models.PlayerID]*models.LeaderboardEntry)
	entry := func(id models.PlayerID, username string) *models.LeaderboardEntry {
		e, ok := byPlayer[id]
		if !ok {
			e = &models.LeaderboardEntry{Player: id}
			byPlayer[id] = e
		}
		if username != "" {
			e.Username = username
		}
		return e
	}

	for _, rec := range a.history {
		s := rec.State
		p1 := entry(s.P1, s.P1Username)
		p2 := entry(s.P2, s.P2Username)
		p1.ShipsSunk += rec.Result.Scores[s.P1]
		p2.ShipsSunk += rec.Result.Scores[s.P2]
		switch s.Winner {
		case s.P1:
			p1.Wins++
			p2.Losses++
		case s.P2:
			p2.Wins++
			p1.Losses++
		}
	}

	board := make([]models.LeaderboardEntry, 0, len(byPlayer))
	for _, e := range byPlayer {
		if e.Username == "" {
			e.Username = string(e.Player)
		}
		board = append(board, *e)
	}
	sort.Slice(board, func(i, j int) bool {
		if board[i].Wins != board[j].Wins {
			return board[i].Wins > board[j].Wins
		}
		if board[i].ShipsSunk != board[j].ShipsSunk {
			return board[i].ShipsSunk > board[j].ShipsSunk
		}
		return board[i].Username < board[j].Username
	})
	return board
}

// AddOccupant records one connection of player as present in the area. A
// player may be connected more than once.
func (a *Area) AddOccupant(player models.Player) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.remember(player)
	a.conns[player.ID]++
	for i, o := range a.occupants {
		if o.ID == player.ID {
			if o == player {
				return
			}
			a.occupants[i] = player
			a.notify()
			return
		}
	}
	a.occupants = append(a.occupants, player)
	a.notify()
}

// RemoveOccupant drops one connection of a player. When their last
// connection goes they leave the area, and the active match if seated in it.
func (a *Area) RemoveOccupant(id models.PlayerID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conns[id] == 0 {
		return
	}
	if a.conns[id]--; a.conns[id] > 0 {
		return
	}
	delete(a.conns, id)
	for i, o := range a.occupants {
		if o.ID == id {
			a.occupants = append(a.occupants[:i], a.occupants[i+1:]...)
			break
		}
	}
	if a.game != nil {
		if err := a.game.Leave(id); err != nil && !errors.Is(err, game.ErrPlayerNotInGame) {
			log.Printf("[area] %s: %s leaving on disconnect: %v", a.id, id, err)
		}
	}
	a.notify()
}

// Snapshot returns the current observable state of the area.
func (a *Area) Snapshot() *models.AreaSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

func (a *Area) checkGame(gameID string) error {
	if a.game == nil {
		return game.ErrGameNotInProgress
	}
	if a.game.ID() != gameID {
		return game.ErrGameIDMismatch
	}
	return nil
}

func (a *Area) remember(player models.Player) {
	if player.Username != "" {
		a.names[player.ID] = player.Username
	}
}

// withName lets the engine see player's display name while fn runs and
// keeps it only if fn succeeds.
func (a *Area) withName(player models.Player, fn func() error) error {
	prev, had := a.names[player.ID]
	a.remember(player)
	if err := fn(); err != nil {
		if had {
			a.names[player.ID] = prev
		} else {
			delete(a.names, player.ID)
		}
		return err
	}
	return nil
}

// username is handed to the engine; it runs while a.mu is held.
func (a *Area) username(id models.PlayerID) string {
	if name, ok := a.names[id]; ok {
		return name
	}
	return string(id)
}

func (a *Area) snapshot() *models.AreaSnapshot {
	snap := &models.AreaSnapshot{
		ID:           a.id,
		Occupants:    append([]models.Player{}, a.occupants...),
		HistoryCount: len(a.history),
	}
	if a.game != nil {
		state := a.game.State().Clone()
		snap.Game = &models.GameInstance{
			ID:      a.game.ID(),
			State:   state,
			Players: state.Players(),
		}
	}
	return snap
}

func (a *Area) notify() {
	if a.notifier == nil {
		return
	}
	a.notifier.Broadcast(a.id, a.snapshot())
}
