package game

import (
	"battleship/internal/models"

	"github.com/google/uuid"
)

// Game is the capability an area needs from a match.
type Game interface {
	ID() string
	State() *models.GameState
	Join(player models.PlayerID) error
	Leave(player models.PlayerID) error
	ApplyMove(move models.Move) error
}

// UsernameFunc resolves a player's current display name.
type UsernameFunc func(id models.PlayerID) string

// Engine is the battleship state machine. It is not safe for concurrent
// use; the owning area serializes calls.
type Engine struct {
	id        string
	state     *models.GameState
	usernames UsernameFunc
}

var _ Game = (*Engine)(nil)

// NewEngine creates a match waiting for its first player. usernames is
// consulted when the match fills and when setup completes; nil falls back
// to the player ID.
func NewEngine(usernames UsernameFunc) *Engine {
	if usernames == nil {
		usernames = func(id models.PlayerID) string { return string(id) }
	}
	return &Engine{
		id:        uuid.New().String(),
		state:     models.NewGameState(),
		usernames: usernames,
	}
}

// ID returns the match identity token.
func (e *Engine) ID() string {
	return e.id
}

// State returns the live state. Callers must not modify it.
func (e *Engine) State() *models.GameState {
	return e.state
}

func (e *Engine) setPhase(p models.Phase) {
	e.state.InternalState = p
	e.state.Status = p.Status()
}

func (e *Engine) seated(player models.PlayerID) bool {
	return player != "" && (player == e.state.P1 || player == e.state.P2)
}

func (e *Engine) opponent(player models.PlayerID) models.PlayerID {
	if player == e.state.P1 {
		return e.state.P2
	}
	return e.state.P1
}

// Join seats player in the first free slot. Filling the second slot starts setup.
func (e *Engine) Join(player models.PlayerID) error {
	if player == "" {
		return ErrInvalidCommand
	}
	if e.seated(player) {
		return ErrPlayerAlreadyInGame
	}
	if e.state.P1 != "" && e.state.P2 != "" {
		return ErrGameFull
	}

	if e.state.P1 == "" {
		e.state.P1 = player
		e.setPhase(models.PhaseWaiting)
		return nil
	}
	e.state.P2 = player
	e.captureUsernames()
	e.setPhase(models.PhaseSetup)
	return nil
}

// captureUsernames records display names as of now. It runs when the second
// player joins and again when setup completes, so the match keeps the
// names in use at the start of play.
func (e *Engine) captureUsernames() {
	e.state.P1Username = e.usernames(e.state.P1)
	e.state.P2Username = e.usernames(e.state.P2)
}

// Leave vacates player's slot. Before the main phase the match falls back
// to waiting; during it the opponent wins.
func (e *Engine) Leave(player models.PlayerID) error {
	if !e.seated(player) {
		return ErrPlayerNotInGame
	}

	switch e.state.InternalState {
	case models.PhaseWaiting, models.PhaseSetup:
		if player == e.state.P1 {
			e.state.P1 = e.state.P2
		}
		e.state.P2 = ""
		e.state.P1Username = ""
		e.state.P2Username = ""
		e.state.P1InitialBoard = nil
		e.state.P2InitialBoard = nil
		e.state.P1Board = nil
		e.state.P2Board = nil
		e.setPhase(models.PhaseWaiting)
	case models.PhaseMain:
		e.state.Winner = e.opponent(player)
		e.state.TurnPlayer = ""
		e.setPhase(models.PhaseEnded)
	}
	return nil
}

// ApplyMove dispatches a setup layout or an attack.
func (e *Engine) ApplyMove(move models.Move) error {
	switch {
	case move.Attack != nil:
		return e.applyAttack(move.Player, move.Attack.X, move.Attack.Y)
	case move.Setup != nil:
		return e.applySetup(move.Player, move.Setup)
	default:
		return ErrInvalidCommand
	}
}

func (e *Engine) applySetup(player models.PlayerID, layout models.Layout) error {
	if !e.seated(player) {
		return ErrPlayerNotInGame
	}

	initial := &e.state.P1InitialBoard
	live := &e.state.P1Board
	if player == e.state.P2 {
		initial = &e.state.P2InitialBoard
		live = &e.state.P2Board
	}
	if *initial != nil {
		return ErrNotYourTurn
	}
	if e.state.InternalState != models.PhaseSetup {
		return ErrGameNotInProgress
	}
	if err := ValidateBoard(layout); err != nil {
		return err
	}

	*initial = models.BoardFromLayout(layout)
	*live = models.BoardFromLayout(layout)

	if e.state.P1InitialBoard != nil && e.state.P2InitialBoard != nil {
		e.captureUsernames()
		e.state.TurnPlayer = e.state.P1
		e.setPhase(models.PhaseMain)
	}
	return nil
}

func (e *Engine) applyAttack(player models.PlayerID, x, y int) error {
	if !e.seated(player) {
		return ErrPlayerNotInGame
	}
	if e.state.InternalState != models.PhaseMain {
		return ErrGameNotInProgress
	}
	if player != e.state.TurnPlayer {
		return ErrNotYourTurn
	}
	if !models.InBounds(x, y) {
		return ErrOutOfBounds
	}

	defender := e.opponent(player)
	markers, ships, sunken := &e.state.P2MarkerBoard, e.state.P2Board, &e.state.P2SunkenShips
	if defender == e.state.P1 {
		markers, ships, sunken = &e.state.P1MarkerBoard, e.state.P1Board, &e.state.P1SunkenShips
	}
	if markers[x][y] != models.Unmarked {
		return ErrPositionNotEmpty
	}

	last := &models.LastMove{Player: player, X: x, Y: y}
	e.state.LastMove = last

	kind := ships[x][y]
	if kind == models.NoShip {
		markers[x][y] = models.Miss
		last.Result = models.ResultMiss
		e.state.TurnPlayer = defender
		return nil
	}

	markers[x][y] = models.Hit
	ships[x][y] = models.NoShip
	last.Result = models.ResultHit
	last.Ship = kind

	if !ships.Contains(kind) {
		*sunken = append(*sunken, kind)
		last.Sunk = true
	}
	if len(*sunken) == len(models.Fleet) {
		e.state.Winner = player
		e.state.TurnPlayer = ""
		e.setPhase(models.PhaseEnded)
		return nil
	}
	e.state.TurnPlayer = defender
	return nil
}
