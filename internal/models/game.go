package models

// PlayerID identifies a player across the area.
type PlayerID string

// Player is a caller identity together with its current display name.
type Player struct {
	ID       PlayerID `json:"id"`
	Username string   `json:"username"`
}

// Phase is the internal progress of a match.
type Phase string

const (
	PhaseWaiting Phase = "GAME_WAIT"
	PhaseSetup   Phase = "GAME_START"
	PhaseMain    Phase = "GAME_MAIN"
	PhaseEnded   Phase = "GAME_END"
)

// Status is the coarse projection of Phase shown to consumers.
type Status string

const (
	StatusWaitingToStart Status = "WAITING_TO_START"
	StatusInProgress     Status = "IN_PROGRESS"
	StatusOver           Status = "OVER"
)

// Status returns the external status for the phase.
func (p Phase) Status() Status {
	switch p {
	case PhaseSetup, PhaseMain:
		return StatusInProgress
	case PhaseEnded:
		return StatusOver
	default:
		return StatusWaitingToStart
	}
}

// AttackResult is the outcome announced for the last attack.
type AttackResult string

const (
	ResultHit  AttackResult = "hit"
	ResultMiss AttackResult = "miss"
)

// LastMove describes the most recent resolved attack.
type LastMove struct {
	Player PlayerID     `json:"player"`
	X      int          `json:"x"`
	Y      int          `json:"y"`
	Result AttackResult `json:"result"`
	Ship   ShipKind     `json:"ship,omitempty"`
	Sunk   bool         `json:"sunk"`
}

// GameState is the full state of one match. Marker boards record attacks
// made against the player they are named after.
type GameState struct {
	P1         PlayerID `json:"p1,omitempty"`
	P2         PlayerID `json:"p2,omitempty"`
	P1Username string   `json:"p1Username,omitempty"`
	P2Username string   `json:"p2Username,omitempty"`

	P1InitialBoard *Board `json:"p1InitialBoard"`
	P2InitialBoard *Board `json:"p2InitialBoard"`
	P1Board        *Board `json:"p1Board"`
	P2Board        *Board `json:"p2Board"`

	P1MarkerBoard MarkerBoard `json:"p1MarkerBoard"`
	P2MarkerBoard MarkerBoard `json:"p2MarkerBoard"`

	P1SunkenShips []ShipKind `json:"p1SunkenShips"`
	P2SunkenShips []ShipKind `json:"p2SunkenShips"`

	TurnPlayer PlayerID  `json:"turnPlayer,omitempty"`
	Winner     PlayerID  `json:"winner,omitempty"`
	LastMove   *LastMove `json:"lastMove,omitempty"`

	InternalState Phase  `json:"internalState"`
	Status        Status `json:"status"`
}

// NewGameState returns an empty match waiting for players.
func NewGameState() *GameState {
	return &GameState{
		P1SunkenShips: []ShipKind{},
		P2SunkenShips: []ShipKind{},
		InternalState: PhaseWaiting,
		Status:        PhaseWaiting.Status(),
	}
}

// Clone returns a deep copy of the state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	c := *s
	c.P1InitialBoard = cloneBoard(s.P1InitialBoard)
	c.P2InitialBoard = cloneBoard(s.P2InitialBoard)
	c.P1Board = cloneBoard(s.P1Board)
	c.P2Board = cloneBoard(s.P2Board)
	c.P1SunkenShips = append([]ShipKind{}, s.P1SunkenShips...)
	c.P2SunkenShips = append([]ShipKind{}, s.P2SunkenShips...)
	if s.LastMove != nil {
		lm := *s.LastMove
		c.LastMove = &lm
	}
	return &c
}

func cloneBoard(b *Board) *Board {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

// Players returns the seated players in slot order.
func (s *GameState) Players() []PlayerID {
	var players []PlayerID
	if s.P1 != "" {
		players = append(players, s.P1)
	}
	if s.P2 != "" {
		players = append(players, s.P2)
	}
	return players
}

// Move is a player's move: either a setup layout or an attack.
type Move struct {
	Player PlayerID `json:"player"`
	Setup  Layout   `json:"setup,omitempty"`
	Attack *Attack  `json:"attack,omitempty"`
}

// Attack targets a cell of the opponent's board.
type Attack struct {
	X int `json:"x"`
	Y int `json:"y"`
}
