package game

import (
	"errors"
	"fmt"
	"strings"

	"battleship/internal/models"
)

var (
	ErrInvalidCommand      = errors.New("invalid command")
	ErrGameFull            = errors.New("game is full")
	ErrGameNotInProgress   = errors.New("game is not in progress")
	ErrGameNotOver         = errors.New("game is not over")
	ErrGameIDMismatch      = errors.New("game ID mismatch")
	ErrPositionNotEmpty    = errors.New("board position is not empty")
	ErrOutOfBounds         = errors.New("targeted position out of the board's range")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrPlayerNotInGame     = errors.New("player is not in this game")
	ErrPlayerAlreadyInGame = errors.New("player is already in this game")
	ErrAreaNotFound        = errors.New("area not found")
)

// Setup rejection kinds, matched with errors.Is against a *SetupError.
var (
	ErrShipDuplicate      = errors.New("duplicate ship")
	ErrShipIncomplete     = errors.New("incomplete ship")
	ErrShipsMissing       = errors.New("missing ships")
	ErrShipNotEnoughSpace = errors.New("not enough space for ship")
)

// SetupError rejects a submitted layout. Ships names the offending ship,
// or every missing ship in fleet order.
type SetupError struct {
	Reason error
	Ships  []models.ShipKind
}

func (e *SetupError) Error() string {
	names := make([]string, len(e.Ships))
	for i, s := range e.Ships {
		names[i] = string(s)
	}
	switch e.Reason {
	case ErrShipDuplicate:
		return fmt.Sprintf("Duplicate %s found", names[0])
	case ErrShipIncomplete:
		return fmt.Sprintf("Incomplete %s", names[0])
	case ErrShipNotEnoughSpace:
		return fmt.Sprintf("Not enough space for %s", names[0])
	default:
		return fmt.Sprintf("Missing ship(s): %s", strings.Join(names, ", "))
	}
}

func (e *SetupError) Unwrap() error {
	return e.Reason
}

func setupError(reason error, ships ...models.ShipKind) *SetupError {
	return &SetupError{Reason: reason, Ships: ships}
}
