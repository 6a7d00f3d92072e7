package game

import (
	"errors"
	"reflect"
	"testing"

	"battleship/internal/models"
)

const (
	alice models.PlayerID = "alice"
	bob   models.PlayerID = "bob"
	carol models.PlayerID = "carol"
)

func setupMove(p models.PlayerID, l models.Layout) models.Move {
	return models.Move{Player: p, Setup: l}
}

func attackMove(p models.PlayerID, x, y int) models.Move {
	return models.Move{Player: p, Attack: &models.Attack{X: x, Y: y}}
}

func mustApply(t *testing.T, e *Engine, m models.Move) {
	t.Helper()
	if err := e.ApplyMove(m); err != nil {
		t.Fatalf("move %+v: %v", m, err)
	}
}

func joinedEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(nil)
	if err := e.Join(alice); err != nil {
		t.Fatal(err)
	}
	if err := e.Join(bob); err != nil {
		t.Fatal(err)
	}
	return e
}

func mainEngine(t *testing.T) *Engine {
	t.Helper()
	e := joinedEngine(t)
	mustApply(t, e, setupMove(alice, standardLayout()))
	mustApply(t, e, setupMove(bob, standardLayout()))
	return e
}

func TestJoin(t *testing.T) {
	e := NewEngine(nil)
	if e.ID() == "" {
		t.Fatal("engine has no ID")
	}
	if err := e.Join(""); !errors.Is(err, ErrInvalidCommand) {
		t.Errorf("empty player: got %v", err)
	}
	if s := e.State(); s.P1 != "" || s.InternalState != models.PhaseWaiting {
		t.Errorf("empty player changed state: %+v", s)
	}

	if err := e.Join(alice); err != nil {
		t.Fatal(err)
	}
	s := e.State()
	if s.P1 != alice || s.P2 != "" {
		t.Errorf("slots = %q, %q", s.P1, s.P2)
	}
	if s.InternalState != models.PhaseWaiting || s.Status != models.StatusWaitingToStart {
		t.Errorf("phase = %s/%s", s.InternalState, s.Status)
	}
	if err := e.Join(alice); !errors.Is(err, ErrPlayerAlreadyInGame) {
		t.Errorf("rejoin: got %v", err)
	}

	if err := e.Join(bob); err != nil {
		t.Fatal(err)
	}
	if s.P1 != alice || s.P2 != bob {
		t.Errorf("slots = %q, %q", s.P1, s.P2)
	}
	if s.InternalState != models.PhaseSetup || s.Status != models.StatusInProgress {
		t.Errorf("phase = %s/%s", s.InternalState, s.Status)
	}
	if s.Winner != "" || s.P1InitialBoard != nil || s.P2InitialBoard != nil {
		t.Error("setup started with leftover state")
	}
	if s.P1Username != "alice" || s.P2Username != "bob" {
		t.Errorf("usernames = %q, %q", s.P1Username, s.P2Username)
	}
	if err := e.Join(bob); !errors.Is(err, ErrPlayerAlreadyInGame) {
		t.Errorf("rejoin: got %v", err)
	}
	if err := e.Join(carol); !errors.Is(err, ErrGameFull) {
		t.Errorf("third player: got %v", err)
	}
}

func TestLeave(t *testing.T) {
	t.Run("not seated", func(t *testing.T) {
		e := NewEngine(nil)
		if err := e.Leave(alice); !errors.Is(err, ErrPlayerNotInGame) {
			t.Errorf("got %v", err)
		}
		e.Join(alice)
		if err := e.Leave(bob); !errors.Is(err, ErrPlayerNotInGame) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("only player leaves while waiting", func(t *testing.T) {
		e := NewEngine(nil)
		e.Join(alice)
		if err := e.Leave(alice); err != nil {
			t.Fatal(err)
		}
		s := e.State()
		if s.P1 != "" || s.P2 != "" || s.InternalState != models.PhaseWaiting || s.Winner != "" {
			t.Errorf("state after leave: %+v", s)
		}
		if err := e.Join(bob); err != nil || s.P1 != bob {
			t.Errorf("rejoin after empty: %v, p1 = %q", err, s.P1)
		}
	})

	for _, leaver := range []models.PlayerID{alice, bob} {
		t.Run("setup "+string(leaver)+" leaves", func(t *testing.T) {
			e := joinedEngine(t)
			mustApply(t, e, setupMove(alice, standardLayout()))
			if err := e.Leave(leaver); err != nil {
				t.Fatal(err)
			}
			s := e.State()
			remaining := bob
			if leaver == bob {
				remaining = alice
			}
			if s.P1 != remaining || s.P2 != "" {
				t.Errorf("slots = %q, %q; want %q first", s.P1, s.P2, remaining)
			}
			if s.InternalState != models.PhaseWaiting || s.Status != models.StatusWaitingToStart {
				t.Errorf("phase = %s/%s", s.InternalState, s.Status)
			}
			if s.Winner != "" {
				t.Errorf("winner set to %q", s.Winner)
			}
			if s.P1InitialBoard != nil || s.P2InitialBoard != nil || s.P1Board != nil || s.P2Board != nil {
				t.Error("boards not cleared")
			}
		})
	}

	for _, leaver := range []models.PlayerID{alice, bob} {
		t.Run("main "+string(leaver)+" leaves", func(t *testing.T) {
			e := mainEngine(t)
			if err := e.Leave(leaver); err != nil {
				t.Fatal(err)
			}
			s := e.State()
			want := bob
			if leaver == bob {
				want = alice
			}
			if s.Winner != want {
				t.Errorf("winner = %q, want %q", s.Winner, want)
			}
			if s.InternalState != models.PhaseEnded || s.Status != models.StatusOver {
				t.Errorf("phase = %s/%s", s.InternalState, s.Status)
			}
			if s.TurnPlayer != "" {
				t.Errorf("turn pointer left at %q", s.TurnPlayer)
			}

			before := s.Clone()
			if err := e.Leave(want); err != nil {
				t.Errorf("leave after end: %v", err)
			}
			if !reflect.DeepEqual(before, e.State()) {
				t.Error("leave after end changed state")
			}
		})
	}
}

func TestSetupMove(t *testing.T) {
	t.Run("before setup", func(t *testing.T) {
		e := NewEngine(nil)
		e.Join(alice)
		if err := e.ApplyMove(setupMove(alice, standardLayout())); !errors.Is(err, ErrGameNotInProgress) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("non player", func(t *testing.T) {
		e := joinedEngine(t)
		if err := e.ApplyMove(setupMove(carol, standardLayout())); !errors.Is(err, ErrPlayerNotInGame) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("invalid layout", func(t *testing.T) {
		e := joinedEngine(t)
		l := standardLayout()
		l[0][9] = models.NoShip
		l[1][9] = models.NoShip
		err := e.ApplyMove(setupMove(alice, l))
		if !errors.Is(err, ErrShipsMissing) {
			t.Fatalf("got %v", err)
		}
		if e.State().P1InitialBoard != nil {
			t.Error("invalid layout stored")
		}
		mustApply(t, e, setupMove(alice, standardLayout()))
	})

	t.Run("resubmission", func(t *testing.T) {
		e := joinedEngine(t)
		mustApply(t, e, setupMove(alice, standardLayout()))
		other := emptyLayout()
		place(other, models.Carrier, 0, 0, false)
		if err := e.ApplyMove(setupMove(alice, other)); !errors.Is(err, ErrNotYourTurn) {
			t.Errorf("got %v", err)
		}
		if *e.State().P1InitialBoard != *models.BoardFromLayout(standardLayout()) {
			t.Error("first layout replaced")
		}
		if e.State().P2InitialBoard != nil {
			t.Error("opponent board set")
		}
	})

	t.Run("both submit", func(t *testing.T) {
		names := map[models.PlayerID]string{alice: "Alice", bob: "Bob"}
		e := NewEngine(func(id models.PlayerID) string { return names[id] })
		e.Join(alice)
		e.Join(bob)
		names[alice] = "Alice Liddell"

		rng := newRand()
		p1, p2 := randomLayout(rng), randomLayout(rng)
		mustApply(t, e, setupMove(bob, p2))
		if e.State().InternalState != models.PhaseSetup {
			t.Fatalf("phase = %s after one layout", e.State().InternalState)
		}
		if e.State().TurnPlayer != "" {
			t.Error("turn pointer set during setup")
		}
		mustApply(t, e, setupMove(alice, p1))

		s := e.State()
		if s.InternalState != models.PhaseMain || s.Status != models.StatusInProgress {
			t.Errorf("phase = %s/%s", s.InternalState, s.Status)
		}
		if s.TurnPlayer != alice {
			t.Errorf("turn = %q, want %q", s.TurnPlayer, alice)
		}
		if s.P1Username != "Alice Liddell" || s.P2Username != "Bob" {
			t.Errorf("usernames = %q, %q", s.P1Username, s.P2Username)
		}
		names[alice] = "someone else"
		if s.P1Username != "Alice Liddell" {
			t.Error("username not captured")
		}
		if *s.P1InitialBoard != *models.BoardFromLayout(p1) || *s.P2InitialBoard != *models.BoardFromLayout(p2) {
			t.Error("initial boards do not match submitted layouts")
		}
		if *s.P1Board != *s.P1InitialBoard || s.P1Board == s.P1InitialBoard {
			t.Error("live board must be a separate copy of the initial board")
		}

		if err := e.ApplyMove(setupMove(alice, p1)); !errors.Is(err, ErrNotYourTurn) {
			t.Errorf("setup in main: got %v", err)
		}
	})

	t.Run("empty move", func(t *testing.T) {
		e := joinedEngine(t)
		if err := e.ApplyMove(models.Move{Player: alice}); !errors.Is(err, ErrInvalidCommand) {
			t.Errorf("got %v", err)
		}
	})
}

func TestAttackRejections(t *testing.T) {
	t.Run("not in main", func(t *testing.T) {
		e := joinedEngine(t)
		if err := e.ApplyMove(attackMove(alice, 0, 0)); !errors.Is(err, ErrGameNotInProgress) {
			t.Errorf("got %v", err)
		}
	})

	e := mainEngine(t)
	tests := []struct {
		name string
		move models.Move
		want error
	}{
		{"non player", attackMove(carol, 0, 0), ErrPlayerNotInGame},
		{"out of turn", attackMove(bob, 0, 0), ErrNotYourTurn},
		{"x too large", attackMove(alice, 10, 0), ErrOutOfBounds},
		{"y negative", attackMove(alice, 0, -1), ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := e.State().Clone()
			if err := e.ApplyMove(tt.move); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if !reflect.DeepEqual(before, e.State()) {
				t.Error("state changed by a rejected attack")
			}
		})
	}

	t.Run("position not empty", func(t *testing.T) {
		mustApply(t, e, attackMove(alice, 9, 9))
		mustApply(t, e, attackMove(bob, 9, 9))
		before := e.State().Clone()
		if err := e.ApplyMove(attackMove(alice, 9, 9)); !errors.Is(err, ErrPositionNotEmpty) {
			t.Errorf("got %v", err)
		}
		if !reflect.DeepEqual(before, e.State()) {
			t.Error("state changed by a rejected attack")
		}
	})
}

func TestAttackMissAndSink(t *testing.T) {
	e := mainEngine(t)
	s := e.State()

	mustApply(t, e, attackMove(alice, 5, 5))
	if s.P2MarkerBoard[5][5] != models.Miss {
		t.Errorf("marker = %q, want miss", s.P2MarkerBoard[5][5])
	}
	if s.P1MarkerBoard[5][5] != models.Unmarked {
		t.Error("attacker's own marker board touched")
	}
	if s.TurnPlayer != bob {
		t.Errorf("turn = %q after miss", s.TurnPlayer)
	}
	if s.LastMove == nil || s.LastMove.Result != models.ResultMiss || s.LastMove.Player != alice {
		t.Errorf("last move = %+v", s.LastMove)
	}

	mustApply(t, e, attackMove(bob, 9, 0))
	mustApply(t, e, attackMove(alice, 0, 9))
	if s.P2MarkerBoard[0][9] != models.Hit || s.P2Board[0][9] != models.NoShip {
		t.Error("hit not recorded")
	}
	if s.P2InitialBoard[0][9] != models.Destroyer {
		t.Error("initial board modified by attack")
	}
	if len(s.P2SunkenShips) != 0 {
		t.Errorf("sunk too early: %v", s.P2SunkenShips)
	}
	if s.TurnPlayer != bob {
		t.Errorf("turn = %q after hit", s.TurnPlayer)
	}
	if lm := s.LastMove; lm.Result != models.ResultHit || lm.Ship != models.Destroyer || lm.Sunk {
		t.Errorf("last move = %+v", lm)
	}

	mustApply(t, e, attackMove(bob, 9, 1))
	mustApply(t, e, attackMove(alice, 1, 9))
	if !reflect.DeepEqual(s.P2SunkenShips, []models.ShipKind{models.Destroyer}) {
		t.Errorf("sunken = %v", s.P2SunkenShips)
	}
	if !s.LastMove.Sunk {
		t.Error("sink not announced")
	}
	if s.TurnPlayer != bob || s.InternalState != models.PhaseMain {
		t.Errorf("turn = %q phase = %s", s.TurnPlayer, s.InternalState)
	}
}

func TestFullGame(t *testing.T) {
	e := mainEngine(t)
	s := e.State()
	targets := shipCells(standardLayout())
	misses := emptyCells()

	for i, c := range targets {
		defender := bob
		if err := e.ApplyMove(attackMove(alice, c.x, c.y)); err != nil {
			t.Fatalf("attack %d: %v", i, err)
		}
		if i == len(targets)-1 {
			break
		}
		if s.TurnPlayer != defender {
			t.Fatalf("attack %d: turn = %q, want %q", i, s.TurnPlayer, defender)
		}
		if s.InternalState != models.PhaseMain {
			t.Fatalf("attack %d: ended early", i)
		}
		mustApply(t, e, attackMove(bob, misses[i].x, misses[i].y))
		if s.TurnPlayer != alice {
			t.Fatalf("attack %d: turn = %q after bob's miss", i, s.TurnPlayer)
		}
	}

	if s.Winner != alice {
		t.Errorf("winner = %q", s.Winner)
	}
	if s.InternalState != models.PhaseEnded || s.Status != models.StatusOver {
		t.Errorf("phase = %s/%s", s.InternalState, s.Status)
	}
	if len(s.P2SunkenShips) != len(models.Fleet) {
		t.Errorf("sunken = %v", s.P2SunkenShips)
	}
	seen := map[models.ShipKind]bool{}
	for _, k := range s.P2SunkenShips {
		if seen[k] {
			t.Errorf("%s sunk twice", k)
		}
		seen[k] = true
	}
	if len(s.P1SunkenShips) != 0 {
		t.Errorf("alice lost ships: %v", s.P1SunkenShips)
	}
	if err := e.ApplyMove(attackMove(bob, 0, 0)); !errors.Is(err, ErrGameNotInProgress) {
		t.Errorf("attack after end: %v", err)
	}
}
