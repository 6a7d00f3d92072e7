package game

import (
	"math/rand"

	"battleship/internal/models"
)

type cell struct{ x, y int }

func emptyLayout() models.Layout {
	l := make(models.Layout, models.BoardSize)
	for x := range l {
		l[x] = make([]models.ShipKind, models.BoardSize)
	}
	return l
}

// place puts kind at (x, y), running along +x when down, otherwise along +y.
func place(l models.Layout, kind models.ShipKind, x, y int, down bool) {
	for i := 0; i < kind.Length(); i++ {
		if down {
			l[x+i][y] = kind
		} else {
			l[x][y+i] = kind
		}
	}
}

// standardLayout leaves rows 7 and 9 free of ships.
func standardLayout() models.Layout {
	l := emptyLayout()
	place(l, models.Carrier, 1, 1, true)
	place(l, models.Battleship, 8, 0, false)
	place(l, models.Cruiser, 4, 6, true)
	place(l, models.Submarine, 1, 5, false)
	place(l, models.Destroyer, 0, 9, true)
	return l
}

func shipCells(l models.Layout) []cell {
	var cells []cell
	for x := 0; x < models.BoardSize; x++ {
		for y := 0; y < models.BoardSize; y++ {
			if l.At(x, y) != models.NoShip {
				cells = append(cells, cell{x, y})
			}
		}
	}
	return cells
}

// emptyCells lists cells of standardLayout that never hold a ship.
func emptyCells() []cell {
	var cells []cell
	for _, x := range []int{7, 9} {
		for y := 0; y < models.BoardSize; y++ {
			cells = append(cells, cell{x, y})
		}
	}
	return cells
}

// randomLayout places the fleet at random without overlap.
func randomLayout(rng *rand.Rand) models.Layout {
	l := emptyLayout()
	for _, kind := range models.Fleet {
		n := kind.Length()
	retry:
		down := rng.Intn(2) == 0
		x, y := rng.Intn(models.BoardSize), rng.Intn(models.BoardSize)
		if (down && x+n > models.BoardSize) || (!down && y+n > models.BoardSize) {
			goto retry
		}
		for i := 0; i < n; i++ {
			cx, cy := x, y+i
			if down {
				cx, cy = x+i, y
			}
			if l[cx][cy] != models.NoShip {
				goto retry
			}
		}
		place(l, kind, x, y, down)
	}
	return l
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(7))
}
