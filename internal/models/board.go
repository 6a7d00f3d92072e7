package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"
)

// BoardSize is the width and height of every board.
const BoardSize = 10

// ShipKind is the content of a ship board cell. The zero value is an empty cell.
type ShipKind string

const (
	NoShip     ShipKind = ""
	Carrier    ShipKind = "Carrier"
	Battleship ShipKind = "Battleship"
	Cruiser    ShipKind = "Cruiser"
	Submarine  ShipKind = "Submarine"
	Destroyer  ShipKind = "Destroyer"
)

// Fleet lists every ship kind in canonical order.
var Fleet = []ShipKind{Destroyer, Submarine, Cruiser, Battleship, Carrier}

var shipLengths = map[ShipKind]int{
	Carrier:    5,
	Battleship: 4,
	Cruiser:    3,
	Submarine:  3,
	Destroyer:  2,
}

// Length returns the number of cells the ship occupies, or 0 for an
// empty cell or an unknown kind.
func (k ShipKind) Length() int {
	return shipLengths[k]
}

// Valid reports whether k is one of the five fleet ships.
func (k ShipKind) Valid() bool {
	_, ok := shipLengths[k]
	return ok
}

func (k ShipKind) MarshalJSON() ([]byte, error) {
	if k == NoShip {
		return []byte("null"), nil
	}
	return json.Marshal(string(k))
}

func (k *ShipKind) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*k = NoShip
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k = ShipKind(s)
	return nil
}

// Marker records the outcome of an attack on a cell.
type Marker string

const (
	Unmarked Marker = ""
	Hit      Marker = "H"
	Miss     Marker = "M"
)

func (m Marker) MarshalJSON() ([]byte, error) {
	if m == Unmarked {
		return []byte("null"), nil
	}
	return json.Marshal(string(m))
}

func (m *Marker) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Unmarked
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = Marker(s)
	return nil
}

// Layout is a ship placement as submitted by a player. It is not assumed
// to be rectangular or 10x10.
type Layout [][]ShipKind

// At returns the kind at (x, y), treating anything outside the layout as empty.
func (l Layout) At(x, y int) ShipKind {
	if x < 0 || x >= len(l) || y < 0 || y >= len(l[x]) {
		return NoShip
	}
	return l[x][y]
}

// Board is a ship board indexed [x][y].
type Board [BoardSize][BoardSize]ShipKind

// BoardFromLayout copies the in-bounds part of l into a Board.
func BoardFromLayout(l Layout) *Board {
	var b Board
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			b[x][y] = l.At(x, y)
		}
	}
	return &b
}

// Contains reports whether any cell still holds kind.
func (b *Board) Contains(kind ShipKind) bool {
	for x := range b {
		for y := range b[x] {
			if b[x][y] == kind {
				return true
			}
		}
	}
	return false
}

// Layout converts the board back to the submitted form.
func (b *Board) Layout() Layout {
	l := make(Layout, BoardSize)
	for x := range b {
		l[x] = make([]ShipKind, BoardSize)
		copy(l[x], b[x][:])
	}
	return l
}

func (b *Board) String() string {
	var buffer bytes.Buffer
	w := tabwriter.NewWriter(&buffer, 2, 0, 1, ' ', 0)

	fmt.Fprint(w, "\t")
	for y := 0; y < BoardSize; y++ {
		fmt.Fprint(w, strconv.Itoa(y)+"\t")
	}
	fmt.Fprint(w, "\n")

	for x := 0; x < BoardSize; x++ {
		fmt.Fprint(w, strconv.Itoa(x)+"\t")
		for y := 0; y < BoardSize; y++ {
			if b[x][y] == NoShip {
				fmt.Fprint(w, "~\t")
			} else {
				fmt.Fprint(w, string(b[x][y][0])+"\t")
			}
		}
		fmt.Fprint(w, "\n")
	}
	w.Flush()
	return buffer.String()
}

// MarkerBoard records attacks against one player's ship board, indexed [x][y].
type MarkerBoard [BoardSize][BoardSize]Marker

// InBounds reports whether (x, y) is a cell of a board.
func InBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}
