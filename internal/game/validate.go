package game

import "battleship/internal/models"

// ValidateBoard checks that a layout holds exactly one straight, complete,
// in-bounds run of every fleet ship. Cells are scanned x-major, so the
// reported error is the first violation at the lowest (x, y).
func ValidateBoard(layout models.Layout) error {
	var visited [models.BoardSize][models.BoardSize]bool
	placed := make(map[models.ShipKind]bool, len(models.Fleet))

	for x := 0; x < models.BoardSize; x++ {
		for y := 0; y < models.BoardSize; y++ {
			kind := layout.At(x, y)
			if kind == models.NoShip || visited[x][y] {
				continue
			}
			if !kind.Valid() || placed[kind] {
				return setupError(ErrShipDuplicate, kind)
			}

			dx, dy := 0, 0
			switch {
			case layout.At(x+1, y) == kind:
				dx = 1
			case layout.At(x, y+1) == kind:
				dy = 1
			default:
				return setupError(ErrShipIncomplete, kind)
			}

			n := kind.Length()
			if x+dx*(n-1) >= models.BoardSize || y+dy*(n-1) >= models.BoardSize {
				return setupError(ErrShipNotEnoughSpace, kind)
			}
			for i := 0; i < n; i++ {
				cx, cy := x+dx*i, y+dy*i
				if layout.At(cx, cy) != kind {
					return setupError(ErrShipIncomplete, kind)
				}
				visited[cx][cy] = true
			}
			placed[kind] = true
		}
	}

	// Ships hanging entirely off the grid are never reached by the scan.
	for x, row := range layout {
		for y, kind := range row {
			if kind != models.NoShip && !models.InBounds(x, y) {
				return setupError(ErrShipNotEnoughSpace, kind)
			}
		}
	}

	var missing []models.ShipKind
	for _, kind := range models.Fleet {
		if !placed[kind] {
			missing = append(missing, kind)
		}
	}
	if len(missing) > 0 {
		return setupError(ErrShipsMissing, missing...)
	}
	return nil
}
