package htmx

import (
	"context"
	"fmt"
	"io"
	"strings"

	"battleship/internal/models"

	"github.com/a-h/templ"
)

func esc(s string) string {
	return templ.EscapeString(s)
}

// statusLine describes the active match in one line.
func statusLine(snap *models.AreaSnapshot) string {
	if snap.Game == nil {
		return "&gt; no game, join to start"
	}
	s := snap.Game.State
	switch s.InternalState {
	case models.PhaseWaiting:
		return "&gt; waiting for an opponent..."
	case models.PhaseSetup:
		return "&gt; placing ships..."
	case models.PhaseMain:
		return fmt.Sprintf("&gt; turn: %s", esc(string(s.TurnPlayer)))
	default:
		return fmt.Sprintf("&gt; winner: %s", esc(string(s.Winner)))
	}
}

func lastMoveLine(lm *models.LastMove) string {
	if lm == nil {
		return ""
	}
	line := fmt.Sprintf("%s fired at (%d,%d): %s", esc(string(lm.Player)), lm.X, lm.Y, lm.Result)
	if lm.Ship != models.NoShip {
		line += " " + esc(string(lm.Ship))
		if lm.Sunk {
			line += " sunk"
		}
	}
	return line
}

func shipList(ships []models.ShipKind) string {
	names := make([]string, len(ships))
	for i, s := range ships {
		names[i] = esc(string(s))
	}
	return strings.Join(names, ", ")
}

// AreaContent renders the inner area status (for SSE updates).
func AreaContent(snap *models.AreaSnapshot) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<div class="status" id="status">%s</div>`, statusLine(snap))
		if snap.Game != nil {
			s := snap.Game.State
			if line := lastMoveLine(s.LastMove); line != "" {
				fmt.Fprintf(&b, `<div class="last-move">%s</div>`, line)
			}
			fmt.Fprintf(&b, `<div class="sunk" data-player="%s">sunk: %s</div>`, esc(string(s.P1)), shipList(s.P1SunkenShips))
			fmt.Fprintf(&b, `<div class="sunk" data-player="%s">sunk: %s</div>`, esc(string(s.P2)), shipList(s.P2SunkenShips))
			fmt.Fprintf(&b, `<div class="game-id">game: %s</div>`, esc(snap.Game.ID))
		}
		fmt.Fprintf(&b, `<div class="occupants">here: %d, finished games: %d</div>`, len(snap.Occupants), snap.HistoryCount)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// AreaWrapper renders the area with its SSE wrapper (for initial load).
func AreaWrapper(snap *models.AreaSnapshot) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div hx-ext="sse" sse-connect="/htmx/sse/%s" sse-swap="area-update" hx-swap="innerHTML" data-area-id="%s"><div id="area-content">`,
			esc(snap.ID), esc(snap.ID)); err != nil {
			return err
		}
		if err := AreaContent(snap).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div></div>`)
		return err
	})
}

// HistoryTable renders finished matches as winner, loser and score rows.
func HistoryTable(records []models.HistoryRecord) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<table class="history"><thead><tr><th>winner</th><th>loser</th><th>score</th></tr></thead><tbody>`)
		if len(records) == 0 {
			b.WriteString(`<tr><td colspan="3">There are no entries to display at the moment.</td></tr>`)
		}
		for _, rec := range records {
			s := rec.State
			winner, winnerName, loser, loserName := s.P1, s.P1Username, s.P2, s.P2Username
			if s.Winner == s.P2 {
				winner, winnerName, loser, loserName = s.P2, s.P2Username, s.P1, s.P1Username
			}
			fmt.Fprintf(&b, `<tr data-game-id="%s"><td>%s</td><td>%s</td><td>%d - %d</td></tr>`,
				esc(rec.ID), esc(displayName(winner, winnerName)), esc(displayName(loser, loserName)),
				rec.Result.Scores[winner], rec.Result.Scores[loser])
		}
		b.WriteString(`</tbody></table>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ErrorStatus renders an error in place of the status line.
func ErrorStatus(msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="status" id="status">&gt; error: %s</div>`, esc(msg))
		return err
	})
}

func displayName(id models.PlayerID, username string) string {
	if username != "" {
		return username
	}
	return string(id)
}
