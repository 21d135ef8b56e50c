package engine

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RenderPath writes the board: one row of site codes, then one row per stack
// level listing the occupant ids under each site in arrival order.
func RenderPath(w io.Writer, path *Path) error {
	var b strings.Builder
	depth := 0
	codes := make([]string, len(path.Sites))
	for i, s := range path.Sites {
		codes[i] = s.Type.String()
		depth = max(depth, len(s.Occupants))
	}
	b.WriteString(strings.Join(codes, " "))
	b.WriteByte('\n')
	for row := range depth {
		var line strings.Builder
		for _, s := range path.Sites {
			if row < len(s.Occupants) {
				id := strconv.Itoa(s.Occupants[row])
				line.WriteString(id)
				line.WriteString(strings.Repeat(" ", max(1, 3-len(id))))
			} else {
				line.WriteString("   ")
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderPlayer writes one line of a player's private details.
func RenderPlayer(w io.Writer, p *Player) error {
	_, err := fmt.Fprintf(w, "Player %d Money=%d V1=%d V2=%d A=%d B=%d C=%d D=%d E=%d\n",
		p.ID, p.Money, p.VisitsV1, p.VisitsV2,
		p.Cards[CardA], p.Cards[CardB], p.Cards[CardC], p.Cards[CardD], p.Cards[CardE])
	return err
}

// RenderScores writes the final score line.
func RenderScores(w io.Writer, scores []int) error {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = strconv.Itoa(s)
	}
	_, err := fmt.Fprintf(w, "Scores: %s\n", strings.Join(parts, ","))
	return err
}
