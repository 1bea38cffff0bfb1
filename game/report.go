package game

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Report renders the position report sent back after every batch:
//
//	play H
//	time:25
//	B: 49.1 33
//	H1: 58 6
//	H10: 58 34.389/B: 58.5 34.389
//
// The ball line appears only when the ball is loose; otherwise the ball is
// appended to its carrier's line.
func (g *Game) Report() string {
	m := g.Match
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", m.Phase.Kind(), m.Phase.Team())
	fmt.Fprintf(&b, "time:%d\n", m.Time)
	if !m.Ball.Carried {
		fmt.Fprintf(&b, "B: %s %s\n", coord(m.Ball.X), coord(m.Ball.Y))
	}
	for side, p := range m.Players() {
		fmt.Fprintf(&b, "%s%d: %s %s", side, p.Number, coord(p.X), coord(p.Y))
		if p.Carrying {
			fmt.Fprintf(&b, "/B: %s %s", coord(m.Ball.X), coord(m.Ball.Y))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// coord formats a coordinate rounded to millimetres.
func coord(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
