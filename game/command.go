package game

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nstehr/ruck/ruck-core/model"
)

var (
	ErrMalformedToken = errors.New("malformed command token")
	ErrUnknownSide    = errors.New("unknown side")
	ErrUnknownCode    = errors.New("unknown action code")
)

// Code is the action letter of a command token.
type Code byte

const (
	CodeRun    Code = 'R'
	CodeWalk   Code = 'W'
	CodeKick   Code = 'K'
	CodePass   Code = 'P'
	CodeTackle Code = 'T' // tackle in open play, pickup at a scrum or ruck base
	CodeStand  Code = 'S' // no-op in open play, push in a scrum
)

func (c Code) String() string { return string(rune(c)) }

// Command is one parsed `<Side><Number>:<Code><Payload>` token.
type Command struct {
	Player    model.PlayerRef
	Code      Code
	Direction float64 // degrees in [0,360), 0 = +x, 90 = +y
	Elevation float64 // degrees, kicks and penalty kicks only
}

func (c Command) String() string {
	switch c.Code {
	case CodeRun, CodeWalk:
		return fmt.Sprintf("%s:%s%g", c.Player, c.Code, c.Direction)
	case CodeKick, CodePass:
		return fmt.Sprintf("%s:%s%g/%g", c.Player, c.Code, c.Direction, c.Elevation)
	default:
		return fmt.Sprintf("%s:%s", c.Player, c.Code)
	}
}

// ParseCommand parses a single token such as `H12:R270`, `A9:K45/30` or
// `H3:T`.
func ParseCommand(token string) (Command, error) {
	who, what, ok := strings.Cut(strings.TrimSpace(token), ":")
	if !ok || len(who) < 2 || what == "" {
		return Command{}, fmt.Errorf("%w: %q", ErrMalformedToken, token)
	}

	side, err := model.ParseSide(who[0])
	if err != nil {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownSide, token)
	}
	number, err := strconv.Atoi(who[1:])
	if err != nil || number <= 0 {
		return Command{}, fmt.Errorf("%w: bad player number in %q", ErrMalformedToken, token)
	}

	cmd := Command{
		Player: model.PlayerRef{Side: side, Number: number},
		Code:   Code(what[0]),
	}
	payload := strings.TrimSpace(what[1:])

	switch cmd.Code {
	case CodeRun, CodeWalk:
		dir, err := parseFinite(payload)
		if err != nil {
			return Command{}, fmt.Errorf("%w: bad direction in %q", ErrMalformedToken, token)
		}
		cmd.Direction = normalizeDegrees(dir)
	case CodeKick, CodePass:
		dirText, elevText, hasElev := strings.Cut(payload, "/")
		dir, err := parseFinite(dirText)
		if err != nil {
			return Command{}, fmt.Errorf("%w: bad direction in %q", ErrMalformedToken, token)
		}
		cmd.Direction = normalizeDegrees(dir)
		if hasElev {
			elev, err := parseFinite(elevText)
			if err != nil {
				return Command{}, fmt.Errorf("%w: bad elevation in %q", ErrMalformedToken, token)
			}
			cmd.Elevation = elev
		} else if cmd.Code == CodeKick {
			return Command{}, fmt.Errorf("%w: kick without elevation %q", ErrMalformedToken, token)
		}
	case CodeTackle, CodeStand:
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCode, token)
	}
	return cmd, nil
}

// splitBatch separates the optional header line (the phase the client
// believes is current) from the command tokens. Blank lines are dropped.
func splitBatch(batch string) (header string, tokens []string) {
	first := true
	for line := range strings.SplitSeq(batch, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if first && !strings.Contains(line, ":") {
			header = line
			first = false
			continue
		}
		first = false
		tokens = append(tokens, line)
	}
	return header, tokens
}

// parseFinite parses a decimal number, rejecting NaN and infinities.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
