package game

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/nstehr/ruck/ruck-core/model"
)

var ErrRosterTooSmall = errors.New("roster too small")

// InitHeader is the first line of an initialization batch.
const InitHeader = "init"

var fieldKeys = []string{
	"width", "height", "try", "direction", "switch", "switch_time",
	"switch_home", "switch_away", "wind_strength", "wind_direction", "weather",
}

var attributeKeys = []string{"size", "pound", "speed", "foot", "p_foot", "p_tackle"}

var attributeAliases = map[string]string{
	"mass":            "pound",
	"weight":          "pound",
	"kick":            "foot",
	"kick_accuracy":   "p_foot",
	"tackle_accuracy": "p_tackle",
}

// Init builds the match from an initialization batch: an optional `init`
// header, the field descriptor, the home then the away attribute records and
// an optional restart-state line. Attribute records are the lines holding
// `=`; they are split evenly between the sides and each side needs at least
// fifteen. On error the current match is left untouched.
func (g *Game) Init(payload string) error {
	var lines []string
	for line := range strings.SplitSeq(payload, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > 0 && lines[0] == InitHeader {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return fmt.Errorf("%w: empty initialization", ErrRosterTooSmall)
	}

	m := model.NewMatch()
	m.Field = g.parseField(lines[0])

	var records []string
	restart := ""
	for _, line := range lines[1:] {
		if strings.Contains(line, "=") {
			records = append(records, line)
		} else {
			restart = line
		}
	}
	half := len(records) / 2
	if half < model.ActiveCount {
		return fmt.Errorf("%w: %d attribute records, need %d per side", ErrRosterTooSmall, len(records), model.ActiveCount)
	}

	f := m.Field
	m.Home = g.buildTeam(records[:half], f.Width/2+f.TryDepth-2)
	m.Away = g.buildTeam(records[half:], f.Length()*3/4)

	kicker, _ := m.Home.Find(10)
	m.GiveBall(model.Home, kicker)

	if restart != "" {
		if err := g.applyRestart(m, restart); err != nil {
			return fmt.Errorf("restart state: %w", err)
		}
	}

	g.Match = m
	g.ready = true
	g.log.Info("match initialized",
		"width", f.Width,
		"height", f.Height,
		"home_attacks", string(f.HomeAttacks),
		"home", len(m.Home.Players)+len(m.Home.Bench),
		"away", len(m.Away.Players)+len(m.Away.Bench),
		"phase", m.Phase.Kind(),
	)
	return nil
}

// descriptor splits a `_`-joined list of `key=value` or bare values. Keys
// may themselves contain `_` (p_foot, switch_time). Bare values and unknown
// keys take the key of their position in keys.
func descriptor(text string, keys []string, aliases map[string]string) map[string]string {
	canonical := func(key string) string {
		key = strings.ToLower(strings.TrimSpace(key))
		if alias, ok := aliases[key]; ok {
			return alias
		}
		return key
	}
	isKey := func(s string) bool {
		key, _, _ := strings.Cut(s, "=")
		return slices.Contains(keys, canonical(key))
	}

	parts := strings.Split(text, "_")
	var fields []string
	for i := 0; i < len(parts); i++ {
		part := parts[i]
		for !strings.Contains(part, "=") && i+1 < len(parts) && isKey(part+"_"+parts[i+1]) {
			i++
			part += "_" + parts[i]
		}
		fields = append(fields, part)
	}

	out := make(map[string]string)
	for i, field := range fields {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			key, value = "", field
		}
		key = canonical(key)
		if !slices.Contains(keys, key) {
			if i >= len(keys) {
				continue
			}
			key = keys[i]
		}
		out[key] = strings.TrimSpace(value)
	}
	return out
}

func (g *Game) parseField(text string) model.Field {
	f := model.DefaultField()
	d := descriptor(text, fieldKeys, nil)

	g.number(d, "width", &f.Width)
	g.number(d, "height", &f.Height)
	g.number(d, "try", &f.TryDepth)
	if v := d["direction"]; v != "" {
		switch model.Direction(strings.ToUpper(v)[0]) {
		case model.North:
			f.HomeAttacks = model.North
		case model.South:
			f.HomeAttacks = model.South
		default:
			g.log.Warn("unknown attack direction", "value", v)
		}
	}
	if v := d["switch"]; v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Switch = b
		} else {
			g.log.Warn("bad field value", "key", "switch", "value", v)
		}
	}
	if v := d["switch_time"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.SwitchTime = n
		} else {
			g.log.Warn("bad field value", "key", "switch_time", "value", v)
		}
	}
	f.SwitchHome = switchPoints(d["switch_home"])
	f.SwitchAway = switchPoints(d["switch_away"])
	g.number(d, "wind_strength", &f.WindStrength)
	g.number(d, "wind_direction", &f.WindDirection)
	g.number(d, "weather", &f.Weather)
	return f
}

// switchPoints parses `time-config/time-config`; malformed pairs are
// skipped.
func switchPoints(text string) []model.SwitchPoint {
	var out []model.SwitchPoint
	for pair := range strings.SplitSeq(text, "/") {
		a, b, ok := strings.Cut(pair, "-")
		if !ok {
			continue
		}
		t, err1 := strconv.Atoi(a)
		c, err2 := strconv.Atoi(b)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, model.SwitchPoint{Time: t, Config: c})
	}
	return out
}

// number stores d[key] into dst when present and numeric.
func (g *Game) number(d map[string]string, key string, dst *float64) {
	v, ok := d[key]
	if !ok || v == "" {
		return
	}
	n, err := parseFinite(v)
	if err != nil {
		g.log.Warn("bad numeric value", "key", key, "value", v)
		return
	}
	*dst = n
}

func (g *Game) parseAttributes(record string) model.Attributes {
	a := model.DefaultAttributes()
	d := descriptor(record, attributeKeys, attributeAliases)
	g.number(d, "size", &a.Size)
	g.number(d, "pound", &a.Pound)
	g.number(d, "speed", &a.Speed)
	g.number(d, "foot", &a.KickPower)
	g.number(d, "p_foot", &a.KickAccuracy)
	g.number(d, "p_tackle", &a.TackleAccuracy)
	return a
}

// buildTeam numbers records from 1 and stands them in a line at x. The
// first fifteen are active, the rest on the bench.
func (g *Game) buildTeam(records []string, x float64) model.Team {
	var t model.Team
	for i, rec := range records {
		p := &model.Player{
			X:          x,
			Y:          float64(6 + 3*i),
			Number:     i + 1,
			Attributes: g.parseAttributes(rec),
		}
		if i < model.ActiveCount {
			t.Players = append(t.Players, p)
		} else {
			t.Bench = append(t.Bench, p)
		}
	}
	return t
}

// applyRestart resumes m from a restart-state line:
//
//	ruck A 60 35 3 H4 A7_B 59.5 35_H4 60 35_A7 60.8 35
//
// The first part is `<phase> <side> <x> <y> <radius>` with the held and
// tackler players for a ruck. Later parts place a loose ball (`B x y`) or a
// player (`H4 x y`, with `/B x y` when carrying).
func (g *Game) applyRestart(m *model.Match, line string) error {
	parts := strings.Split(line, "_")
	head := strings.Fields(parts[0])
	if len(head) == 0 {
		return fmt.Errorf("%w: empty restart head", ErrMalformedToken)
	}

	kind, ok := model.ParsePhaseKind(head[0])
	if !ok {
		return fmt.Errorf("%w: unknown phase %q", ErrMalformedToken, head[0])
	}
	side := model.Home
	if len(head) > 1 {
		s, err := model.ParseSide(head[1][0])
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownSide, head[1])
		}
		side = s
	}
	var at model.Point
	var radius float64
	fields := []*float64{&at.X, &at.Y, &radius}
	for i, dst := range fields {
		if len(head) <= i+2 {
			break
		}
		v, err := parseFinite(head[i+2])
		if err != nil {
			return fmt.Errorf("%w: bad number %q", ErrMalformedToken, head[i+2])
		}
		*dst = v
	}

	phase := model.NewPhase(kind, side, at, radius)
	if ruck, ok := phase.(model.Ruck); ok && len(head) > 6 {
		held, err := parseRef(head[5])
		if err != nil {
			return err
		}
		tackler, err := parseRef(head[6])
		if err != nil {
			return err
		}
		ruck.Held, ruck.Tackler = held, tackler
		if p := m.Player(held); p != nil {
			p.Held = true
		}
		if p := m.Player(tackler); p != nil {
			p.MustRelease = true
		}
		phase = ruck
	}
	m.Phase = phase

	ballPlaced := false
	for _, part := range parts[1:] {
		placed, err := g.placeFromRestart(m, part)
		if err != nil {
			return err
		}
		ballPlaced = ballPlaced || placed
	}
	if !ballPlaced {
		settleRestartBall(m)
	}
	// A carried ball follows its carrier wherever the carrier was placed.
	if p, s, ok := m.Carrier(); ok {
		m.GiveBall(s, p)
	}
	return nil
}

// settleRestartBall drops the kick-off ball for set pieces resumed without a
// ball position: on the mark, or behind the held player in a ruck.
func settleRestartBall(m *model.Match) {
	switch m.Phase.Kind() {
	case model.KindScrum, model.KindRuck, model.KindPenalty:
	default:
		return
	}
	at := m.Phase.Anchor()
	m.LooseBall()
	m.Flight.Active = false
	m.Ball.X, m.Ball.Y, m.Ball.Z = at.X, at.Y, 0

	if ruck, ok := m.Phase.(model.Ruck); ok {
		if held := m.Player(ruck.Held); held != nil {
			m.Ball.X = held.X - m.Field.AttackSign(ruck.Held.Side)*model.CarryOffset
			m.Ball.Y = held.Y
		}
	}
}

// placeFromRestart applies one position part and reports whether it placed
// the ball.
func (g *Game) placeFromRestart(m *model.Match, part string) (bool, error) {
	entry, ball, carrying := strings.Cut(part, "/B")
	f := strings.Fields(entry)
	if len(f) != 3 {
		return false, fmt.Errorf("%w: bad position %q", ErrMalformedToken, part)
	}
	x, errX := parseFinite(f[1])
	y, errY := parseFinite(f[2])
	if errX != nil || errY != nil {
		return false, fmt.Errorf("%w: bad position %q", ErrMalformedToken, part)
	}

	if f[0] == "B" {
		m.LooseBall()
		m.Ball.X, m.Ball.Y, m.Ball.Z = x, y, 0
		return true, nil
	}

	r, err := parseRef(f[0])
	if err != nil {
		return false, err
	}
	p := m.Player(r)
	if p == nil {
		g.log.Warn("restart names unknown player", "player", r)
		return false, nil
	}
	p.X, p.Y = x, y
	if carrying {
		g.log.Debug("carried ball placed from carrier", "player", r, "given", strings.TrimSpace(ball))
		m.GiveBall(r.Side, p)
	}
	return carrying, nil
}

func parseRef(text string) (model.PlayerRef, error) {
	if len(text) < 2 {
		return model.PlayerRef{}, fmt.Errorf("%w: bad player %q", ErrMalformedToken, text)
	}
	side, err := model.ParseSide(text[0])
	if err != nil {
		return model.PlayerRef{}, fmt.Errorf("%w: %q", ErrUnknownSide, text)
	}
	n, err := strconv.Atoi(text[1:])
	if err != nil {
		return model.PlayerRef{}, fmt.Errorf("%w: bad player %q", ErrMalformedToken, text)
	}
	return model.PlayerRef{Side: side, Number: n}, nil
}
