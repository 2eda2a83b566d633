// Package hexgrid provides hex coordinate math for the combat engine: offset
// (col,row) coordinates with odd-column layout, cube-coordinate conversion
// for distance and line calculations, and a simple line-of-sight walk.
//
// The engine consumes this through the Geometry interface so a host with its
// own map representation can substitute it.
package hexgrid

// Coord is an offset hex coordinate using odd-q layout (odd columns shift
// down), 0-indexed.
type Coord struct {
	Col, Row int
}

// cube is the cube-coordinate form of a hex. Invariant: Q + R + S == 0.
type cube struct {
	q, r, s int
}

func toCube(h Coord) cube {
	x := h.Col
	z := h.Row - (h.Col-(h.Col&1))/2
	return cube{q: x, r: -x - z, s: z}
}

func fromCube(c cube) Coord {
	col := c.q
	row := c.s + (c.q-(c.q&1))/2
	return Coord{Col: col, Row: row}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Distance returns the hex distance between a and b.
//
// Postcondition: Returns >= 0; Distance(a, a) == 0.
func Distance(a, b Coord) int {
	ac := toCube(a)
	bc := toCube(b)
	return (abs(ac.q-bc.q) + abs(ac.r-bc.r) + abs(ac.s-bc.s)) / 2
}

// Neighbors returns the 6 hexes adjacent to h, clockwise from north.
func Neighbors(h Coord) [6]Coord {
	col, row := h.Col, h.Row
	if col%2 != 0 {
		return [6]Coord{
			{col, row - 1},     // N
			{col + 1, row},     // NE
			{col + 1, row + 1}, // SE
			{col, row + 1},     // S
			{col - 1, row + 1}, // SW
			{col - 1, row},     // NW
		}
	}
	return [6]Coord{
		{col, row - 1},     // N
		{col + 1, row - 1}, // NE
		{col + 1, row},     // SE
		{col, row + 1},     // S
		{col - 1, row},     // SW
		{col - 1, row - 1}, // NW
	}
}

// Line returns the hexes from a to b inclusive, using cube-coordinate
// interpolation with rounding.
//
// Postcondition: result[0] == a; result[len-1] == b; len == Distance(a,b)+1.
func Line(a, b Coord) []Coord {
	n := Distance(a, b)
	out := make([]Coord, 0, n+1)
	if n == 0 {
		return append(out, a)
	}
	ac := toCube(a)
	bc := toCube(b)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		out = append(out, fromCube(roundCube(
			lerp(ac.q, bc.q, t),
			lerp(ac.r, bc.r, t),
			lerp(ac.s, bc.s, t),
		)))
	}
	return out
}

func lerp(a, b int, t float64) float64 {
	return float64(a) + (float64(b)-float64(a))*t
}

// roundCube rounds fractional cube coords to the nearest hex, fixing the
// component with the largest rounding error so q+r+s stays 0.
func roundCube(q, r, s float64) cube {
	rq := intRound(q)
	rr := intRound(r)
	rs := intRound(s)
	dq := absF(float64(rq) - q)
	dr := absF(float64(rr) - r)
	ds := absF(float64(rs) - s)
	switch {
	case dq > dr && dq > ds:
		rq = -rr - rs
	case dr > ds:
		rr = -rq - rs
	default:
		rs = -rq - rr
	}
	return cube{q: rq, r: rr, s: rs}
}

func intRound(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Blocker reports whether the hex at c blocks line of sight.
type Blocker func(c Coord) bool

// LineOfSight reports whether a straight hex line from a to b is clear.
// The endpoints themselves never block.
//
// Precondition: blocked must be non-nil.
func LineOfSight(a, b Coord, blocked Blocker) bool {
	line := Line(a, b)
	for _, c := range line[1 : max(len(line)-1, 1)] {
		if blocked(c) {
			return false
		}
	}
	return true
}

// Geometry is the grid service the combat session consumes: distance,
// adjacency, and line-of-sight queries over the host's map.
type Geometry interface {
	// Distance returns the hex distance between a and b.
	Distance(a, b Coord) int
	// Neighbors returns the hexes adjacent to c.
	Neighbors(c Coord) [6]Coord
	// LineOfSight reports whether a sees b.
	LineOfSight(a, b Coord) bool
}

// Map is the default Geometry: open terrain with an optional set of
// sight-blocking hexes.
type Map struct {
	blocked map[Coord]bool
}

// NewMap creates a Map with the given sight-blocking hexes.
func NewMap(blocked ...Coord) *Map {
	m := &Map{blocked: make(map[Coord]bool, len(blocked))}
	for _, c := range blocked {
		m.blocked[c] = true
	}
	return m
}

// Distance implements Geometry.
func (m *Map) Distance(a, b Coord) int { return Distance(a, b) }

// Neighbors implements Geometry.
func (m *Map) Neighbors(c Coord) [6]Coord { return Neighbors(c) }

// LineOfSight implements Geometry.
func (m *Map) LineOfSight(a, b Coord) bool {
	return LineOfSight(a, b, func(c Coord) bool { return m.blocked[c] })
}
