package pattern

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"torolife/src/world"
)

var ErrUnknownPattern = errors.New("unknown pattern")

//Pattern is a fixed seeding template stamped relative to an anchor cell
type Pattern struct {
	Name    string   //pattern name
	Descr   string   //pattern descr
	Offsets [][2]int //array of [drow, dcol] offsets from the anchor
}

//Canvas is anything the patterns can be stamped on
type Canvas interface {
	Height() int
	Width() int
	Set(x int, y int, c world.Cell)
}

//Placement records one stamped pattern
type Placement struct {
	Pattern string
	X       int
	Y       int
}

var (
	Glider = Pattern{
		"glider",
		"spaceship moving one cell down and right every 4 generations",
		[][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}},
	}
	Toad = Pattern{
		"toad",
		"period 2 oscillator",
		[][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 0}, {1, 1}, {1, 2}},
	}
	Beacon = Pattern{
		"beacon",
		"period 2 oscillator made of two diagonal blocks",
		[][2]int{{0, 0}, {0, 1}, {1, 0}, {2, 3}, {3, 2}, {3, 3}},
	}
	//Methuselah is the R-pentomino
	Methuselah = Pattern{
		"methuselah",
		"R-pentomino, stabilizes after 1103 generations",
		[][2]int{{0, 1}, {0, 2}, {1, 0}, {1, 1}, {2, 1}},
	}

	//order used by Random
	builtin = []Pattern{Glider, Toad, Beacon, Methuselah}

	registry = func() map[string]Pattern {
		m := make(map[string]Pattern, len(builtin))
		for _, p := range builtin {
			m[p.Name] = p
		}
		return m
	}()
)

//Lookup returns the built-in pattern by case-insensitive name
func Lookup(name string) (Pattern, error) {
	p, ok := registry[strings.ToLower(name)]
	if !ok {
		return Pattern{}, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return p, nil
}

//Names returns the sorted names of the built-in patterns
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

//Stamp sets every pattern cell alive around the anchor x (row), y (column).
//The anchor and each offset cell are wrapped toroidally. Cells are never cleared,
//so stamping onto live cells is a union.
func Stamp(c Canvas, p Pattern, x int, y int) {
	h, w := c.Height(), c.Width()
	x, y = world.Wrap(x, h), world.Wrap(y, w)
	for _, o := range p.Offsets {
		c.Set(world.Wrap(x+o[0], h), world.Wrap(y+o[1], w), world.Alive)
	}
}

//Random stamps n built-in patterns of random kind at random anchors.
//A non-positive n stamps nothing.
func Random(c Canvas, r *rand.Rand, n int) []Placement {
	if n <= 0 {
		return nil
	}
	placed := make([]Placement, 0, n)
	for i := 0; i < n; i++ {
		p := builtin[r.IntN(len(builtin))]
		x := r.IntN(c.Height()) + 1
		y := r.IntN(c.Width()) + 1
		Stamp(c, p, x, y)
		placed = append(placed, Placement{p.Name, x, y})
	}
	return placed
}
