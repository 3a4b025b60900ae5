package world

//Cell is the state of a single grid cell
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

//Grid holds one generation of the live region surrounded by a one-cell dead border.
//Rows and columns are 1-indexed; row 0, row Height+1, column 0 and column Width+1 are the border.
//The border is never written, so neighbour sums can read it without bounds checks.
type Grid struct {
	Height int
	Width  int
	cells  []Cell
	rows   [][]Cell
}

//newGrid allocates the padded grid as one slab and slices it into rows
func newGrid(height int, width int) *Grid {
	stride := width + 2
	g := Grid{
		Height: height,
		Width:  width,
		cells:  make([]Cell, stride*(height+2)),
		rows:   make([][]Cell, height+2),
	}
	for i := range g.rows {
		start := stride * i
		g.rows[i] = g.cells[start : start+stride : start+stride]
	}
	return &g
}

//Inside reports whether row, col addresses the live region
func (g *Grid) Inside(row int, col int) bool {
	return row >= 1 && row <= g.Height && col >= 1 && col <= g.Width
}

//At returns the cell at row, col. Anything outside the live region reads Dead.
func (g *Grid) At(row int, col int) Cell {
	if !g.Inside(row, col) {
		return Dead
	}
	return g.rows[row][col]
}

//Put writes the cell at row, col. Coordinates outside the live region are ignored.
//Any non-zero value is stored as Alive.
func (g *Grid) Put(row int, col int, c Cell) {
	if !g.Inside(row, col) {
		return
	}
	if c != Dead {
		c = Alive
	}
	g.rows[row][col] = c
}

//neighbours sums the 8 cells around an interior cell
func (g *Grid) neighbours(row int, col int) int {
	up, mid, down := g.rows[row-1], g.rows[row], g.rows[row+1]
	return int(up[col-1]) + int(up[col]) + int(up[col+1]) +
		int(mid[col-1]) + int(mid[col+1]) +
		int(down[col-1]) + int(down[col]) + int(down[col+1])
}

func (g *Grid) copyFrom(src *Grid) {
	copy(g.cells, src.cells)
}

func (g *Grid) clear() {
	for i := range g.cells {
		g.cells[i] = Dead
	}
}

func (g *Grid) equal(o *Grid) bool {
	if g.Height != o.Height || g.Width != o.Width {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

//Wrap maps any 1-indexed coordinate, negative or over-range, into [1, n]
func Wrap(v int, n int) int {
	return ((v-1)%n+n)%n + 1
}

//nextState applies the life rule to a cell with the given neighbour sum
func nextState(c Cell, liveNeighbours int) Cell {
	if liveNeighbours == 3 || (liveNeighbours == 2 && c == Alive) {
		return Alive
	}
	return Dead
}
