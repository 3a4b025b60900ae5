package world

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
)

const (
	DefWorkers          = 1 //sequential evolve
	DefMinRowsPerWorker = 3 //minimum rows for one worker

	//MaxCells caps the padded cell count of one grid, a world holds two
	MaxCells = 1 << 28
)

var ErrBadSize = errors.New("height and width must be positive")

//World is the simulation instance: the live region dimensions and two same-shaped grids.
//cur always holds the latest committed generation, nxt is the scratch target of Evolve.
//A World is not safe for concurrent use.
type World struct {
	height  int
	width   int
	cur     *Grid
	nxt     *Grid
	workers int
	bands   []band
}

//band is a contiguous range of rows evaluated by one worker
type band struct {
	first int
	last  int
}

//Option configures a World on construction
type Option func(w *World)

//WithWorkers splits Evolve across n goroutines by row bands
func WithWorkers(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.workers = n
		}
	}
}

//New creates an all-dead world of height x width
func New(height int, width int, opts ...Option) (*World, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("world %dx%d: %w", height, width, ErrBadSize)
	}
	//division keeps the check free of overflow
	if height > MaxCells-2 || width > MaxCells/(height+2)-2 {
		return nil, fmt.Errorf("world %dx%d exceeds %d cells: %w", height, width, MaxCells, ErrBadSize)
	}
	w := World{
		height:  height,
		width:   width,
		cur:     newGrid(height, width),
		nxt:     newGrid(height, width),
		workers: DefWorkers,
	}
	for _, o := range opts {
		o(&w)
	}
	w.bands = splitRows(height, w.workers)
	return &w, nil
}

//splitRows divides rows [1, height] into at most workers bands of at least DefMinRowsPerWorker rows
func splitRows(height int, workers int) []band {
	rowsPerWorker := height / workers
	if rowsPerWorker < DefMinRowsPerWorker {
		rowsPerWorker = DefMinRowsPerWorker
	} else if rowsPerWorker*workers < height {
		rowsPerWorker++
	}
	bands := make([]band, 0, workers)
	for first := 1; first <= height; first += rowsPerWorker {
		last := first + rowsPerWorker - 1
		if last > height {
			last = height
		}
		bands = append(bands, band{first, last})
	}
	return bands
}

func (w *World) Height() int { return w.height }

func (w *World) Width() int { return w.width }

//Size returns the number of cells in the live region
func (w *World) Size() int { return w.height * w.width }

//Workers returns the number of row bands Evolve runs in parallel
func (w *World) Workers() int { return len(w.bands) }

//Wrap maps x (row) and y (column) toroidally into the live region
func (w *World) Wrap(x int, y int) (int, int) {
	return Wrap(x, w.height), Wrap(y, w.width)
}

//Get returns the cell at row x, column y after toroidal wrapping
func (w *World) Get(x int, y int) Cell {
	x, y = w.Wrap(x, y)
	return w.cur.At(x, y)
}

//Set writes the cell at row x, column y after toroidal wrapping
func (w *World) Set(x int, y int, c Cell) {
	x, y = w.Wrap(x, y)
	w.cur.Put(x, y, c)
}

//indexToCell decomposes a 0-based width-major linear index
func (w *World) indexToCell(index int) (row int, col int, ok bool) {
	if index < 0 || index >= w.Size() {
		return 0, 0, false
	}
	return index/w.width + 1, index%w.width + 1, true
}

//GetIndex returns the cell at a 0-based row-major index; out of range reads Dead
func (w *World) GetIndex(index int) Cell {
	row, col, ok := w.indexToCell(index)
	if !ok {
		return Dead
	}
	return w.cur.At(row, col)
}

//SetIndex writes the cell at a 0-based row-major index; out of range is ignored
func (w *World) SetIndex(index int, c Cell) {
	row, col, ok := w.indexToCell(index)
	if !ok {
		return
	}
	w.cur.Put(row, col, c)
}

//Evolve computes the next generation into the scratch grid and swaps the grids
func (w *World) Evolve() {
	if len(w.bands) <= 1 {
		w.evolveRows(1, w.height)
	} else {
		var waitGroup sync.WaitGroup
		for _, b := range w.bands {
			waitGroup.Add(1)
			go func() {
				w.evolveRows(b.first, b.last)
				waitGroup.Done()
			}()
		}
		waitGroup.Wait()
	}
	w.cur, w.nxt = w.nxt, w.cur
}

//evolveRows reads cur and writes nxt for rows [first, last]
func (w *World) evolveRows(first int, last int) {
	cur, nxt := w.cur, w.nxt
	for i := first; i <= last; i++ {
		src, dst := cur.rows[i], nxt.rows[i]
		for j := 1; j <= w.width; j++ {
			dst[j] = nextState(src[j], cur.neighbours(i, j))
		}
	}
}

//IsStable reports whether the state two generations ahead equals the current one.
//The lookahead runs on a clone; the world itself is not advanced.
func (w *World) IsStable() bool {
	scratch := w.Clone()
	scratch.Evolve()
	scratch.Evolve()
	return w.cur.equal(scratch.cur)
}

//Random sets each live cell to Alive with probability p, Dead otherwise
func (w *World) Random(p float64, r *rand.Rand) {
	for i := 1; i <= w.height; i++ {
		row := w.cur.rows[i]
		for j := 1; j <= w.width; j++ {
			if r.Float64() < p {
				row[j] = Alive
			} else {
				row[j] = Dead
			}
		}
	}
}

//Clear kills every cell
func (w *World) Clear() {
	w.cur.clear()
}

//LiveCells counts the live cells of the current generation
func (w *World) LiveCells() int {
	n := 0
	for _, c := range w.cur.cells {
		n += int(c)
	}
	return n
}

//Clone returns an independent copy with the same dimensions, state and workers
func (w *World) Clone() *World {
	c := World{
		height:  w.height,
		width:   w.width,
		cur:     newGrid(w.height, w.width),
		nxt:     newGrid(w.height, w.width),
		workers: w.workers,
		bands:   w.bands,
	}
	c.cur.copyFrom(w.cur)
	return &c
}

//Equal reports whether both worlds have the same dimensions and current generation
func (w *World) Equal(o *World) bool {
	return w.cur.equal(o.cur)
}

//Cells returns a 0-indexed copy of the live region
func (w *World) Cells() [][]Cell {
	cells := make([][]Cell, w.height)
	for i := range cells {
		cells[i] = make([]Cell, w.width)
		copy(cells[i], w.cur.rows[i+1][1:w.width+1])
	}
	return cells
}

//Walk calls cb for every live-region cell in row-major order with 1-indexed coordinates
func (w *World) Walk(cb func(row int, col int, c Cell)) {
	for i := 1; i <= w.height; i++ {
		for j := 1; j <= w.width; j++ {
			cb(i, j, w.cur.rows[i][j])
		}
	}
}

//String renders the live region as space-separated 0/1 rows
func (w *World) String() string {
	var b strings.Builder
	w.writeRows(&b)
	return b.String()
}

func (w *World) writeRows(b io.ByteWriter) {
	for i := 1; i <= w.height; i++ {
		for j := 1; j <= w.width; j++ {
			if j > 1 {
				_ = b.WriteByte(' ')
			}
			_ = b.WriteByte('0' + byte(w.cur.rows[i][j]))
		}
		_ = b.WriteByte('\n')
	}
}
