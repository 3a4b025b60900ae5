package world

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func newWorld(t *testing.T, height int, width int, opts ...Option) *World {
	t.Helper()
	w, err := New(height, width, opts...)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", height, width, err)
	}
	return w
}

func settle(w *World, cells [][2]int) {
	for _, c := range cells {
		w.Set(c[0], c[1], Alive)
	}
}

func expectLive(t *testing.T, w *World, cells [][2]int) {
	t.Helper()
	want := map[[2]int]bool{}
	for _, c := range cells {
		want[c] = true
	}
	w.Walk(func(row int, col int, c Cell) {
		if (c == Alive) != want[[2]int{row, col}] {
			t.Fatalf("cell (%d,%d) alive=%v, expected %v\n%s", row, col, c == Alive, want[[2]int{row, col}], w)
		}
	})
}

func TestNewAllDead(t *testing.T) {
	for n := 1; n <= 12; n++ {
		w := newWorld(t, n, n)
		for x := 1; x <= n; x++ {
			for y := 1; y <= n; y++ {
				if w.Get(x, y) != Dead {
					t.Fatalf("%dx%d: cell (%d,%d) is alive", n, n, x, y)
				}
			}
		}
		if w.LiveCells() != 0 {
			t.Fatalf("%dx%d: live cells %d", n, n, w.LiveCells())
		}
	}
}

func TestNewBadSize(t *testing.T) {
	for _, s := range [][2]int{{0, 5}, {5, 0}, {-1, 3}, {MaxCells, 1}, {1 << 20, 1 << 20}, {1, int(^uint(0) >> 1)}} {
		if _, err := New(s[0], s[1]); !errors.Is(err, ErrBadSize) {
			t.Errorf("New(%d, %d) error = %v, expected ErrBadSize", s[0], s[1], err)
		}
	}
}

func TestWrapRange(t *testing.T) {
	for _, n := range []int{1, 2, 5, 17} {
		for v := -3 * n; v <= 3*n; v++ {
			got := Wrap(v, n)
			if got < 1 || got > n {
				t.Fatalf("Wrap(%d, %d) = %d, outside [1,%d]", v, n, got, n)
			}
			if Wrap(got, n) != got {
				t.Fatalf("Wrap(%d, %d) is not idempotent", got, n)
			}
		}
	}
	cases := []struct{ v, n, want int }{
		{1, 5, 1}, {5, 5, 5}, {6, 5, 1}, {0, 5, 5}, {-1, 5, 4}, {-5, 5, 5}, {11, 5, 1},
	}
	for _, c := range cases {
		if got := Wrap(c.v, c.n); got != c.want {
			t.Errorf("Wrap(%d, %d) = %d, expected %d", c.v, c.n, got, c.want)
		}
	}
}

func TestSetGetWraps(t *testing.T) {
	w := newWorld(t, 4, 6)
	w.Set(0, 0, Alive)
	if w.Get(4, 6) != Alive {
		t.Fatalf("Set(0,0) did not wrap to (4,6)\n%s", w)
	}
	if w.Get(-4, -6) != Alive || w.Get(8, 12) != Alive {
		t.Fatalf("Get does not wrap")
	}
	w.Set(8, 12, Dead)
	if w.LiveCells() != 0 {
		t.Fatalf("Set(8,12,Dead) did not clear the wrapped cell")
	}
}

func TestBorderNeverTouched(t *testing.T) {
	w := newWorld(t, 3, 4)
	g := w.cur
	for _, rc := range [][2]int{{0, 1}, {4, 1}, {1, 0}, {1, 5}, {0, 0}, {4, 5}, {-2, 9}} {
		g.Put(rc[0], rc[1], Alive)
		if g.At(rc[0], rc[1]) != Dead {
			t.Fatalf("At(%d,%d) read a border cell as alive", rc[0], rc[1])
		}
	}
	if w.LiveCells() != 0 {
		t.Fatalf("out-of-range Put mutated the grid")
	}

	w.Random(1, rand.New(rand.NewPCG(1, 0)))
	for i := 0; i < 5; i++ {
		w.Evolve()
	}
	for _, grid := range []*Grid{w.cur, w.nxt} {
		for i, row := range grid.rows {
			for j, c := range row {
				border := i == 0 || i == grid.Height+1 || j == 0 || j == grid.Width+1
				if border && c != Dead {
					t.Fatalf("border cell (%d,%d) is alive", i, j)
				}
			}
		}
	}
}

func TestIndexIsWidthMajor(t *testing.T) {
	w := newWorld(t, 2, 5)
	w.SetIndex(0, Alive)
	w.SetIndex(7, Alive)
	w.SetIndex(9, Alive)
	expectLive(t, w, [][2]int{{1, 1}, {2, 3}, {2, 5}})
	if w.GetIndex(7) != Alive || w.GetIndex(6) != Dead {
		t.Fatalf("GetIndex does not match SetIndex")
	}

	w.SetIndex(-1, Alive)
	w.SetIndex(10, Alive)
	if w.LiveCells() != 3 {
		t.Fatalf("out-of-range SetIndex mutated the grid")
	}
	if w.GetIndex(10) != Dead || w.GetIndex(-1) != Dead {
		t.Fatalf("out-of-range GetIndex should read Dead")
	}
	w.SetIndex(7, Dead)
	if w.GetIndex(7) != Dead {
		t.Fatalf("SetIndex(7, Dead) did not clear")
	}
}

func TestBlinkerOscillation(t *testing.T) {
	w := newWorld(t, 5, 5)
	settle(w, [][2]int{{2, 3}, {3, 3}, {4, 3}})

	w.Evolve()
	expectLive(t, w, [][2]int{{3, 2}, {3, 3}, {3, 4}})

	w.Evolve()
	expectLive(t, w, [][2]int{{2, 3}, {3, 3}, {4, 3}})
}

func TestBlockStillLife(t *testing.T) {
	w := newWorld(t, 6, 6)
	block := [][2]int{{2, 2}, {2, 3}, {3, 2}, {3, 3}}
	settle(w, block)
	for i := 0; i < 3; i++ {
		w.Evolve()
		expectLive(t, w, block)
	}
}

func TestEdgesAreDead(t *testing.T) {
	//a blinker across the top edge does not see row height through the border
	w := newWorld(t, 5, 5)
	settle(w, [][2]int{{1, 2}, {1, 3}, {1, 4}})
	w.Evolve()
	expectLive(t, w, [][2]int{{1, 3}, {2, 3}})
}

func TestGliderTranslates(t *testing.T) {
	w := newWorld(t, 12, 12)
	glider := [][2]int{{2, 3}, {3, 4}, {4, 2}, {4, 3}, {4, 4}}
	settle(w, glider)
	for i := 0; i < 4; i++ {
		w.Evolve()
	}
	moved := make([][2]int, len(glider))
	for i, c := range glider {
		moved[i] = [2]int{c[0] + 1, c[1] + 1}
	}
	expectLive(t, w, moved)
}

func TestIsStableDoesNotAdvance(t *testing.T) {
	w := newWorld(t, 6, 6)
	block := [][2]int{{2, 2}, {2, 3}, {3, 2}, {3, 3}}
	settle(w, block)
	if !w.IsStable() || !w.IsStable() {
		t.Fatalf("block should be stable")
	}
	expectLive(t, w, block)

	g := newWorld(t, 12, 12)
	glider := [][2]int{{2, 3}, {3, 4}, {4, 2}, {4, 3}, {4, 4}}
	settle(g, glider)
	if g.IsStable() || g.IsStable() {
		t.Fatalf("glider should not be stable")
	}
	expectLive(t, g, glider)
}

func TestIsStablePeriodTwo(t *testing.T) {
	w := newWorld(t, 5, 5)
	settle(w, [][2]int{{2, 3}, {3, 3}, {4, 3}})
	if !w.IsStable() {
		t.Fatalf("blinker repeats after two generations and should be stable")
	}
}

func TestEmptyIsStable(t *testing.T) {
	if !newWorld(t, 3, 3).IsStable() {
		t.Fatalf("empty world should be stable")
	}
}

func TestRandomProbability(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 0))
	for _, s := range [][2]int{{1, 1}, {3, 7}, {20, 20}} {
		w := newWorld(t, s[0], s[1])
		w.Random(1, r)
		if w.LiveCells() != w.Size() {
			t.Fatalf("%v: Random(1) left %d of %d alive", s, w.LiveCells(), w.Size())
		}
		w.Random(0, r)
		if w.LiveCells() != 0 {
			t.Fatalf("%v: Random(0) left %d alive", s, w.LiveCells())
		}
	}
}

func TestRandomIsSeeded(t *testing.T) {
	a := newWorld(t, 10, 10)
	b := newWorld(t, 10, 10)
	a.Random(0.3, rand.New(rand.NewPCG(7, 0)))
	b.Random(0.3, rand.New(rand.NewPCG(7, 0)))
	if !a.Equal(b) {
		t.Fatalf("same seed produced different worlds")
	}
}

func TestWorkersMatchSequential(t *testing.T) {
	seq := newWorld(t, 40, 30)
	seq.Random(0.35, rand.New(rand.NewPCG(3, 0)))
	for _, workers := range []int{2, 3, 4, 10, 64} {
		par := newWorld(t, 40, 30, WithWorkers(workers))
		ref := seq.Clone()
		for row, cells := range seq.Cells() {
			for col, c := range cells {
				par.Set(row+1, col+1, c)
			}
		}
		for i := 0; i < 10; i++ {
			ref.Evolve()
			par.Evolve()
			if !ref.Equal(par) {
				t.Fatalf("workers=%d: generation %d differs", workers, i+1)
			}
		}
	}
}

func TestSplitRows(t *testing.T) {
	cases := []struct {
		height, workers, bands int
	}{
		{40, 1, 1}, {40, 4, 4}, {10, 10, 4}, {41, 4, 4}, {2, 8, 1},
	}
	for _, c := range cases {
		b := splitRows(c.height, c.workers)
		if len(b) != c.bands {
			t.Errorf("splitRows(%d, %d) = %d bands, expected %d", c.height, c.workers, len(b), c.bands)
		}
		next := 1
		for _, r := range b {
			if r.first != next || r.last < r.first {
				t.Fatalf("splitRows(%d, %d): bad band %+v", c.height, c.workers, r)
			}
			next = r.last + 1
		}
		if next != c.height+1 {
			t.Fatalf("splitRows(%d, %d) does not cover all rows", c.height, c.workers)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	w := newWorld(t, 4, 4)
	w.Set(1, 1, Alive)
	c := w.Clone()
	c.Set(2, 2, Alive)
	if w.Get(2, 2) != Dead {
		t.Fatalf("clone shares state with the original")
	}
	if w.Equal(c) {
		t.Fatalf("Equal should see the difference")
	}
}

func TestClear(t *testing.T) {
	w := newWorld(t, 4, 4)
	w.Random(1, rand.New(rand.NewPCG(1, 0)))
	w.Clear()
	if w.LiveCells() != 0 {
		t.Fatalf("Clear left %d live cells", w.LiveCells())
	}
}

func TestString(t *testing.T) {
	w := newWorld(t, 2, 3)
	w.Set(1, 2, Alive)
	w.Set(2, 3, Alive)
	if got, want := w.String(), "0 1 0\n0 0 1\n"; got != want {
		t.Fatalf("String() = %q, expected %q", got, want)
	}
}
