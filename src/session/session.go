package session

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"torolife/src/pattern"
	"torolife/src/world"
)

//Options represents the session's configurable settings.
//They are independent of the world and survive Create/Load.
type Options struct {
	Height    int
	Width     int
	Print     bool
	Delay     time.Duration
	Stability bool
	Workers   int
}

//Status represents the session counters at the concrete moment
type Status struct {
	Generation    int
	LiveCells     int
	IterationTime time.Duration
	Height        int
	Width         int
}

//RunResult describes one Run call
type RunResult struct {
	Requested   int
	Generations int //generations actually evolved
	Stable      bool
	Elapsed     time.Duration
}

//Renderer draws the world when printing is enabled
type Renderer interface {
	Render(w *world.World, st Status)
}

//default options
const (
	DefDelay  = time.Millisecond * 100
	DefWidth  = 40
	DefHeight = 15
)

var DefaultOptions = Options{
	Height:  DefHeight,
	Width:   DefWidth,
	Delay:   DefDelay,
	Workers: world.DefWorkers,
}

//Session owns exactly one World plus the presentation and stability settings.
//It is not safe for concurrent use.
type Session struct {
	options  Options
	world    *world.World
	rng      *rand.Rand
	out      io.Writer
	renderer Renderer
	status   Status
	sleep    func(d time.Duration)
}

//New creates a session with a blank world of o.Height x o.Width.
//A nil o uses DefaultOptions, a nil rng is seeded from the clock.
func New(o *Options, rng *rand.Rand, out io.Writer) (*Session, error) {
	if o == nil {
		o = &DefaultOptions
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	s := Session{
		options: *o,
		rng:     rng,
		out:     out,
		sleep:   time.Sleep,
	}
	s.renderer = plainRenderer{out}
	if err := s.Create(o.Height, o.Width); err != nil {
		return nil, err
	}
	return &s, nil
}

//SetRenderer replaces the renderer used by Print and Run
func (s *Session) SetRenderer(r Renderer) {
	s.renderer = r
}

//World returns the current world
func (s *Session) World() *world.World { return s.world }

//Options returns the current settings
func (s *Session) Options() Options { return s.options }

//Status returns the current counters
func (s *Session) Status() Status {
	st := s.status
	st.LiveCells = s.world.LiveCells()
	st.Height, st.Width = s.world.Height(), s.world.Width()
	return st
}

//Rand returns the session's generator
func (s *Session) Rand() *rand.Rand { return s.rng }

//Create replaces the world with a blank height x width one
func (s *Session) Create(height int, width int) error {
	w, err := world.New(height, width, world.WithWorkers(s.options.Workers))
	if err != nil {
		return err
	}
	s.replace(w)
	return nil
}

//Load replaces the world with the one stored at path and echoes it.
//On failure the current world is kept.
func (s *Session) Load(path string) error {
	w, err := world.LoadFile(path, world.WithWorkers(s.options.Workers))
	if err != nil {
		return err
	}
	s.replace(w)
	fmt.Fprintln(s.out, "Created world from file:")
	fmt.Fprint(s.out, w.String())
	return nil
}

//LoadFrom replaces the world with one parsed from r. On failure the current world is kept.
func (s *Session) LoadFrom(r io.Reader) error {
	w, err := world.Load(r, world.WithWorkers(s.options.Workers))
	if err != nil {
		return err
	}
	s.replace(w)
	return nil
}

//Save writes the current world to path
func (s *Session) Save(path string) error {
	return s.world.SaveFile(path)
}

func (s *Session) replace(w *world.World) {
	s.world = w
	s.status = Status{}
	s.options.Height, s.options.Width = w.Height(), w.Width()
}

//SetPrint toggles print-on-step; enabling it renders the world immediately
func (s *Session) SetPrint(enabled bool) {
	s.options.Print = enabled
	if enabled {
		s.Print()
	}
}

//SetDelay sets the pause between printed generations
func (s *Session) SetDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.options.Delay = d
}

//SetStability toggles the stability check of Run
func (s *Session) SetStability(enabled bool) {
	s.options.Stability = enabled
}

//Print renders the current world
func (s *Session) Print() {
	if s.renderer != nil {
		s.renderer.Render(s.world, s.Status())
	}
}

//Set writes the cell at the wrapped coordinate x, y
func (s *Session) Set(x int, y int, alive bool) {
	s.world.Set(x, y, cell(alive))
}

//Get reads the cell at the wrapped coordinate x, y
func (s *Session) Get(x int, y int) bool {
	return s.world.Get(x, y) == world.Alive
}

//SetIndex writes the cell at a 0-based row-major index
func (s *Session) SetIndex(index int, alive bool) {
	s.world.SetIndex(index, cell(alive))
}

//GetIndex reads the cell at a 0-based row-major index
func (s *Session) GetIndex(index int) bool {
	return s.world.GetIndex(index) == world.Alive
}

//Toggle inverses the cell at x, y
func (s *Session) Toggle(x int, y int) {
	s.Set(x, y, !s.Get(x, y))
}

//Stamp places the named pattern anchored at x, y
func (s *Session) Stamp(name string, x int, y int) error {
	p, err := pattern.Lookup(name)
	if err != nil {
		return err
	}
	pattern.Stamp(s.world, p, x, y)
	return nil
}

//RandomPatterns stamps n random patterns at random anchors
func (s *Session) RandomPatterns(n int) []pattern.Placement {
	return pattern.Random(s.world, s.rng, n)
}

//Fill seeds every cell independently with probability p
func (s *Session) Fill(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("probability %v outside [0, 1]", p)
	}
	s.world.Random(p, s.rng)
	return nil
}

//Clear kills every cell and resets the counters
func (s *Session) Clear() {
	s.world.Clear()
	s.status = Status{}
}

//Step evolves one generation
func (s *Session) Step() {
	start := time.Now()
	s.world.Evolve()
	s.status.Generation++
	s.status.IterationTime = time.Since(start)
}

//Run evolves up to generations steps.
//When printing, each generation is rendered before it evolves and followed by the delay.
//When the stability check is on, the loop ends early once the world is stable.
func (s *Session) Run(generations int) RunResult {
	start := time.Now()
	res := RunResult{Requested: generations}
	for i := 0; i < generations; i++ {
		if s.options.Print {
			s.Print()
		}
		if s.options.Stability && s.world.IsStable() {
			res.Stable = true
			fmt.Fprintf(s.out, "World is stable after %d generations\n", i)
			break
		}
		s.Step()
		res.Generations++
		if s.options.Print && s.options.Delay > 0 {
			s.sleep(s.options.Delay)
		}
	}
	res.Elapsed = time.Since(start)
	return res
}

func cell(alive bool) world.Cell {
	if alive {
		return world.Alive
	}
	return world.Dead
}

//plainRenderer prints the world as 0/1 rows followed by a blank line
type plainRenderer struct {
	out io.Writer
}

func (p plainRenderer) Render(w *world.World, _ Status) {
	fmt.Fprint(p.out, w.String())
	fmt.Fprintln(p.out)
}
