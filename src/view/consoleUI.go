package view

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"torolife/src/session"
	"torolife/src/world"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//runningState of the interactive loop
type runningState int

const (
	runningStateManual runningState = iota
	runningStateRun
	runningStateFinished
)

//minimum tick of the run loop when the session delay is zero
const minInterval = 10 * time.Millisecond

//patterns stamped by the random key
const randomPatterns = 5

//ConsoleUI is the interactive terminal view.
//Every session call happens on the gocui main loop goroutine; the run ticker only schedules g.Update.
type ConsoleUI struct {
	s      *session.Session
	g      *gocui.Gui
	k      []keyBindings
	mode   runningState
	stopCh chan struct{}

	liveFiller string
	deadFiller string
	message    string
}

var (
	runningStateDescr = map[runningState]string{
		runningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		runningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		runningStateFinished: aurora.Colorize("stable", aurora.RedFg).String(),
	}
)

func NewConsoleUI(s *session.Session) (*ConsoleUI, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}
	t := ConsoleUI{
		s:          s,
		g:          g,
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Random patterns", t.cmdRandomPatterns, ""},
		{'k', "K", "Stability check", t.cmdToggleStability, ""},
		{'g', "G", "Glider", t.cmdStamp("glider"), "field"},
		{'t', "T", "Toad", t.cmdStamp("toad"), "field"},
		{'b', "B", "Beacon", t.cmdStamp("beacon"), "field"},
		{'m', "M", "Methuselah", t.cmdStamp("methuselah"), "field"},
		{gocui.MouseLeft, "MOUSE", "Toggle the cell", t.cmdMouseClick, "field"},
	}
	t.g.SetManagerFunc(t.layout)

	if err := t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}
	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return err
		}
	}
	return nil
}

//Start runs the gocui main loop until the user quits
func (t *ConsoleUI) Start() error {
	defer t.g.Close()
	err := t.g.MainLoop()
	t.stopTicker()
	if err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (t *ConsoleUI) refresh() {
	if v, err := t.g.View("field"); err == nil {
		t.renderField(v, t.s.World())
	}
	if v, err := t.g.View("configuration"); err == nil {
		t.renderConfiguration(v)
	}
	if v, err := t.g.View("status"); err == nil {
		t.renderStatus(v)
	}
}

func (t *ConsoleUI) renderField(v *gocui.View, w *world.World) {
	v.Clear()

	maxW, maxH := v.Size()
	crop := w.Width() > maxW || w.Height() > maxH

	var b bytes.Buffer
	w.Walk(func(row int, col int, e world.Cell) {
		//discard the data outside the view area
		if row > maxH || col > maxW {
			return
		}
		if col == 1 && row != 1 {
			b.WriteByte('\n')
		}
		if crop && row == maxH {
			if col == 1 {
				b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
			}
			return
		}
		if e == world.Alive {
			b.WriteString(t.liveFiller)
		} else {
			b.WriteString(t.deadFiller)
		}
	})
	_, _ = fmt.Fprint(v, b.String())
}

func (t *ConsoleUI) renderStatus(v *gocui.View) {
	st := t.s.Status()
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", st.Generation))
	_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", st.LiveCells))
	_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", st.IterationTime.Round(time.Microsecond)))
	_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[t.mode]))
	if t.message != "" {
		_, _ = fmt.Fprintln(v, " "+t.message)
	}
}

func (t *ConsoleUI) renderConfiguration(v *gocui.View) {
	o := t.s.Options()
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", o.Height, o.Width))
	_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", o.Delay))
	_, _ = fmt.Fprintln(v, t.renderProp("Stability", "%v", o.Stability))
	_, _ = fmt.Fprintln(v, t.renderProp("Workers", "%v", t.s.World().Workers()))
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("field")
		return nil
	}
	if _, err := t.headerLayout(g, 3, "Toroidal \"Life\" simulation"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
	}

	if v, err := g.SetView("field", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Field"
		v.Frame = true
		//pattern keys are bound to the field view
		if _, err := g.SetCurrentView("field"); err != nil {
			return err
		}
	}

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	t.refresh()
	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	}
	return
}

//tick runs on the main loop: one stability check and one step
func (t *ConsoleUI) tick(_ *gocui.Gui) error {
	if t.mode != runningStateRun {
		return nil
	}
	if t.s.Options().Stability && t.s.World().IsStable() {
		t.stopTicker()
		t.mode = runningStateFinished
		t.message = fmt.Sprintf("World is stable after %d generations", t.s.Status().Generation)
		return nil
	}
	t.s.Step()
	return nil
}

func (t *ConsoleUI) startTicker() {
	interval := t.s.Options().Delay
	if interval < minInterval {
		interval = minInterval
	}
	stopCh := make(chan struct{})
	t.stopCh = stopCh
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				t.g.Update(t.tick)
			}
		}
	}()
}

func (t *ConsoleUI) stopTicker() {
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	if t.mode != runningStateRun {
		t.s.Step()
		t.mode = runningStateManual
	}
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	if t.mode != runningStateRun {
		t.mode = runningStateRun
		t.message = ""
		t.startTicker()
	}
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	if t.mode == runningStateRun {
		t.stopTicker()
		t.mode = runningStateManual
	}
	return nil
}

func (t *ConsoleUI) cmdClear(v *gocui.View) error {
	_ = t.cmdStop(v)
	t.s.Clear()
	t.mode = runningStateManual
	t.message = ""
	return nil
}

func (t *ConsoleUI) cmdRandomPatterns(_ *gocui.View) error {
	placed := t.s.RandomPatterns(randomPatterns)
	t.message = fmt.Sprintf("Added %d random patterns", len(placed))
	return nil
}

func (t *ConsoleUI) cmdToggleStability(_ *gocui.View) error {
	t.s.SetStability(!t.s.Options().Stability)
	return nil
}

func (t *ConsoleUI) cmdStamp(name string) func(v *gocui.View) error {
	return func(v *gocui.View) error {
		cx, cy := v.Cursor()
		if err := t.s.Stamp(name, cy+1, cx+1); err != nil {
			return err
		}
		t.message = fmt.Sprintf("Added %s at (%d, %d)", name, cy+1, cx+1)
		return nil
	}
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	if cy >= t.s.World().Height() || cx >= t.s.World().Width() {
		return nil
	}
	t.s.Toggle(cy+1, cx+1)
	return nil
}
