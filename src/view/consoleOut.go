package view

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/logrusorgru/aurora"

	"torolife/src/session"
	"torolife/src/world"
)

//ConsoleOut prints generations as 0/1 rows, live cells highlighted when colors are on
type ConsoleOut struct {
	out  io.Writer
	au   aurora.Aurora
	live string
	dead string
}

func NewConsoleOut(out io.Writer, colors bool) *ConsoleOut {
	au := aurora.NewAurora(colors)
	return &ConsoleOut{
		out:  out,
		au:   au,
		live: au.Green("1").Bold().String(),
		dead: "0",
	}
}

//Render implements session.Renderer
func (c *ConsoleOut) Render(w *world.World, st session.Status) {
	var b bytes.Buffer
	b.WriteString(c.au.Cyan(fmt.Sprintf("Generation %d, live cells %d", st.Generation, st.LiveCells)).String())
	b.WriteByte('\n')
	w.Walk(func(row int, col int, e world.Cell) {
		if col > 1 {
			b.WriteByte(' ')
		}
		if e == world.Alive {
			b.WriteString(c.live)
		} else {
			b.WriteString(c.dead)
		}
		if col == w.Width() {
			b.WriteByte('\n')
		}
	})
	b.WriteByte('\n')
	_, _ = c.out.Write(b.Bytes())
}

//PrintConfiguration writes the running configuration
func (c *ConsoleOut) PrintConfiguration(o session.Options) {
	fmt.Fprintln(c.out, "Running configuration:")
	c.printHashData(map[string]interface{}{
		"Dimension": fmt.Sprintf("%v x %v", o.Height, o.Width),
		"Delay":     o.Delay,
		"Print":     c.onOff(o.Print),
		"Stability": c.onOff(o.Stability),
		"Workers":   o.Workers,
	})
}

func (c *ConsoleOut) onOff(v bool) string {
	if v {
		return c.au.Green("enabled").String()
	}
	return c.au.Red("disabled").String()
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.out, "  %s: %v\n", propName, d[propName])
	}
}
