package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/integrii/flaggy"

	"torolife/src/cli"
	"torolife/src/session"
	"torolife/src/view"
)

type EnvOptions struct {
	interactive bool
	monochrome  bool
	load        string
	probability float64
	patterns    int
	seed        int64
}

func main() {
	eo, so := initOptions()

	seed := eo.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	colors := !eo.monochrome

	s, err := session.New(so, rng, os.Stdout)
	if err != nil {
		log.Fatalln(err)
	}
	out := view.NewConsoleOut(os.Stdout, colors)
	s.SetRenderer(out)

	if eo.load != "" {
		if err := s.Load(eo.load); err != nil {
			log.Fatalln(err)
		}
	}
	if eo.probability > 0 {
		if err := s.Fill(eo.probability); err != nil {
			log.Fatalln(err)
		}
	}
	s.RandomPatterns(eo.patterns)

	if eo.interactive {
		v, err := view.NewConsoleUI(s)
		if err != nil {
			log.Panicln(err)
		}
		if err := v.Start(); err != nil {
			log.Panicln(err)
		}
		return
	}

	out.PrintConfiguration(s.Options())
	fmt.Printf("  Seed: %v\n", seed)
	if err := cli.NewInterpreter(s, os.Stdout, colors).Run(os.Stdin); err != nil {
		log.Fatalln(err)
	}
}

func initOptions() (eo *EnvOptions, so *session.Options) {
	o := session.DefaultOptions
	so = &o
	eo = &EnvOptions{}

	flaggy.SetName("torolife")
	flaggy.SetDescription("Toroidal \"Life\" cellular automaton")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&so.Width, "x", "width", "Width of the initial world")
	flaggy.Int(&so.Height, "y", "height", "Height of the initial world")
	flaggy.Duration(&so.Delay, "i", "interval", "Delay between printed generations, for example 150ms")
	flaggy.Bool(&so.Print, "p", "print", "Print every generation while running")
	flaggy.Bool(&so.Stability, "s", "stability", "Stop running once the world is stable")
	flaggy.Int(&so.Workers, "w", "workers", "Goroutines evolving one generation")
	flaggy.String(&eo.load, "l", "load", "Load the initial world from a file")
	flaggy.Float64(&eo.probability, "r", "random", "Settle every cell alive with this probability")
	flaggy.Int(&eo.patterns, "", "patterns", "Stamp this many random patterns at start")
	flaggy.Int64(&eo.seed, "", "seed", "Random seed, 0 seeds from the clock")
	flaggy.Bool(&eo.monochrome, "m", "monochrome", "Disable colored output")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")

	flaggy.Parse()

	switch {
	case so.Width <= 0 || so.Height <= 0:
		flaggy.ShowHelpAndExit("width and height must be positive")
	case so.Workers < 1:
		flaggy.ShowHelpAndExit("workers must be at least 1")
	case eo.probability < 0 || eo.probability > 1:
		flaggy.ShowHelpAndExit("random probability must be within [0, 1]")
	case eo.patterns < 0:
		flaggy.ShowHelpAndExit("patterns must not be negative")
	case so.Delay < 0:
		flaggy.ShowHelpAndExit("interval must not be negative")
	}
	return
}
