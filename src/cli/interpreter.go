package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/logrusorgru/aurora"

	"torolife/src/session"
)

var (
	ErrUsage          = errors.New("usage")
	ErrUnknownCommand = errors.New("unknown command")
	errExit           = errors.New("exit")
)

//command is one entry of the command table
type command struct {
	name    string
	usages  []string
	descr   string
	handler func(in *Interpreter, args []string) error
}

//Interpreter executes text commands against one session
type Interpreter struct {
	s        *session.Session
	out      io.Writer
	au       aurora.Aurora
	commands []command
	byName   map[string]*command
}

func NewInterpreter(s *session.Session, out io.Writer, colors bool) *Interpreter {
	in := Interpreter{
		s:   s,
		out: out,
		au:  aurora.NewAurora(colors),
	}
	in.commands = []command{
		{"create", []string{"create <height> <width>"}, "Create a new world", cmdCreate},
		{"load", []string{"load <filename>"}, "Load world from file", cmdLoad},
		{"save", []string{"save <filename>"}, "Save world to file", cmdSave},
		{"print", []string{"print <0|1>"}, "Enable/disable printing", cmdPrint},
		{"delay", []string{"delay <ms>"}, "Set print delay in milliseconds", cmdDelay},
		{"stability", []string{"stability <0|1>"}, "Enable/disable stability check", cmdStability},
		{"run", []string{"run <generations>"}, "Run simulation for n generations", cmdRun},
		{"set", []string{"set <x> <y> <0|1>", "set <index> <0|1>"}, "Set cell state at (x, y) or index", cmdSet},
		{"get", []string{"get <x> <y>", "get <index>"}, "Get cell state at (x, y) or index", cmdGet},
		{"glider", []string{"glider <x> <y>"}, "Add glider pattern at (x, y)", cmdStamp},
		{"toad", []string{"toad <x> <y>"}, "Add toad pattern at (x, y)", cmdStamp},
		{"beacon", []string{"beacon <x> <y>"}, "Add beacon pattern at (x, y)", cmdStamp},
		{"methuselah", []string{"methuselah <x> <y>"}, "Add methuselah pattern at (x, y)", cmdStamp},
		{"random", []string{"random <n>"}, "Add n random patterns", cmdRandom},
		{"fill", []string{"fill <probability>"}, "Seed every cell alive with probability p", cmdFill},
		{".help", []string{".help"}, "Show this help", cmdHelp},
		{".exit", []string{".exit"}, "Exit the program", cmdExit},
	}
	in.byName = make(map[string]*command, len(in.commands))
	for i := range in.commands {
		in.byName[in.commands[i].name] = &in.commands[i]
	}
	return &in
}

//Exec runs one command line. quit is true after .exit.
func (in *Interpreter) Exec(line string) (quit bool, err error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false, nil
	}
	name := strings.ToLower(tokens[0])
	c, ok := in.byName[name]
	if !ok {
		return false, fmt.Errorf("%w: %s. Type '.help' for commands", ErrUnknownCommand, name)
	}
	err = c.handler(in, tokens)
	if errors.Is(err, errExit) {
		return true, nil
	}
	return false, err
}

//Run reads commands from r until EOF or .exit, reporting errors and continuing
func (in *Interpreter) Run(r io.Reader) error {
	fmt.Fprintln(in.out, "Cellular Automaton CLI. Type '.help' for commands.")
	sc := bufio.NewScanner(r)
	for {
		fmt.Fprint(in.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(in.out)
			return sc.Err()
		}
		quit, err := in.Exec(sc.Text())
		if err != nil {
			fmt.Fprintf(in.out, "%s %v\n", in.au.Red("Error:"), err)
		}
		if quit {
			return nil
		}
	}
}

func (in *Interpreter) usage(name string) error {
	return fmt.Errorf("%w: %s", ErrUsage, strings.Join(in.byName[name].usages, " or "))
}

func (in *Interpreter) onOff(v bool) aurora.Value {
	if v {
		return in.au.Green("enabled")
	}
	return in.au.Red("disabled")
}

func (in *Interpreter) aliveDead(v bool) string {
	if v {
		return "alive"
	}
	return "dead"
}

//ints parses every token as an integer not below least
func ints(tokens []string, least int, what string) ([]int, error) {
	vs := make([]int, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", tok)
		}
		if v < least {
			return nil, fmt.Errorf("%s must be at least %d", what, least)
		}
		vs[i] = v
	}
	return vs, nil
}

//setting parses a 0|1 setting
func setting(tok string) (bool, error) {
	switch tok {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, errors.New("setting must be 0 or 1")
}

func cmdCreate(in *Interpreter, args []string) error {
	if len(args) != 3 {
		return in.usage("create")
	}
	v, err := ints(args[1:], 1, "height and width")
	if err != nil {
		return err
	}
	if err := in.s.Create(v[0], v[1]); err != nil {
		return err
	}
	fmt.Fprintf(in.out, "Created %dx%d world\n", v[0], v[1])
	return nil
}

func cmdLoad(in *Interpreter, args []string) error {
	if len(args) != 2 {
		return in.usage("load")
	}
	if err := in.s.Load(args[1]); err != nil {
		return err
	}
	fmt.Fprintf(in.out, "Loaded world from %s\n", args[1])
	return nil
}

func cmdSave(in *Interpreter, args []string) error {
	if len(args) != 2 {
		return in.usage("save")
	}
	if err := in.s.Save(args[1]); err != nil {
		return err
	}
	fmt.Fprintf(in.out, "Saved world to %s\n", args[1])
	return nil
}

func cmdPrint(in *Interpreter, args []string) error {
	if len(args) != 2 {
		return in.usage("print")
	}
	on, err := setting(args[1])
	if err != nil {
		return err
	}
	in.s.SetPrint(on)
	fmt.Fprintf(in.out, "Print setting: %v\n", in.onOff(on))
	return nil
}

func cmdDelay(in *Interpreter, args []string) error {
	if len(args) != 2 {
		return in.usage("delay")
	}
	v, err := ints(args[1:], 0, "delay")
	if err != nil {
		return err
	}
	in.s.SetDelay(time.Duration(v[0]) * time.Millisecond)
	fmt.Fprintf(in.out, "Set delay to %d ms\n", v[0])
	return nil
}

func cmdStability(in *Interpreter, args []string) error {
	if len(args) != 2 {
		return in.usage("stability")
	}
	on, err := setting(args[1])
	if err != nil {
		return err
	}
	in.s.SetStability(on)
	fmt.Fprintf(in.out, "Stability check: %v\n", in.onOff(on))
	return nil
}

func cmdRun(in *Interpreter, args []string) error {
	if len(args) != 2 {
		return in.usage("run")
	}
	v, err := ints(args[1:], 0, "generations")
	if err != nil {
		return err
	}
	res := in.s.Run(v[0])
	if res.Stable && res.Generations < res.Requested {
		fmt.Fprintf(in.out, "Ran %d of %d generations in %v seconds\n", res.Generations, res.Requested, res.Elapsed.Seconds())
		return nil
	}
	fmt.Fprintf(in.out, "Ran %d generations in %v seconds\n", res.Generations, res.Elapsed.Seconds())
	return nil
}

func cmdSet(in *Interpreter, args []string) error {
	switch len(args) {
	case 3:
		v, err := ints(args[1:2], 0, "index")
		if err != nil {
			return err
		}
		alive, err := setting(args[2])
		if err != nil {
			return err
		}
		in.s.SetIndex(v[0], alive)
		fmt.Fprintf(in.out, "Set cell at index %d to %s\n", v[0], in.aliveDead(alive))
	case 4:
		v, err := ints(args[1:3], 1, "coordinates")
		if err != nil {
			return err
		}
		alive, err := setting(args[3])
		if err != nil {
			return err
		}
		in.s.Set(v[0], v[1], alive)
		fmt.Fprintf(in.out, "Set cell at (%d, %d) to %s\n", v[0], v[1], in.aliveDead(alive))
	default:
		return in.usage("set")
	}
	return nil
}

func cmdGet(in *Interpreter, args []string) error {
	switch len(args) {
	case 2:
		v, err := ints(args[1:], 0, "index")
		if err != nil {
			return err
		}
		fmt.Fprintf(in.out, "Cell at index %d: %d\n", v[0], b2i(in.s.GetIndex(v[0])))
	case 3:
		v, err := ints(args[1:], 1, "coordinates")
		if err != nil {
			return err
		}
		fmt.Fprintf(in.out, "Cell at (%d, %d): %d\n", v[0], v[1], b2i(in.s.Get(v[0], v[1])))
	default:
		return in.usage("get")
	}
	return nil
}

func cmdStamp(in *Interpreter, args []string) error {
	name := strings.ToLower(args[0])
	if len(args) != 3 {
		return in.usage(name)
	}
	v, err := ints(args[1:], 1, "coordinates")
	if err != nil {
		return err
	}
	if err := in.s.Stamp(name, v[0], v[1]); err != nil {
		return err
	}
	fmt.Fprintf(in.out, "Added %s at (%d, %d)\n", name, v[0], v[1])
	return nil
}

func cmdRandom(in *Interpreter, args []string) error {
	if len(args) != 2 {
		return in.usage("random")
	}
	v, err := ints(args[1:], 0, "number of patterns")
	if err != nil {
		return err
	}
	placed := in.s.RandomPatterns(v[0])
	fmt.Fprintf(in.out, "Added %d random patterns\n", len(placed))
	return nil
}

func cmdFill(in *Interpreter, args []string) error {
	if len(args) != 2 {
		return in.usage("fill")
	}
	p, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("%q is not a number", args[1])
	}
	if err := in.s.Fill(p); err != nil {
		return err
	}
	fmt.Fprintf(in.out, "Filled world with probability %v\n", p)
	return nil
}

func cmdHelp(in *Interpreter, _ []string) error {
	fmt.Fprintln(in.out, "Available commands:")
	for _, c := range in.commands {
		for _, u := range c.usages {
			fmt.Fprintf(in.out, "  %s : %s\n", u, c.descr)
		}
	}
	return nil
}

func cmdExit(in *Interpreter, _ []string) error {
	fmt.Fprintln(in.out, "Exiting...")
	return errExit
}

func b2i(v bool) int {
	if v {
		return 1
	}
	return 0
}
