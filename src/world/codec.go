package world

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

/*
	Plain text world format:

	<height>
	<width>
	<row 1: width space-separated 0/1 values>
	...
	<row height>

	Short rows and missing trailing rows are accepted, the missing cells stay dead.
	Longer rows, extra non-blank rows, values other than 0/1 and bad headers are rejected.
*/

var (
	ErrBadHeader = errors.New("bad header")
	ErrBadRow    = errors.New("bad row")
	ErrBadCell   = errors.New("bad cell value")
)

//Load parses a world from r. Rows are read whole, so their length is bounded only by the world width.
func Load(r io.Reader, opts ...Option) (*World, error) {
	br := bufio.NewReader(r)
	height, err := readHeader(br, "height")
	if err != nil {
		return nil, err
	}
	width, err := readHeader(br, "width")
	if err != nil {
		return nil, err
	}
	w, err := New(height, width, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadHeader, err)
	}

	row := 0
	for {
		line, ok, err := readLine(br)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		fields := strings.Fields(line)
		if row == height {
			if len(fields) != 0 {
				return nil, fmt.Errorf("%w: more than %d rows", ErrBadRow, height)
			}
			continue
		}
		row++
		if len(fields) > width {
			return nil, fmt.Errorf("%w %d: %d cells, width is %d", ErrBadRow, row, len(fields), width)
		}
		for j, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil || (v != 0 && v != 1) {
				return nil, fmt.Errorf("%w %q at row %d, column %d", ErrBadCell, f, row, j+1)
			}
			w.cur.Put(row, j+1, Cell(v))
		}
	}
	return w, nil
}

//readLine returns the next line without its terminator; ok is false at EOF
func readLine(br *bufio.Reader) (line string, ok bool, err error) {
	line, err = br.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", false, nil
		}
		err = nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

func readHeader(br *bufio.Reader, name string) (int, error) {
	line, ok, err := readLine(br)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrBadHeader, name)
	}
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrBadHeader, name, line)
	}
	return v, nil
}

//LoadFile reads a world from the file at path
func LoadFile(path string, opts ...Option) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	w, err := Load(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return w, nil
}

//Save writes the world to wr in the plain text format
func (w *World) Save(wr io.Writer) error {
	b := bufio.NewWriter(wr)
	if _, err := fmt.Fprintf(b, "%d\n%d\n", w.height, w.width); err != nil {
		return err
	}
	w.writeRows(b)
	return b.Flush()
}

//SaveFile writes the world to the file at path, replacing it
func (w *World) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := w.Save(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}
