package sim

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// WriteSolution writes the command count followed by one wire line per
// command, in issue order.
func WriteSolution(w io.Writer, cmds []Command) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", len(cmds)); err != nil {
		return err
	}
	for _, cmd := range cmds {
		if _, err := fmt.Fprintln(bw, cmd.WireString()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteSolutionFile writes the solution to path, creating or truncating it.
func WriteSolutionFile(path string, cmds []Command) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating solution file: %w", err)
	}
	if err := WriteSolution(f, cmds); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing solution file: %w", err)
	}
	return f.Close()
}
