package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// lineReader reads one command line at a time, showing the prompt first.
type lineReader interface {
	ReadLine() (string, error)
}

// newLineReader returns a line reader for in together with the reader
// commands should use for their own prompts. On a terminal lines are read
// with editing and history; anything else is read line by line.
func newLineReader(in io.Reader, out io.Writer) (lineReader, io.Reader) {
	inFile, inOK := in.(*os.File)
	outFile, outOK := out.(*os.File)
	if inOK && outOK && term.IsTerminal(int(inFile.Fd())) && term.IsTerminal(int(outFile.Fd())) {
		rw := struct {
			io.Reader
			io.Writer
		}{inFile, outFile}
		return &ttyReader{fd: int(inFile.Fd()), t: term.NewTerminal(rw, prompt)}, inFile
	}

	r := bufio.NewReader(in)
	return &plainReader{r: r, out: out}, r
}

// ttyReader puts the terminal in raw mode only while a line is read, so
// commands prompting on their own see a cooked terminal.
type ttyReader struct {
	fd int
	t  *term.Terminal
}

func (r *ttyReader) ReadLine() (string, error) {
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return "", fmt.Errorf("failed to set raw mode: %w", err)
	}
	defer term.Restore(r.fd, state)
	return r.t.ReadLine()
}

type plainReader struct {
	r   *bufio.Reader
	out io.Writer
}

// ReadLine returns the next line without its terminator. A final line
// with no newline is returned before io.EOF.
func (r *plainReader) ReadLine() (string, error) {
	fmt.Fprint(r.out, prompt)
	line, err := r.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
