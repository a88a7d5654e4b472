package tester

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Compiler runs the external ccg2xml compiler.
type Compiler struct {
	// Command is the command line of the compiler. Arguments are separated by white spaces.
	Command string
	// Timeout bounds one compilation. Zero means no limit besides the context.
	Timeout time.Duration
}

type CompileError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("%v failed: %v", e.Command, e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Compile feeds src to the compiler on stdin and lets it write the XML files of the grammar
// into dir, with file names prefixed by `<name>-`.
func (c *Compiler) Compile(ctx context.Context, name string, src []byte, dir string) error {
	args := strings.Fields(c.Command)
	if len(args) == 0 {
		return errors.New("no ccg2xml command is configured")
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args = append(args, "-", "--prefix", name+"-", "--quiet", "--dir", dir)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = bytes.NewReader(src)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return &CompileError{
			Command: c.Command,
			Stderr:  stderr.String(),
			Err:     err,
		}
	}
	return nil
}
