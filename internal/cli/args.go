// Package cli parses the iris2odim command line and maps results to exit
// codes.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/couchcryptid/iris2odim/internal/pipeline"
)

// Usage is printed for any malformed invocation.
const Usage = "usage: iris2odim -i IRIS_file -o ODIM_H5_file"

// Exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Invocation is a well-formed command line.
type Invocation struct {
	Input  string
	Output string
}

// ParseInvocation accepts exactly "-i <input> -o <output>" in either order.
// args excludes the program name. Errors match pipeline.ErrInvalidInvocation.
func ParseInvocation(args []string) (Invocation, error) {
	if len(args) != 4 {
		return Invocation{}, invalid("expected 4 arguments, got %d", len(args))
	}
	if !isFlag(args[0]) || !isFlag(args[2]) || args[0] == args[2] {
		return Invocation{}, invalid("flags must be -i and -o, each once")
	}

	var inv Invocation
	fs := pflag.NewFlagSet("iris2odim", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	fs.StringVarP(&inv.Input, "input", "i", "", "IRIS input file")
	fs.StringVarP(&inv.Output, "output", "o", "", "ODIM_H5 output file")
	if err := fs.Parse(args); err != nil {
		return Invocation{}, invalid("%v", err)
	}
	if fs.NArg() != 0 {
		return Invocation{}, invalid("unexpected argument %q", fs.Arg(0))
	}
	if inv.Input == "" || inv.Output == "" {
		return Invocation{}, invalid("input and output paths must not be empty")
	}
	return inv, nil
}

func isFlag(tok string) bool {
	return tok == "-i" || tok == "-o"
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", pipeline.ErrInvalidInvocation, fmt.Sprintf(format, args...))
}

// ExitCode maps a conversion outcome to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, pipeline.ErrInvalidInvocation):
		return ExitUsage
	default:
		return ExitFailure
	}
}
