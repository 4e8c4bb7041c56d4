// Command svdump compiles SystemVerilog sources and writes the elaborated
// program tree as a JSON or MessagePack document.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command tree with args and returns the exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	code, msg := exitStatus(root.ExecuteContext(ctx))
	if msg != "" {
		fmt.Fprintf(stderr, "svdump: %s\n", msg)
	}
	return code
}
