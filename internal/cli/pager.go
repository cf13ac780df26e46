package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"

	"github.com/mithrel/calpad/internal/present"
	"github.com/mithrel/calpad/pkg/api"
)

const defaultPager = "less -FRSX"

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// resolveOutput parses --output. An empty value picks pretty output on a
// terminal and plain output otherwise.
func resolveOutput(out io.Writer, outputMode string, noHeaders bool) (present.Options, error) {
	mode := present.ModePlain
	if strings.TrimSpace(outputMode) == "" {
		if isTerminal(out) {
			mode = present.ModePretty
		}
	} else {
		m, ok := present.ParseMode(outputMode)
		if !ok || m == present.ModeTUI {
			return present.Options{}, fmt.Errorf("invalid --output: %s", outputMode)
		}
		mode = m
	}
	return present.Options{
		Mode:       mode,
		JSONIndent: false, // pretty-print via external tools like jq
		Headers:    !noHeaders,
	}, nil
}

func renderEvents(ctx context.Context, out, errOut io.Writer, events []api.Event, opts present.Options) error {
	return withPager(ctx, out, errOut, func(w io.Writer) error {
		return present.RenderEvents(w, events, opts)
	})
}

func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	outFile, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(outFile.Fd())) {
		return write(out)
	}
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = defaultPager
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = outFile
	if errFile, ok := errOut.(*os.File); ok {
		cmd.Stderr = errFile
	} else {
		cmd.Stderr = os.Stderr
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	writeErr := write(stdin)
	_ = stdin.Close()
	waitErr := cmd.Wait()
	if writeErr != nil {
		return writeErr
	}
	return waitErr
}
