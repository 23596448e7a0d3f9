package main

import (
	"flag"
	"fmt"
	"os"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/cmem"
	"github.com/wippyai/cmem/ctext"
	"github.com/wippyai/cmem/libc"
	"github.com/wippyai/cmem/track"
)

func main() {
	var (
		text        = flag.String("text", "Hello, world!", "Text to copy into foreign memory")
		verbose     = flag.Bool("v", false, "Log allocation lifecycle events")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*text); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*text, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// stealPrint models a foreign consumer that assumes ownership of the buffer
// it receives: it renders the text and frees the buffer itself. Extract is
// the hand-off built for exactly this kind of callee.
func stealPrint(mem cmem.Allocator, ptr unsafe.Pointer) {
	fmt.Println(ctext.View(ptr))
	mem.Free(ptr)
}

func run(text string, verbose bool) error {
	logger := zap.NewNop()
	if verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
	}

	heap := libc.NewWithLogger(logger)
	defer heap.Close()

	reg := track.NewRegistry()
	if verbose {
		reg.Subscribe(eventLogger{log: logger})
	}
	mem := track.Wrap(heap, reg, "demo")

	wrapped, err := ctext.New(mem, text)
	if err != nil {
		return err
	}

	// Ownership transfers to the consumer; our teardown is disarmed, the
	// consumer's free is the only one that runs.
	ptr := wrapped.Extract()
	reg.Handoff(ptr, "steal_print")
	stealPrint(mem, ptr)

	if n := reg.LogLeaks(logger); n > 0 {
		return fmt.Errorf("%d foreign allocation(s) leaked", n)
	}
	return nil
}

type eventLogger struct {
	log *zap.Logger
}

func (l eventLogger) OnAllocEvent(e track.Event) {
	var name string
	switch e.Type {
	case track.EventAlloc:
		name = "alloc"
	case track.EventFree:
		name = "free"
	case track.EventHandoff:
		name = "handoff"
	}
	l.log.Info(name,
		zap.Uintptr("ptr", e.Ptr),
		zap.Int("size", e.Size),
		zap.String("origin", e.Origin))
}
